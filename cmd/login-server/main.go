package main

import (
	"log"
	"os"

	"google-login/internal/build"
	"google-login/internal/cli"
)

// @title Google Login API
// @version 1.0
// @description Вхід через Google OAuth, збереження облікових даних і cookies сесії
// @BasePath /
func main() {
	app := cli.NewApp()
	app.Name = "Google Login Server"
	app.Version = build.Version
	app.Usage = "Sign in with Google, store OAuth credentials and issue session cookies"

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
