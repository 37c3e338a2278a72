package cli

import (
	"github.com/urfave/cli/v2"
)

// configFlags спільні прапорці для команд, яким потрібна конфігурація
func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Configuration file path",
			Value:   "_local.hcl",
		},
		&cli.BoolFlag{
			Name:  "from-env",
			Usage: "Read configuration from environment variables instead of a file",
		},
	}
}

// NewApp створює новий CLI додаток
func NewApp() *cli.App {
	app := &cli.App{
		Commands: []*cli.Command{
			{
				Name:  "configure",
				Usage: "Generate configuration from template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "template",
						Aliases: []string{"t"},
						Usage:   "Path to HCL template file",
						Value:   "configs/login-server.hcl.tmpl",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output configuration file path",
						Value:   "_local.hcl",
					},
					&cli.StringFlag{
						Name:    "mode",
						Aliases: []string{"m"},
						Usage:   "Configuration mode (development, staging, production)",
						Value:   "development",
					},
					&cli.StringSliceFlag{
						Name:  "var",
						Usage: "Template variable override in name=value form",
					},
				},
				Action: configureAction,
			},
			{
				Name:   "server",
				Usage:  "Start the login server",
				Flags:  configFlags(),
				Action: serverAction,
			},
			{
				Name:   "migrate",
				Usage:  "Create the credentials table",
				Flags:  configFlags(),
				Action: migrateAction,
			},
			{
				Name:   "check-env",
				Usage:  "Report which required environment variables are set",
				Action: checkEnvAction,
			},
			{
				Name:   "check-db",
				Usage:  "Verify the credentials table exists and accepts writes",
				Flags:  configFlags(),
				Action: checkDBAction,
			},
			{
				Name:   "version",
				Usage:  "Show version information",
				Action: versionAction,
			},
		},
	}

	return app
}
