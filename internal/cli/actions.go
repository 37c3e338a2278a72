package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"google-login/internal/build"
	"google-login/internal/config"
	"google-login/internal/services"
)

// configureAction генерує конфігурацію з шаблону
func configureAction(c *cli.Context) error {
	templatePath, err := absPath(c.String("template"))
	if err != nil {
		return err
	}
	outputPath, err := absPath(c.String("output"))
	if err != nil {
		return err
	}
	mode := c.String("mode")

	fmt.Printf("🔧 Configuring Google Login Server\n")
	fmt.Printf("Template: %s\n", templatePath)
	fmt.Printf("Output: %s\n", outputPath)
	fmt.Printf("Mode: %s\n", mode)

	if _, err := os.Stat(templatePath); os.IsNotExist(err) {
		return fmt.Errorf("template file does not exist: %s", templatePath)
	}

	vars, err := templateVars(mode, c.StringSlice("var"), os.LookupEnv)
	if err != nil {
		return err
	}

	if err := config.GenerateConfigFromTemplate(templatePath, outputPath, vars); err != nil {
		return fmt.Errorf("failed to generate config: %w", err)
	}

	fmt.Printf("✅ Configuration generated successfully: %s\n", outputPath)
	return nil
}

// serverAction запускає сервер
func serverAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	fmt.Printf("🚀 Starting Google Login Server\n")
	fmt.Printf("Version: %s\n", build.Version)

	return config.StartServer(cfg)
}

// migrateAction створює схему
func migrateAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	return config.RunMigrations(cfg)
}

// checkEnvAction друкує стан обов'язкових змінних оточення
func checkEnvAction(c *cli.Context) error {
	report := services.CheckEnvironment(os.LookupEnv)

	fmt.Printf("🔍 Environment check\n")
	for _, v := range report.Vars {
		mark := "✅"
		if !v.Set {
			mark = "❌"
		}
		fmt.Printf("%s %s\n", mark, v.Key)
		if !v.Set {
			fmt.Printf("   example: %s=%s\n", v.Key, v.Example)
		}
	}
	for _, w := range report.Warnings {
		fmt.Printf("⚠️  %s\n", w)
	}

	if !report.OK() {
		return cli.Exit("required environment variables are missing", 1)
	}
	return nil
}

// checkDBAction перевіряє таблицю облікових даних пробним записом
func checkDBAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, privilege, err := config.OpenDatabase(cfg)
	if err != nil {
		return err
	}

	store := services.NewCredentialStore(db, privilege)
	report, err := services.CheckDatabase(c.Context, db, store)
	if err != nil {
		fmt.Printf("❌ Database check failed: %v\n", err)
		return cli.Exit(err.Error(), 1)
	}

	fmt.Printf("✅ Table exists: %t\n", report.TableExists)
	fmt.Printf("✅ Probe write (%s): %t\n", report.ProbeEmail, report.ProbeWrite)
	return nil
}

// versionAction показує інформацію про версію
func versionAction(c *cli.Context) error {
	info := build.Info()

	fmt.Printf("Google Login Server\n")
	fmt.Printf("Version: %s\n", info["version"])
	fmt.Printf("Git Commit: %s\n", info["git_commit"])
	fmt.Printf("Build Time: %s\n", info["build_time"])

	return nil
}

// loadConfig читає конфігурацію з файлу або з оточення
func loadConfig(c *cli.Context) (*config.Config, error) {
	if c.Bool("from-env") {
		return config.LoadFromEnv()
	}

	configPath := c.String("config")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s. Run 'configure' command first", configPath)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// templateVars збирає змінні шаблону: дефолти режиму, потім оточення, потім --var
func templateVars(mode string, overrides []string, lookup func(string) (string, bool)) (map[string]string, error) {
	vars := map[string]string{
		"environment": mode,
		"log_level":   logLevelForMode(mode),
	}

	envVars := map[string]string{
		"host":                  "HOST",
		"port":                  "PORT",
		"base_url":              "BASE_URL",
		"public_hostname":       "PUBLIC_HOSTNAME",
		"database_url":          "DATABASE_URL",
		"database_anon_user":    "DATABASE_ANON_USER",
		"database_service_user": "DATABASE_SERVICE_USER",
		"session_mode":          "SESSION_MODE",
	}
	for name, key := range envVars {
		if value, ok := lookup(key); ok && value != "" {
			vars[name] = value
		}
	}

	for _, o := range overrides {
		name, value, ok := strings.Cut(o, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --var %q, expected name=value", o)
		}
		vars[name] = value
	}

	return vars, nil
}

// logLevelForMode повертає рівень логування для режиму
func logLevelForMode(mode string) string {
	switch mode {
	case "production":
		return "warn"
	case "staging":
		return "info"
	default:
		return "debug"
	}
}

func absPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	workDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(workDir, path), nil
}
