package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"google-login/internal/services"

	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config представляє повну конфігурацію додатку
type Config struct {
	Server   ServerConfig   `hcl:"server,block"`
	Database DatabaseConfig `hcl:"database,block"`
	Google   GoogleConfig   `hcl:"google,block"`
	Session  SessionConfig  `hcl:"session,block"`
	CORS     *CORSConfig    `hcl:"cors,block"`
}

// ServerConfig містить налаштування HTTP сервера
type ServerConfig struct {
	Host         string `hcl:"host"`
	Port         int    `hcl:"port"`
	Environment  string `hcl:"environment"`
	LogLevel     string `hcl:"log_level,optional"`
	LogFormat    string `hcl:"log_format,optional"`
	ReadTimeout  string `hcl:"read_timeout,optional"`
	WriteTimeout string `hcl:"write_timeout,optional"`
	IdleTimeout  string `hcl:"idle_timeout,optional"`

	// Base URL: явне значення, або https://<public_hostname>, або fallback для середовища
	BaseURL           string `hcl:"base_url,optional"`
	PublicHostname    string `hcl:"public_hostname,optional"`
	ProductionBaseURL string `hcl:"production_base_url,optional"`
}

// DatabaseConfig містить налаштування бази даних
type DatabaseConfig struct {
	URL string `hcl:"url"`

	// Анонімна роль, на яку діють row-level політики
	AnonUser string `hcl:"anon_user,optional"`
	AnonKey  string `hcl:"anon_key,optional"`

	// Сервісна роль, тільки для сервера
	ServiceUser string `hcl:"service_user,optional"`
	ServiceKey  string `hcl:"service_key,optional"`

	MaxOpenConnections    int    `hcl:"max_open_connections,optional"`
	MaxIdleConnections    int    `hcl:"max_idle_connections,optional"`
	ConnectionMaxLifetime string `hcl:"connection_max_lifetime,optional"`
	AutoMigrate           bool   `hcl:"auto_migrate,optional"`
}

// GoogleConfig містить налаштування OAuth клієнта Google
type GoogleConfig struct {
	ClientID     string   `hcl:"client_id"`
	ClientSecret string   `hcl:"client_secret"`
	Scopes       []string `hcl:"scopes,optional"`

	// Перевизначення endpoints, порожні - production Google
	AuthURL     string `hcl:"auth_url,optional"`
	TokenURL    string `hcl:"token_url,optional"`
	UserInfoURL string `hcl:"userinfo_url,optional"`
}

// SessionConfig містить налаштування сесій
type SessionConfig struct {
	// plain - три cookies без підпису, signed - один JWT cookie
	Mode   string `hcl:"mode,optional"`
	Secret string `hcl:"secret,optional"`
	MaxAge int    `hcl:"max_age,optional"`
}

// CORSConfig містить налаштування CORS
type CORSConfig struct {
	AllowedOrigins   []string `hcl:"allowed_origins"`
	AllowedMethods   []string `hcl:"allowed_methods,optional"`
	AllowedHeaders   []string `hcl:"allowed_headers,optional"`
	AllowCredentials bool     `hcl:"allow_credentials,optional"`
	MaxAge           int      `hcl:"max_age,optional"`
}

// Режими сесії
const (
	SessionModePlain  = "plain"
	SessionModeSigned = "signed"
)

// LoadConfig завантажує конфігурацію з HCL файлу; у файлі доступна функція env()
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var config Config
	if err := hclsimple.DecodeFile(configPath, evalContext(), &config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate перевіряє валідність конфігурації
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &services.ConfigurationError{Key: "PORT", Reason: fmt.Sprintf("is invalid: %d", c.Server.Port)}
	}

	if c.Google.ClientID == "" {
		return &services.ConfigurationError{Key: "GOOGLE_CLIENT_ID"}
	}
	if c.Google.ClientSecret == "" {
		return &services.ConfigurationError{Key: "GOOGLE_CLIENT_SECRET"}
	}

	if c.Database.URL == "" {
		return &services.ConfigurationError{Key: "DATABASE_URL"}
	}
	if _, err := url.Parse(c.Database.URL); err != nil {
		return &services.ConfigurationError{Key: "DATABASE_URL", Reason: "is not a valid URL"}
	}

	switch c.Session.Mode {
	case "", SessionModePlain:
	case SessionModeSigned:
		if c.Session.Secret == "" {
			return &services.ConfigurationError{Key: "SESSION_SECRET", Reason: "is required for signed sessions"}
		}
	default:
		return &services.ConfigurationError{Key: "SESSION_MODE", Reason: fmt.Sprintf("has unknown value %q", c.Session.Mode)}
	}

	return nil
}

// GetAddress повертає адресу для прослуховування сервера
func (c *Config) GetAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// IsDevelopment перевіряє чи додаток працює в режимі розробки
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

// IsProduction перевіряє чи додаток працює в продакшн режимі
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// BaseURL повертає публічну адресу додатку без кінцевого слешу
func (c *Config) BaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	if c.Server.PublicHostname != "" {
		return "https://" + strings.TrimRight(c.Server.PublicHostname, "/")
	}
	if c.IsProduction() && c.Server.ProductionBaseURL != "" {
		return strings.TrimRight(c.Server.ProductionBaseURL, "/")
	}
	return fmt.Sprintf("http://localhost:%d", c.Server.Port)
}

// RedirectURL повертає redirect_uri, однаковий для auth URL і обміну коду
func (c *Config) RedirectURL() string {
	return c.BaseURL() + services.CallbackPath
}

// HasElevatedCredential перевіряє чи задано ключ сервісної ролі
func (c *Config) HasElevatedCredential() bool {
	return c.Database.ServiceKey != ""
}

// DatabaseDSN повертає DSN з обліковими даними ролі для вказаного рівня прав
func (c *Config) DatabaseDSN(privilege services.Privilege) (string, error) {
	u, err := url.Parse(c.Database.URL)
	if err != nil {
		return "", &services.ConfigurationError{Key: "DATABASE_URL", Reason: "is not a valid URL"}
	}

	user, key := c.Database.AnonUser, c.Database.AnonKey
	if privilege == services.PrivilegeElevated {
		user, key = c.Database.ServiceUser, c.Database.ServiceKey
	}

	if user == "" && u.User != nil {
		user = u.User.Username()
	}
	if user != "" {
		if key != "" {
			u.User = url.UserPassword(user, key)
		} else {
			u.User = url.User(user)
		}
	}

	return u.String(), nil
}
