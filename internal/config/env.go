package config

import (
	"strconv"
	"strings"
)

// LoadFromEnv будує конфігурацію зі змінних середовища (Kubernetes, Docker)
func LoadFromEnv() (*Config, error) {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil {
		port = 8080
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:              getEnv("HOST", "0.0.0.0"),
			Port:              port,
			Environment:       getEnv("MODE", "production"),
			LogLevel:          getEnv("LOG_LEVEL", "info"),
			LogFormat:         getEnv("LOG_FORMAT", "text"),
			ReadTimeout:       getEnv("READ_TIMEOUT", "30s"),
			WriteTimeout:      getEnv("WRITE_TIMEOUT", "30s"),
			IdleTimeout:       getEnv("IDLE_TIMEOUT", "120s"),
			BaseURL:           getEnv("BASE_URL", ""),
			PublicHostname:    getEnv("PUBLIC_HOSTNAME", ""),
			ProductionBaseURL: getEnv("PRODUCTION_BASE_URL", ""),
		},

		Database: DatabaseConfig{
			URL:                   getEnv("DATABASE_URL", ""),
			AnonUser:              getEnv("DATABASE_ANON_USER", "anon"),
			AnonKey:               getEnv("DATABASE_ANON_KEY", ""),
			ServiceUser:           getEnv("DATABASE_SERVICE_USER", "service_role"),
			ServiceKey:            getEnv("DATABASE_SERVICE_KEY", ""),
			MaxOpenConnections:    10,
			MaxIdleConnections:    5,
			ConnectionMaxLifetime: getEnv("DB_CONN_MAX_LIFETIME", "5m"),
			AutoMigrate:           getEnv("DB_AUTO_MIGRATE", "false") == "true",
		},

		Google: GoogleConfig{
			ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
			ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
			Scopes:       splitList(getEnv("GOOGLE_SCOPES", "")),
		},

		Session: SessionConfig{
			Mode:   getEnv("SESSION_MODE", SessionModePlain),
			Secret: getEnv("SESSION_SECRET", ""),
		},
	}

	if origins := splitList(getEnv("CORS_ALLOWED_ORIGINS", "")); len(origins) > 0 {
		cfg.CORS = &CORSConfig{
			AllowedOrigins:   origins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", "Accept", "Origin"},
			AllowCredentials: true,
			MaxAge:           3600,
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value, ok := lookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
