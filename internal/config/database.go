package config

import (
	"fmt"
	"time"

	"google-login/internal/services"
	"google-login/migrations"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDatabase підключається до PostgreSQL з сервісною роллю, а без її ключа - з анонімною
func OpenDatabase(cfg *Config) (*gorm.DB, services.Privilege, error) {
	privilege := services.PrivilegeElevated
	if !cfg.HasElevatedCredential() {
		logrus.Warn("⚠️  DATABASE_SERVICE_KEY is not set: connecting with the anonymous role, credential writes will likely be rejected by row-level security")
		privilege = services.PrivilegeRestricted
	}

	db, err := connectToDatabase(cfg, privilege)
	if err != nil {
		return nil, privilege, err
	}

	return db, privilege, nil
}

// connectToDatabase підключається до бази даних через GORM і налаштовує connection pool
func connectToDatabase(cfg *Config, privilege services.Privilege) (*gorm.DB, error) {
	dsn, err := cfg.DatabaseDSN(privilege)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"host":      databaseHost(cfg.Database.URL),
		"privilege": privilege.String(),
	}).Info("🔌 Connecting to PostgreSQL database")

	gormConfig := &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	}

	// В debug режимі включаємо логування SQL запитів
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	connectionMaxLifetime := parseDuration(cfg.Database.ConnectionMaxLifetime, 5*time.Minute, "connection max lifetime")

	if cfg.Database.MaxOpenConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConnections)
	}
	if cfg.Database.MaxIdleConnections > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	}
	sqlDB.SetConnMaxLifetime(connectionMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Infof("📊 Database connection pool configured: MaxOpen=%d, MaxIdle=%d, MaxLifetime=%v",
		cfg.Database.MaxOpenConnections, cfg.Database.MaxIdleConnections, connectionMaxLifetime)

	return db, nil
}

// RunMigrations виконує міграції без запуску сервера; потребує сервісної ролі
func RunMigrations(cfg *Config) error {
	if !cfg.HasElevatedCredential() {
		return &services.ConfigurationError{Key: "DATABASE_SERVICE_KEY", Reason: "is required to run migrations"}
	}

	db, err := connectToDatabase(cfg, services.PrivilegeElevated)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	if err := migrations.Up(db); err != nil {
		return err
	}

	logrus.Info("✅ Database migrations completed successfully")
	return nil
}

// parseDuration розбирає тривалість або повертає fallback з попередженням
func parseDuration(value string, fallback time.Duration, name string) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		logrus.Warnf("Invalid %s, using default %v: %v", name, fallback, err)
		return fallback
	}
	return d
}
