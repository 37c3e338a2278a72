package config

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	_ "google-login/docs"
	"google-login/internal/handlers"
	"google-login/internal/middleware"
	"google-login/internal/services"
	"google-login/migrations"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// StartServer запускає HTTP сервер з конфігурацією
func StartServer(cfg *Config) error {
	setupLogging(cfg)

	db, privilege, err := OpenDatabase(cfg)
	if err != nil {
		return err
	}

	if cfg.Database.AutoMigrate {
		if privilege != services.PrivilegeElevated {
			logrus.Warn("⚠️  auto_migrate requires the service role, skipping migrations")
		} else if err := migrations.Up(db); err != nil {
			return err
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r := NewRouter(cfg, db, privilege)

	srv := &http.Server{
		Addr:         cfg.GetAddress(),
		Handler:      r,
		ReadTimeout:  parseDuration(cfg.Server.ReadTimeout, 30*time.Second, "read timeout"),
		WriteTimeout: parseDuration(cfg.Server.WriteTimeout, 30*time.Second, "write timeout"),
		IdleTimeout:  parseDuration(cfg.Server.IdleTimeout, 120*time.Second, "idle timeout"),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logrus.WithFields(logrus.Fields{
			"address":      cfg.GetAddress(),
			"environment":  cfg.Server.Environment,
			"base_url":     cfg.BaseURL(),
			"session_mode": sessionMode(cfg),
		}).Info("🚀 Starting Google Login Server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	logrus.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
		return err
	}

	logrus.Info("✅ Server exited gracefully")
	return nil
}

// NewRouter збирає сервіси і маршрути поверх відкритої бази даних
func NewRouter(cfg *Config, db *gorm.DB, privilege services.Privilege) *gin.Engine {
	r := gin.New()

	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	if cfg.CORS != nil {
		r.Use(corsMiddleware(cfg.CORS))
	}

	r.SetHTMLTemplate(handlers.Templates())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	setupRoutes(r, cfg, db, privilege)
	return r
}

// setupRoutes налаштовує маршрути
func setupRoutes(r *gin.Engine, cfg *Config, db *gorm.DB, privilege services.Privilege) {
	googleClient := services.NewGoogleClient(services.GoogleOptions{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		RedirectURL:  cfg.RedirectURL(),
		Scopes:       cfg.Google.Scopes,
		AuthURL:      cfg.Google.AuthURL,
		TokenURL:     cfg.Google.TokenURL,
		UserInfoURL:  cfg.Google.UserInfoURL,
	})
	store := services.NewCredentialStore(db, privilege)
	callbackService := services.NewCallbackService(googleClient, store)
	session := newSession(cfg)

	authHandler := handlers.NewAuthHandler(googleClient, callbackService, session, cfg.BaseURL())
	pageHandler := handlers.NewPageHandler()
	healthHandler := handlers.NewHealthHandler(db)

	r.GET("/health", healthHandler.Health)

	r.GET(handlers.EntryPath, pageHandler.Index)
	r.GET(handlers.LandingPath, middleware.RequireSession(session, handlers.EntryPath), pageHandler.Dashboard)

	auth := r.Group("/auth")
	{
		auth.GET("/google", authHandler.GoogleLogin)
		auth.GET(strings.TrimPrefix(services.CallbackPath, "/auth"), authHandler.GoogleCallback)
	}

	r.GET("/user", authHandler.CurrentUser)
	r.POST("/logout", authHandler.Logout)
}

// newSession обирає реалізацію сесії за режимом
func newSession(cfg *Config) services.Session {
	opts := services.CookieOptions{
		Secure: cfg.IsProduction(),
		MaxAge: cfg.Session.MaxAge,
	}
	if sessionMode(cfg) == SessionModeSigned {
		return services.NewSignedSession(cfg.Session.Secret, opts)
	}
	return services.NewCookieSession(opts)
}

func sessionMode(cfg *Config) string {
	if cfg.Session.Mode == "" {
		return SessionModePlain
	}
	return cfg.Session.Mode
}

// setupLogging налаштовує логування
func setupLogging(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using info", cfg.Server.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if cfg.Server.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}
}

// corsMiddleware налаштовує CORS middleware
func corsMiddleware(cors *CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if isAllowedOrigin(origin, cors.AllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		}

		c.Header("Access-Control-Allow-Methods", strings.Join(cors.AllowedMethods, ", "))
		c.Header("Access-Control-Allow-Headers", strings.Join(cors.AllowedHeaders, ", "))

		if cors.AllowCredentials {
			c.Header("Access-Control-Allow-Credentials", "true")
		}

		if cors.MaxAge > 0 {
			c.Header("Access-Control-Max-Age", strconv.Itoa(cors.MaxAge))
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func isAllowedOrigin(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

// databaseHost повертає хост з DATABASE_URL для логів, без облікових даних
func databaseHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return u.Host
}
