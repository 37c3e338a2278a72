package handlers

import (
	"net/http"

	"google-login/internal/build"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HealthHandler містить handlers для health check
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler створює новий HealthHandler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health повертає статус сервісу і бази даних
// @Summary Health Check
// @Description Повертає статус здоров'я сервісу
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	dbStatus := "healthy"
	sqlDB, err := h.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		dbStatus = "unhealthy"
		logrus.Warn("Health check: database is unreachable")
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "google-login",
		"version":  build.Version,
		"database": dbStatus,
	})
}
