package middleware

import (
	"net/http"

	"google-login/internal/models"
	"google-login/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequireSession пропускає лише запити з сесією, інших веде на redirectTo
func RequireSession(session services.Session, redirectTo string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := session.Read(c.Request)
		if !ok {
			logrus.WithField("path", c.Request.URL.Path).Debug("No session, redirecting to entry page")
			c.Redirect(http.StatusFound, redirectTo)
			c.Abort()
			return
		}

		// Зберігаємо користувача в контексті для подальшого використання
		c.Set("user", user)

		c.Next()
	}
}

// GetCurrentUser витягує поточного користувача з контексту
func GetCurrentUser(c *gin.Context) (*models.SessionUser, bool) {
	user, exists := c.Get("user")
	if !exists {
		return nil, false
	}

	userObj, ok := user.(*models.SessionUser)
	return userObj, ok
}
