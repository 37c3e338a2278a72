package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"google-login/internal/models"
	"google-login/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Шляхи, куди ведуть редіректи після callback
const (
	EntryPath   = "/"
	LandingPath = "/dashboard"
)

// AuthHandler містить handlers для входу через Google
type AuthHandler struct {
	google   services.GoogleClient
	callback services.CallbackService
	session  services.Session
	baseURL  string
}

// NewAuthHandler створює новий AuthHandler
func NewAuthHandler(google services.GoogleClient, callback services.CallbackService, session services.Session, baseURL string) *AuthHandler {
	return &AuthHandler{
		google:   google,
		callback: callback,
		session:  session,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

// GoogleLogin перенаправляє на сторінку згоди Google
// @Summary Google Login
// @Description Перенаправляє браузер на сторінку згоди Google
// @Tags auth
// @Success 302
// @Failure 500 {object} map[string]interface{}
// @Router /auth/google [get]
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	authURL, err := h.google.AuthorizationURL()
	if err != nil {
		logrus.WithError(err).Error("Failed to build Google authorization URL")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":             "server_error",
			"error_description": "Google login is not configured",
		})
		return
	}

	logrus.Info("🔐 Redirecting to Google consent screen")
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback обробляє редірект від Google
// @Summary Google OAuth Callback
// @Description Обмінює code на токени, зберігає облікові дані і видає cookies сесії
// @Tags auth
// @Param code query string false "Authorization Code"
// @Param error query string false "Provider error"
// @Success 302
// @Router /auth/callback/google [get]
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var params models.CallbackParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logrus.WithError(err).Warn("Invalid callback query")
	}

	profile, err := h.callback.HandleCallback(c.Request.Context(), params)
	if err != nil {
		h.redirectWithError(c, failureReason(err))
		return
	}

	if err := h.session.Issue(c.Writer, profile); err != nil {
		logrus.WithError(err).WithField("email", profile.Email).Error("Failed to issue session")
		h.redirectWithError(c, "session_failed")
		return
	}

	logrus.WithField("email", profile.Email).Info("✅ Session issued, redirecting to landing page")
	c.Redirect(http.StatusFound, h.baseURL+LandingPath)
}

// CurrentUser повертає користувача з cookies сесії
// @Summary Current User
// @Description Повертає email, ім'я і аватар з сесії
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.UserResponse
// @Router /user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := h.session.Read(c.Request)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.UserResponse{User: nil})
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{User: user})
}

// Logout видаляє cookies сесії
// @Summary Logout
// @Description Видаляє cookies сесії; серверного стану немає
// @Tags auth
// @Produce json
// @Success 200 {object} models.LogoutResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.session.Clear(c.Writer)

	logrus.Info("🚪 User logged out")
	c.JSON(http.StatusOK, models.LogoutResponse{Success: true})
}

// redirectWithError веде на стартову сторінку з ?error=<reason>
func (h *AuthHandler) redirectWithError(c *gin.Context, reason string) {
	target := h.baseURL + EntryPath + "?" + url.Values{"error": {reason}}.Encode()
	logrus.WithField("reason", reason).Warn("Redirecting to entry page with error")
	c.Redirect(http.StatusFound, target)
}

// failureReason дістає причину з CallbackError
func failureReason(err error) string {
	var ce *services.CallbackError
	if errors.As(err, &ce) && ce.Reason != "" {
		return ce.Reason
	}
	return "authentication_failed"
}
