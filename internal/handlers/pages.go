package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"google-login/internal/middleware"

	"github.com/gin-gonic/gin"
)

// PageHandler рендерить стартову сторінку і сторінку після входу
type PageHandler struct{}

// NewPageHandler створює новий PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Templates повертає шаблони сторінок для gin.Engine.SetHTMLTemplate
func Templates() *template.Template {
	t := template.Must(template.New("index.html").Parse(indexTemplate))
	template.Must(t.New("dashboard.html").Parse(dashboardTemplate))
	return t
}

// Index стартова сторінка з кнопкою входу і банером помилки
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"Error": humanizeError(c.Query("error")),
	})
}

// Dashboard сторінка для автентифікованого користувача
func (h *PageHandler) Dashboard(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, EntryPath)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"User": user,
	})
}

// humanizeError: token_exchange_failed -> token exchange failed
func humanizeError(reason string) string {
	return strings.ReplaceAll(reason, "_", " ")
}

const indexTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Sign in</title></head>
<body>
  <h1>Welcome</h1>
  {{if .Error}}<p class="error">{{.Error}}</p>{{end}}
  <a href="/auth/google">Sign in with Google</a>
</body>
</html>`

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Dashboard</title></head>
<body>
  {{if .User.Picture}}<img src="{{.User.Picture}}" alt="{{.User.Name}}" width="64" height="64">{{end}}
  <h1>Welcome, {{.User.Name}}!</h1>
  <p>{{.User.Email}}</p>
  <form method="post" action="/logout"><button type="submit">Sign out</button></form>
</body>
</html>`
