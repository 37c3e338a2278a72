package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google-login/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

// Імена cookies сесії
const (
	CookieEmail   = "user_email"
	CookieName    = "user_name"
	CookiePicture = "user_picture"
	CookieSession = "user_session"
)

// SessionMaxAge - 7 днів у секундах
const SessionMaxAge = 7 * 24 * 60 * 60

// CookieOptions атрибути cookies сесії
type CookieOptions struct {
	Secure bool
	Path   string
	MaxAge int
}

func (o CookieOptions) withDefaults() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.MaxAge == 0 {
		o.MaxAge = SessionMaxAge
	}
	return o
}

// cookie будує cookie з фіксованими атрибутами: HttpOnly, SameSite=Lax
func (o CookieOptions) cookie(name, value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     o.Path,
		MaxAge:   maxAge,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge < 0 {
		c.Expires = time.Unix(0, 0)
	}
	return c
}

// cookieSession зберігає email, ім'я і аватар у трьох окремих непідписаних cookies
type cookieSession struct {
	opts CookieOptions
}

// NewCookieSession створює сесію з трьох plaintext cookies
func NewCookieSession(opts CookieOptions) Session {
	return &cookieSession{opts: opts.withDefaults()}
}

// Issue встановлює три cookies сесії
func (s *cookieSession) Issue(w http.ResponseWriter, profile *models.UserProfile) error {
	http.SetCookie(w, s.opts.cookie(CookieEmail, encodeCookieValue(profile.Email), s.opts.MaxAge))
	http.SetCookie(w, s.opts.cookie(CookieName, encodeCookieValue(profile.Name), s.opts.MaxAge))
	http.SetCookie(w, s.opts.cookie(CookiePicture, encodeCookieValue(profile.Picture), s.opts.MaxAge))
	return nil
}

// Read читає сесію; без email cookie користувач не автентифікований
func (s *cookieSession) Read(r *http.Request) (*models.SessionUser, bool) {
	email := readCookie(r, CookieEmail)
	if email == "" {
		return nil, false
	}

	return &models.SessionUser{
		Email:   email,
		Name:    readCookie(r, CookieName),
		Picture: readCookie(r, CookiePicture),
	}, true
}

// Clear видаляє всі три cookies
func (s *cookieSession) Clear(w http.ResponseWriter) {
	for _, name := range []string{CookieEmail, CookieName, CookiePicture} {
		http.SetCookie(w, s.opts.cookie(name, "", -1))
	}
}

// sessionClaims claims підписаної сесії
type sessionClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// signedSession зберігає ті самі поля в одному HS256 JWT cookie
type signedSession struct {
	secret []byte
	opts   CookieOptions
	now    func() time.Time
}

// NewSignedSession створює сесію з одним підписаним cookie
func NewSignedSession(secret string, opts CookieOptions) Session {
	return &signedSession{
		secret: []byte(secret),
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// Issue підписує профіль і встановлює cookie
func (s *signedSession) Issue(w http.ResponseWriter, profile *models.UserProfile) error {
	now := s.now()
	claims := sessionClaims{
		Email:   profile.Email,
		Name:    profile.Name,
		Picture: profile.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profile.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.opts.MaxAge) * time.Second)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return fmt.Errorf("failed to sign session: %w", err)
	}

	http.SetCookie(w, s.opts.cookie(CookieSession, token, s.opts.MaxAge))
	return nil
}

// Read перевіряє підпис і термін дії cookie
func (s *signedSession) Read(r *http.Request) (*models.SessionUser, bool) {
	c, err := r.Cookie(CookieSession)
	if err != nil || c.Value == "" {
		return nil, false
	}

	claims := &sessionClaims{}
	_, err = jwt.ParseWithClaims(c.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		logrus.WithError(err).Debug("Rejected session cookie")
		return nil, false
	}
	if claims.Email == "" {
		return nil, false
	}

	return &models.SessionUser{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, true
}

// Clear видаляє cookie сесії
func (s *signedSession) Clear(w http.ResponseWriter) {
	http.SetCookie(w, s.opts.cookie(CookieSession, "", -1))
}

// readCookie повертає декодоване значення cookie або ""
func readCookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	value, err := url.PathUnescape(c.Value)
	if err != nil {
		return c.Value
	}
	return value
}

// encodeCookieValue кодує лише байти, недопустимі в значенні cookie
func encodeCookieValue(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c <= 0x20 || c >= 0x7f || c == '"' || c == ';' || c == '\\' || c == ',' || c == '%' {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
