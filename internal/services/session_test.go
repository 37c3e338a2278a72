package services

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"google-login/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testProfile = &models.UserProfile{
	Email:   "ada@example.com",
	Name:    "Ada Lovelace",
	Picture: "https://lh3.googleusercontent.com/a/photo.jpg?sz=96",
}

// requestWithCookies переносить Set-Cookie з відповіді у новий запит, як браузер
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge >= 0 {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	return req
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func TestCookieSessionIssueAttributes(t *testing.T) {
	for _, secure := range []bool{false, true} {
		rec := httptest.NewRecorder()
		require.NoError(t, NewCookieSession(CookieOptions{Secure: secure}).Issue(rec, testProfile))

		cookies := cookiesByName(rec)
		require.Len(t, cookies, 3)
		for _, name := range []string{CookieEmail, CookieName, CookiePicture} {
			c, ok := cookies[name]
			require.True(t, ok, name)
			assert.True(t, c.HttpOnly, name)
			assert.Equal(t, http.SameSiteLaxMode, c.SameSite, name)
			assert.Equal(t, SessionMaxAge, c.MaxAge, name)
			assert.Equal(t, "/", c.Path, name)
			assert.Equal(t, secure, c.Secure, name)
		}
		assert.Equal(t, "ada@example.com", cookies[CookieEmail].Value)
		assert.Equal(t, "Ada%20Lovelace", cookies[CookieName].Value)
	}
}

func TestCookieSessionRoundTrip(t *testing.T) {
	session := NewCookieSession(CookieOptions{})
	rec := httptest.NewRecorder()
	require.NoError(t, session.Issue(rec, testProfile))

	user, ok := session.Read(requestWithCookies(rec))
	require.True(t, ok)
	assert.Equal(t, &models.SessionUser{
		Email:   testProfile.Email,
		Name:    testProfile.Name,
		Picture: testProfile.Picture,
	}, user)
}

func TestCookieSessionReadRequiresEmail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/user", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "Ada"})

	user, ok := NewCookieSession(CookieOptions{}).Read(req)
	assert.False(t, ok)
	assert.Nil(t, user)
}

func TestCookieSessionClear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookieSession(CookieOptions{}).Clear(rec)

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 3)
	for _, name := range []string{CookieEmail, CookieName, CookiePicture} {
		assert.Empty(t, cookies[name].Value, name)
		assert.Less(t, cookies[name].MaxAge, 0, name)
		assert.True(t, cookies[name].HttpOnly, name)
	}
}

func TestSignedSessionRoundTrip(t *testing.T) {
	session := NewSignedSession("0123456789abcdef0123456789abcdef", CookieOptions{Secure: true})
	rec := httptest.NewRecorder()
	require.NoError(t, session.Issue(rec, testProfile))

	cookies := cookiesByName(rec)
	require.Len(t, cookies, 1)
	c := cookies[CookieSession]
	require.NotNil(t, c)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	user, ok := session.Read(requestWithCookies(rec))
	require.True(t, ok)
	assert.Equal(t, testProfile.Email, user.Email)
	assert.Equal(t, testProfile.Name, user.Name)
	assert.Equal(t, testProfile.Picture, user.Picture)
}

func TestSignedSessionRejectsInvalidCookies(t *testing.T) {
	secret := "0123456789abcdef0123456789abcdef"
	rec := httptest.NewRecorder()
	require.NoError(t, NewSignedSession(secret, CookieOptions{}).Issue(rec, testProfile))
	token := cookiesByName(rec)[CookieSession].Value

	tampered := []byte(token)
	if tampered[len(tampered)-2] == 'A' {
		tampered[len(tampered)-2] = 'B'
	} else {
		tampered[len(tampered)-2] = 'A'
	}

	tests := []struct {
		name    string
		session Session
		value   string
	}{
		{"tampered signature", NewSignedSession(secret, CookieOptions{}), string(tampered)},
		{"other secret", NewSignedSession("another-secret-another-secret-xx", CookieOptions{}), token},
		{"garbage", NewSignedSession(secret, CookieOptions{}), "not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/user", nil)
			req.AddCookie(&http.Cookie{Name: CookieSession, Value: tt.value})

			_, ok := tt.session.Read(req)
			assert.False(t, ok)
		})
	}
}

func TestSignedSessionExpires(t *testing.T) {
	secret := []byte("0123456789abcdef0123456789abcdef")
	issuedAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	issuer := &signedSession{secret: secret, opts: CookieOptions{}.withDefaults(), now: func() time.Time { return issuedAt }}
	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Issue(rec, testProfile))

	reader := &signedSession{secret: secret, opts: CookieOptions{}.withDefaults(), now: func() time.Time {
		return issuedAt.Add(8 * 24 * time.Hour)
	}}
	_, ok := reader.Read(requestWithCookies(rec))
	assert.False(t, ok)
}

func TestSignedSessionClear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSignedSession("secret", CookieOptions{}).Clear(rec)

	c := cookiesByName(rec)[CookieSession]
	require.NotNil(t, c)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

func TestEncodeCookieValue(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"ada@example.com", "ada@example.com"},
		{"Ada Lovelace", "Ada%20Lovelace"},
		{"a;b,c", "a%3Bb%2Cc"},
		{`say "hi"`, "say%20%22hi%22"},
		{"100%", "100%25"},
		{"Zoë", "Zo%C3%AB"},
		{"https://lh3.googleusercontent.com/a/x=s96-c", "https://lh3.googleusercontent.com/a/x=s96-c"},
	}

	for _, tt := range tests {
		got := encodeCookieValue(tt.in)
		assert.Equal(t, tt.want, got)

		decoded, err := url.PathUnescape(got)
		require.NoError(t, err)
		assert.Equal(t, tt.in, decoded)
	}
}
