package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"google-login/internal/build"
	"google-login/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// DefaultUserInfoURL userinfo endpoint Google (v2 повертає verified_email)
	DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	// CallbackPath фіксований шлях callback, додається до base URL
	CallbackPath = "/auth/callback/google"
)

// DefaultScopes scopes, які запитуються за замовчуванням
var DefaultScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/gmail.modify",
}

// GoogleOptions налаштування GoogleClient
type GoogleOptions struct {
	ClientID     string
	ClientSecret string
	// RedirectURL має побайтово збігатися в auth URL і при обміні коду
	RedirectURL string
	Scopes      []string

	// Перевизначення endpoints (для тестів); порожні значення - production Google
	AuthURL     string
	TokenURL    string
	UserInfoURL string

	HTTPClient *http.Client
}

// googleClient реалізація GoogleClient
type googleClient struct {
	oauth       oauth2.Config
	userInfoURL string
	httpClient  *http.Client
}

// NewGoogleClient створює новий GoogleClient
func NewGoogleClient(opts GoogleOptions) GoogleClient {
	endpoint := google.Endpoint
	if opts.AuthURL != "" {
		endpoint.AuthURL = opts.AuthURL
	}
	if opts.TokenURL != "" {
		endpoint.TokenURL = opts.TokenURL
	}
	// client_id і client_secret йдуть у тілі форми
	endpoint.AuthStyle = oauth2.AuthStyleInParams

	scopes := opts.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes
	}

	userInfoURL := opts.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &googleClient{
		oauth: oauth2.Config{
			ClientID:     opts.ClientID,
			ClientSecret: opts.ClientSecret,
			RedirectURL:  opts.RedirectURL,
			Scopes:       scopes,
			Endpoint:     endpoint,
		},
		userInfoURL: userInfoURL,
		httpClient:  httpClient,
	}
}

// AuthorizationURL будує URL сторінки згоди Google
func (g *googleClient) AuthorizationURL() (string, error) {
	if g.oauth.ClientID == "" {
		return "", &ConfigurationError{Key: "GOOGLE_CLIENT_ID"}
	}
	if g.oauth.RedirectURL == "" {
		return "", &ConfigurationError{Key: "BASE_URL", Reason: "could not be resolved"}
	}

	// state не передається: перевірки CSRF у цьому flow немає
	return g.oauth.AuthCodeURL("",
		oauth2.AccessTypeOffline,
		oauth2.ApprovalForce,
	), nil
}

// ExchangeCodeForTokens обмінює authorization code на токени
func (g *googleClient) ExchangeCodeForTokens(ctx context.Context, code string) (*models.TokenResponse, error) {
	logrus.WithFields(logrus.Fields{
		"code":         redact(code),
		"redirect_uri": g.oauth.RedirectURL,
		"token_url":    g.oauth.Endpoint.TokenURL,
	}).Info("Exchanging authorization code for tokens")

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			status := 0
			if re.Response != nil {
				status = re.Response.StatusCode
			}
			logrus.WithFields(logrus.Fields{
				"status_code": status,
				"response":    string(re.Body),
			}).Error("Google token endpoint returned error")
			return nil, &TokenExchangeError{Status: status, Body: string(re.Body), Err: err}
		}
		return nil, &TokenExchangeError{Err: err}
	}

	resp := &models.TokenResponse{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    tok.ExpiresIn,
		ExpiresAt:    tok.Expiry,
	}
	if idToken, ok := tok.Extra("id_token").(string); ok {
		resp.IDToken = idToken
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		resp.Scope = scope
	}

	logrus.WithFields(logrus.Fields{
		"token_type":        resp.TokenType,
		"expires_in":        resp.ExpiresIn,
		"scope":             resp.Scope,
		"has_refresh_token": resp.RefreshToken != "",
	}).Info("Successfully received tokens from Google")

	return resp, nil
}

// FetchUserProfile отримує профіль користувача з userinfo endpoint
func (g *googleClient) FetchUserProfile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	u, err := url.Parse(g.userInfoURL)
	if err != nil {
		return nil, &ProfileFetchError{Err: fmt.Errorf("invalid userinfo url: %w", err)}
	}
	q := u.Query()
	q.Set("access_token", accessToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ProfileFetchError{Err: fmt.Errorf("failed to create userinfo request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, &ProfileFetchError{Err: fmt.Errorf("failed to get user info: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ProfileFetchError{Status: resp.StatusCode, Err: fmt.Errorf("failed to read userinfo response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logrus.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(body),
		}).Error("Google userinfo endpoint returned error")
		return nil, &ProfileFetchError{Status: resp.StatusCode, Body: string(body)}
	}

	var profile models.UserProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &ProfileFetchError{Status: resp.StatusCode, Err: fmt.Errorf("failed to parse userinfo response: %w", err)}
	}
	if profile.Email == "" {
		return nil, &ProfileFetchError{Status: resp.StatusCode, Err: errors.New("userinfo response has no email")}
	}

	logrus.WithFields(logrus.Fields{
		"email":          profile.Email,
		"name":           profile.Name,
		"verified_email": profile.VerifiedEmail,
	}).Info("Successfully retrieved user info from Google")

	return &profile, nil
}

// redact залишає лише початок секрету для логів
func redact(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:8] + "..."
}
