package services

import (
	"context"
	"net/http"

	"google-login/internal/models"
)

// GoogleClient інтерфейс для роботи з OAuth та userinfo endpoints Google
type GoogleClient interface {
	AuthorizationURL() (string, error)
	ExchangeCodeForTokens(ctx context.Context, code string) (*models.TokenResponse, error)
	FetchUserProfile(ctx context.Context, accessToken string) (*models.UserProfile, error)
}

// CredentialStore інтерфейс для збереження OAuth токенів за email
type CredentialStore interface {
	Upsert(ctx context.Context, email string, accessToken, refreshToken *string) error
	FindByEmail(ctx context.Context, email string) (*models.CredentialRecord, bool, error)
}

// CallbackService інтерфейс для обробки редіректу від Google
type CallbackService interface {
	HandleCallback(ctx context.Context, params models.CallbackParams) (*models.UserProfile, error)
}

// Session видає, читає і очищає сесію браузера
type Session interface {
	Issue(w http.ResponseWriter, profile *models.UserProfile) error
	Read(r *http.Request) (*models.SessionUser, bool)
	Clear(w http.ResponseWriter)
}
