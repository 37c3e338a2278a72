package services

import (
	"context"

	"google-login/internal/models"

	"github.com/sirupsen/logrus"
)

// callbackService реалізація CallbackService
type callbackService struct {
	google GoogleClient
	store  CredentialStore
}

// NewCallbackService створює новий CallbackService
func NewCallbackService(google GoogleClient, store CredentialStore) CallbackService {
	return &callbackService{
		google: google,
		store:  store,
	}
}

// HandleCallback проходить code -> токени -> профіль -> запис у сховище.
// Будь-яка невдача повертається як *CallbackError з причиною для редіректу.
func (s *callbackService) HandleCallback(ctx context.Context, params models.CallbackParams) (*models.UserProfile, error) {
	logrus.WithFields(logrus.Fields{
		"has_code":  params.Code != "",
		"has_error": params.Error != "",
	}).Info("🔐 OAuth callback received")

	if params.Error != "" {
		err := &ProviderError{Code: params.Error, Description: params.ErrorDescription}
		logrus.WithError(err).Error("❌ OAuth error from Google")
		return nil, &CallbackError{Reason: params.Error, Err: err}
	}

	if params.Code == "" {
		err := &MissingCodeError{}
		logrus.WithError(err).Error("❌ No authorization code received")
		return nil, &CallbackError{Reason: ReasonMissingCode, Err: err}
	}

	tokens, err := s.google.ExchangeCodeForTokens(ctx, params.Code)
	if err != nil {
		logrus.WithError(err).Error("❌ Failed to exchange code for tokens")
		return nil, &CallbackError{Reason: ReasonTokenExchangeFailed, Err: err}
	}

	profile, err := s.google.FetchUserProfile(ctx, tokens.AccessToken)
	if err != nil {
		logrus.WithError(err).Error("❌ Failed to fetch user profile")
		return nil, &CallbackError{Reason: ReasonProfileFetchFailed, Err: err}
	}

	accessToken := tokens.AccessToken
	if err := s.store.Upsert(ctx, profile.Email, &accessToken, tokens.RefreshTokenOrNil()); err != nil {
		logrus.WithError(err).WithField("email", profile.Email).Error("❌ Failed to persist credentials")
		return nil, &CallbackError{Reason: ReasonPersistFailed, Err: err}
	}

	logrus.WithField("email", profile.Email).Info("✅ OAuth callback completed")
	return profile, nil
}
