package services

import (
	"context"
	"errors"
	"testing"

	"google-login/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGoogle struct {
	tokens     *models.TokenResponse
	tokensErr  error
	profile    *models.UserProfile
	profileErr error

	exchangedCodes []string
	fetchedTokens  []string
}

func (s *stubGoogle) AuthorizationURL() (string, error) {
	return "https://accounts.google.com/o/oauth2/auth", nil
}

func (s *stubGoogle) ExchangeCodeForTokens(ctx context.Context, code string) (*models.TokenResponse, error) {
	s.exchangedCodes = append(s.exchangedCodes, code)
	return s.tokens, s.tokensErr
}

func (s *stubGoogle) FetchUserProfile(ctx context.Context, accessToken string) (*models.UserProfile, error) {
	s.fetchedTokens = append(s.fetchedTokens, accessToken)
	return s.profile, s.profileErr
}

type upsertCall struct {
	email        string
	accessToken  *string
	refreshToken *string
}

type stubStore struct {
	err     error
	upserts []upsertCall
}

func (s *stubStore) Upsert(ctx context.Context, email string, accessToken, refreshToken *string) error {
	s.upserts = append(s.upserts, upsertCall{email, accessToken, refreshToken})
	return s.err
}

func (s *stubStore) FindByEmail(ctx context.Context, email string) (*models.CredentialRecord, bool, error) {
	return nil, false, nil
}

func newStubs() (*stubGoogle, *stubStore) {
	return &stubGoogle{
		tokens: &models.TokenResponse{AccessToken: "ya29.access", RefreshToken: "1//refresh"},
		profile: &models.UserProfile{
			Email:   "ada@example.com",
			Name:    "Ada Lovelace",
			Picture: "https://lh3.googleusercontent.com/a/photo.jpg",
		},
	}, &stubStore{}
}

func callbackReason(t *testing.T, err error) string {
	t.Helper()
	var ce *CallbackError
	require.True(t, errors.As(err, &ce), "expected CallbackError, got %v", err)
	return ce.Reason
}

func TestHandleCallbackSuccess(t *testing.T) {
	google, store := newStubs()
	svc := NewCallbackService(google, store)

	profile, err := svc.HandleCallback(context.Background(), models.CallbackParams{Code: "4/code"})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, []string{"4/code"}, google.exchangedCodes)
	assert.Equal(t, []string{"ya29.access"}, google.fetchedTokens)

	require.Len(t, store.upserts, 1)
	call := store.upserts[0]
	assert.Equal(t, "ada@example.com", call.email)
	assert.Equal(t, "ya29.access", *call.accessToken)
	require.NotNil(t, call.refreshToken)
	assert.Equal(t, "1//refresh", *call.refreshToken)
}

func TestHandleCallbackWithoutRefreshTokenStoresNull(t *testing.T) {
	google, store := newStubs()
	google.tokens.RefreshToken = ""

	_, err := NewCallbackService(google, store).HandleCallback(context.Background(), models.CallbackParams{Code: "4/code"})
	require.NoError(t, err)

	require.Len(t, store.upserts, 1)
	assert.Nil(t, store.upserts[0].refreshToken)
}

func TestHandleCallbackProviderError(t *testing.T) {
	google, store := newStubs()
	svc := NewCallbackService(google, store)

	// error має пріоритет навіть коли code теж присутній
	_, err := svc.HandleCallback(context.Background(), models.CallbackParams{
		Code:             "4/code",
		Error:            "access_denied",
		ErrorDescription: "The user denied access",
	})

	assert.Equal(t, "access_denied", callbackReason(t, err))
	var pe *ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "The user denied access", pe.Description)
	assert.Empty(t, google.exchangedCodes)
	assert.Empty(t, store.upserts)
}

func TestHandleCallbackMissingCode(t *testing.T) {
	google, store := newStubs()

	_, err := NewCallbackService(google, store).HandleCallback(context.Background(), models.CallbackParams{})

	assert.Equal(t, ReasonMissingCode, callbackReason(t, err))
	var mc *MissingCodeError
	assert.True(t, errors.As(err, &mc))
	assert.Empty(t, google.exchangedCodes)
}

func TestHandleCallbackTokenExchangeFailure(t *testing.T) {
	google, store := newStubs()
	google.tokensErr = &TokenExchangeError{Status: 400, Body: `{"error":"invalid_grant"}`}

	_, err := NewCallbackService(google, store).HandleCallback(context.Background(), models.CallbackParams{Code: "used"})

	assert.Equal(t, ReasonTokenExchangeFailed, callbackReason(t, err))
	var te *TokenExchangeError
	assert.True(t, errors.As(err, &te))
	assert.Empty(t, google.fetchedTokens)
	assert.Empty(t, store.upserts)
}

func TestHandleCallbackProfileFetchFailure(t *testing.T) {
	google, store := newStubs()
	google.profileErr = &ProfileFetchError{Status: 401}

	_, err := NewCallbackService(google, store).HandleCallback(context.Background(), models.CallbackParams{Code: "4/code"})

	assert.Equal(t, ReasonProfileFetchFailed, callbackReason(t, err))
	assert.Empty(t, store.upserts)
}

func TestHandleCallbackPersistFailure(t *testing.T) {
	google, store := newStubs()
	store.err = &StorageError{Op: "upsert", Code: "42P01", Message: "relation does not exist"}

	profile, err := NewCallbackService(google, store).HandleCallback(context.Background(), models.CallbackParams{Code: "4/code"})

	assert.Nil(t, profile)
	assert.Equal(t, ReasonPersistFailed, callbackReason(t, err))
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.IsSchemaMissing())
}

func TestHandleCallbackWithStore(t *testing.T) {
	google, _ := newStubs()
	store := NewCredentialStore(newTestDB(t, true), PrivilegeElevated)
	svc := NewCallbackService(google, store)
	ctx := context.Background()

	_, err := svc.HandleCallback(ctx, models.CallbackParams{Code: "first"})
	require.NoError(t, err)

	google.tokens = &models.TokenResponse{AccessToken: "ya29.second"}
	_, err = svc.HandleCallback(ctx, models.CallbackParams{Code: "second"})
	require.NoError(t, err)

	record, found, err := store.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ya29.second", *record.AccessToken)
	assert.Nil(t, record.RefreshToken)
}
