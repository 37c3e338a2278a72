package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Причини невдалого callback, які потрапляють у ?error= на стартовій сторінці
const (
	ReasonMissingCode         = "no_code"
	ReasonTokenExchangeFailed = "token_exchange_failed"
	ReasonProfileFetchFailed  = "profile_fetch_failed"
	ReasonPersistFailed       = "persist_failed"
)

// postgres: relation does not exist
const codeUndefinedTable = "42P01"

// ProviderError - Google повернув параметр error у callback (наприклад access_denied)
type ProviderError struct {
	Code        string
	Description string
}

func (e *ProviderError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("provider returned error %q: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("provider returned error %q", e.Code)
}

// MissingCodeError - callback без code і без error
type MissingCodeError struct{}

func (e *MissingCodeError) Error() string {
	return "authorization code is missing"
}

// TokenExchangeError - token endpoint відповів не-2xx; Body містить відповідь провайдера як є
type TokenExchangeError struct {
	Status int
	Body   string
	Err    error
}

func (e *TokenExchangeError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("token exchange failed: %v", e.Err)
	}
	return fmt.Sprintf("token exchange failed with status %d: %s", e.Status, e.Body)
}

func (e *TokenExchangeError) Unwrap() error { return e.Err }

// ProfileFetchError - userinfo endpoint відповів не-2xx
type ProfileFetchError struct {
	Status int
	Body   string
	Err    error
}

func (e *ProfileFetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("profile fetch failed: %v", e.Err)
	}
	return fmt.Sprintf("profile fetch failed with status %d: %s", e.Status, e.Body)
}

func (e *ProfileFetchError) Unwrap() error { return e.Err }

// StorageError - помилка бекенду при записі/читанні облікових даних
type StorageError struct {
	Op      string
	Code    string
	Message string
	Details string
	Hint    string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("storage %s failed (%s): %s", e.Op, e.Code, e.Message)
	}
	return fmt.Sprintf("storage %s failed: %s", e.Op, e.Message)
}

func (e *StorageError) Unwrap() error { return e.Err }

// IsSchemaMissing повідомляє, що таблиця ще не створена
func (e *StorageError) IsSchemaMissing() bool {
	return e.Code == codeUndefinedTable || strings.Contains(e.Message, "no such table")
}

// ConfigurationError - обов'язкове значення конфігурації відсутнє
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("configuration error: %s %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("configuration error: %s is required", e.Key)
}

// CallbackError - невдача на межі orchestrator; Reason екранує handler при редіректі
type CallbackError struct {
	Reason string
	Err    error
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("oauth callback failed (%s): %v", e.Reason, e.Err)
}

func (e *CallbackError) Unwrap() error { return e.Err }

// newStorageError розпаковує помилку postgres, зберігаючи код бекенду
func newStorageError(op string, err error) *StorageError {
	se := &StorageError{Op: op, Message: err.Error(), Err: err}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		se.Code = pgErr.Code
		se.Message = pgErr.Message
		se.Details = pgErr.Detail
		se.Hint = pgErr.Hint
	}

	return se
}
