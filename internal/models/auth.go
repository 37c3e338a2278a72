package models

import "time"

// TokenResponse представляє відповідь token endpoint Google на обмін коду
type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	IDToken      string    `json:"id_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	Scope        string    `json:"scope,omitempty"`
}

// RefreshTokenOrNil повертає refresh token або nil, якщо провайдер його не видав
func (t *TokenResponse) RefreshTokenOrNil() *string {
	if t.RefreshToken == "" {
		return nil
	}
	rt := t.RefreshToken
	return &rt
}

// CallbackParams представляє query параметри редіректу від Google
type CallbackParams struct {
	Code             string `form:"code"`
	Error            string `form:"error"`
	ErrorDescription string `form:"error_description"`
}

// UserResponse відповідь GET /user
type UserResponse struct {
	User *SessionUser `json:"user"`
}

// LogoutResponse відповідь POST /logout
type LogoutResponse struct {
	Success bool `json:"success"`
}
