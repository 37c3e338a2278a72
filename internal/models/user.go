package models

import "time"

// UserProfile представляє профіль користувача з userinfo endpoint Google
type UserProfile struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

// SessionUser - ідентичність, яку сесія зберігає у браузері
type SessionUser struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// NewSessionUser будує SessionUser з профілю Google
func NewSessionUser(p *UserProfile) *SessionUser {
	return &SessionUser{
		Email:   p.Email,
		Name:    p.Name,
		Picture: p.Picture,
	}
}

// CredentialRecord - збережені OAuth токени, один рядок на email
type CredentialRecord struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null;size:255" json:"email"`
	AccessToken  *string   `gorm:"type:text" json:"-"`
	RefreshToken *string   `gorm:"type:text" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CredentialsTable ім'я таблиці з обліковими даними
const CredentialsTable = "user_credentials"

// TableName явно задає ім'я таблиці для GORM
func (CredentialRecord) TableName() string {
	return CredentialsTable
}
