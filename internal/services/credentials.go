package services

import (
	"context"
	"errors"

	"google-login/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Privilege описує права підключення, переданого в CredentialStore
type Privilege int

const (
	// PrivilegeRestricted - анонімна роль, на яку діють row-level політики
	PrivilegeRestricted Privilege = iota
	// PrivilegeElevated - сервісна роль, яка обходить row-level політики
	PrivilegeElevated
)

func (p Privilege) String() string {
	if p == PrivilegeElevated {
		return "elevated"
	}
	return "restricted"
}

// credentialStore реалізація CredentialStore
type credentialStore struct {
	db        *gorm.DB
	privilege Privilege
}

// NewCredentialStore створює новий CredentialStore поверх переданого підключення
func NewCredentialStore(db *gorm.DB, privilege Privilege) CredentialStore {
	if privilege != PrivilegeElevated {
		logrus.Warn("⚠️  Credential store is running without the elevated database role. Writes may be rejected by row-level policies.")
	}

	return &credentialStore{
		db:        db,
		privilege: privilege,
	}
}

// Upsert записує або перезаписує токени для email одним атомарним INSERT ... ON CONFLICT
func (s *credentialStore) Upsert(ctx context.Context, email string, accessToken, refreshToken *string) error {
	logrus.WithFields(logrus.Fields{
		"email":             email,
		"has_refresh_token": refreshToken != nil,
		"privilege":         s.privilege.String(),
	}).Info("💾 Saving credentials")

	record := models.CredentialRecord{
		ID:           uuid.NewString(),
		Email:        email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}

	// refresh_token перезаписується навіть значенням NULL
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "refresh_token", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		se := newStorageError("upsert", err)
		logStorageError(se, email)
		return se
	}

	logrus.WithField("email", email).Info("✅ Credentials saved")
	return nil
}

// FindByEmail повертає запис за email; відсутність запису не є помилкою
func (s *credentialStore) FindByEmail(ctx context.Context, email string) (*models.CredentialRecord, bool, error) {
	var record models.CredentialRecord
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		se := newStorageError("find", err)
		logStorageError(se, email)
		return nil, false, se
	}
	return &record, true, nil
}

// logStorageError пише повну діагностику для операторів
func logStorageError(se *StorageError, email string) {
	logrus.WithFields(logrus.Fields{
		"email":   email,
		"op":      se.Op,
		"code":    se.Code,
		"message": se.Message,
		"details": se.Details,
		"hint":    se.Hint,
	}).Error("❌ Credential storage error")

	if se.IsSchemaMissing() {
		logrus.Errorf("❌ Table %q does not exist. Run the migrate command to provision the schema.", models.CredentialsTable)
	}
}
