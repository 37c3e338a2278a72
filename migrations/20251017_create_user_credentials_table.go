package migrations

import (
	"google-login/internal/models"

	"gorm.io/gorm"
)

// CreateCredentialsTable створює таблицю user_credentials з унікальним email
func CreateCredentialsTable(tx *gorm.DB) error {
	return tx.AutoMigrate(&models.CredentialRecord{})
}

// DropCredentialsTable видаляє таблицю user_credentials
func DropCredentialsTable(tx *gorm.DB) error {
	return tx.Migrator().DropTable(models.CredentialsTable)
}
