package migrations

import (
	"gorm.io/gorm"
)

// EnableCredentialsRowSecurity вмикає row-level security: анонімна роль не бачить жодного рядка,
// писати може лише сервісна роль, яка обходить політики
func EnableCredentialsRowSecurity(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec(`ALTER TABLE user_credentials ENABLE ROW LEVEL SECURITY`).Error
}

// DisableCredentialsRowSecurity вимикає row-level security
func DisableCredentialsRowSecurity(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	return tx.Exec(`ALTER TABLE IF EXISTS user_credentials DISABLE ROW LEVEL SECURITY`).Error
}
