package migrations

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migration - один крок схеми з відкатом
type Migration struct {
	ID   string
	Up   func(tx *gorm.DB) error
	Down func(tx *gorm.DB) error
}

// All містить міграції у порядку застосування
var All = []Migration{
	{ID: "20251017_create_user_credentials_table", Up: CreateCredentialsTable, Down: DropCredentialsTable},
	{ID: "20251017_enable_credentials_row_security", Up: EnableCredentialsRowSecurity, Down: DisableCredentialsRowSecurity},
}

// Up застосовує всі міграції; кожна ідемпотентна
func Up(db *gorm.DB) error {
	for _, m := range All {
		logrus.WithField("migration", m.ID).Info("🛠️  Applying migration")
		if err := db.Transaction(m.Up); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}
	}
	return nil
}

// Down відкочує всі міграції у зворотному порядку
func Down(db *gorm.DB) error {
	for i := len(All) - 1; i >= 0; i-- {
		m := All[i]
		logrus.WithField("migration", m.ID).Info("↩️  Rolling back migration")
		if err := db.Transaction(m.Down); err != nil {
			return fmt.Errorf("rollback %s failed: %w", m.ID, err)
		}
	}
	return nil
}
