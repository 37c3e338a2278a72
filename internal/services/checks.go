package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google-login/internal/models"

	"gorm.io/gorm"
)

// EnvVar опис обов'язкової змінної оточення
type EnvVar struct {
	Key     string
	Example string
}

// RequiredEnv змінні, без яких сервер не стартує коректно
var RequiredEnv = []EnvVar{
	{Key: "GOOGLE_CLIENT_ID", Example: "123456789.apps.googleusercontent.com"},
	{Key: "GOOGLE_CLIENT_SECRET", Example: "GOCSPX-xxxxx"},
	{Key: "BASE_URL", Example: "http://localhost:8080"},
	{Key: "DATABASE_URL", Example: "postgres://db.example.com:5432/app?sslmode=require"},
	{Key: "DATABASE_ANON_KEY", Example: "anon-role-password"},
	{Key: "DATABASE_SERVICE_KEY", Example: "service-role-password"},
}

// EnvStatus стан однієї змінної
type EnvStatus struct {
	EnvVar
	Set bool
}

// EnvReport результат перевірки оточення
type EnvReport struct {
	Vars     []EnvStatus
	Warnings []string
}

// OK повідомляє, що всі обов'язкові змінні встановлені
func (r *EnvReport) OK() bool {
	for _, v := range r.Vars {
		if !v.Set {
			return false
		}
	}
	return true
}

// CheckEnvironment перевіряє обов'язкові змінні; lookup зазвичай os.LookupEnv
func CheckEnvironment(lookup func(string) (string, bool)) *EnvReport {
	report := &EnvReport{}

	for _, v := range RequiredEnv {
		value, _ := lookup(v.Key)
		report.Vars = append(report.Vars, EnvStatus{EnvVar: v, Set: !isPlaceholder(value)})
	}

	if id, ok := lookup("GOOGLE_CLIENT_ID"); ok && !isPlaceholder(id) && !strings.HasSuffix(id, ".apps.googleusercontent.com") {
		report.Warnings = append(report.Warnings, "GOOGLE_CLIENT_ID might be incorrect (should end with '.apps.googleusercontent.com')")
	}
	if mode, _ := lookup("SESSION_MODE"); mode == "signed" {
		if secret, _ := lookup("SESSION_SECRET"); len(secret) < 32 {
			report.Warnings = append(report.Warnings, "SESSION_SECRET should be at least 32 characters for signed sessions")
		}
	}

	return report
}

// isPlaceholder - порожнє значення або шаблонна заглушка
func isPlaceholder(value string) bool {
	return value == "" || strings.Contains(value, "your-") || strings.Contains(value, "your_") || strings.Contains(value, "change-me")
}

// DatabaseReport результат перевірки бази даних
type DatabaseReport struct {
	TableExists bool
	ProbeWrite  bool
	ProbeEmail  string
}

// CheckDatabase перевіряє таблицю облікових даних і пробний запис через store
func CheckDatabase(ctx context.Context, db *gorm.DB, store CredentialStore) (*DatabaseReport, error) {
	report := &DatabaseReport{}

	if !db.WithContext(ctx).Migrator().HasTable(&models.CredentialRecord{}) {
		return report, &StorageError{
			Op:      "check",
			Code:    codeUndefinedTable,
			Message: fmt.Sprintf("relation %q does not exist", models.CredentialsTable),
			Hint:    "run the migrate command",
		}
	}
	report.TableExists = true

	report.ProbeEmail = fmt.Sprintf("probe-%d@example.com", time.Now().UnixNano())
	access, refresh := "probe_access_token", "probe_refresh_token"
	if err := store.Upsert(ctx, report.ProbeEmail, &access, &refresh); err != nil {
		return report, err
	}
	report.ProbeWrite = true

	if err := db.WithContext(ctx).Where("email = ?", report.ProbeEmail).Delete(&models.CredentialRecord{}).Error; err != nil {
		return report, newStorageError("cleanup", err)
	}

	return report, nil
}
