package services

import (
	"context"
	"errors"
	"testing"

	"google-login/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func completeEnv() map[string]string {
	return map[string]string{
		"GOOGLE_CLIENT_ID":     "123.apps.googleusercontent.com",
		"GOOGLE_CLIENT_SECRET": "GOCSPX-secret",
		"BASE_URL":             "http://localhost:8080",
		"DATABASE_URL":         "postgres://db:5432/app",
		"DATABASE_ANON_KEY":    "anon",
		"DATABASE_SERVICE_KEY": "service",
	}
}

func TestCheckEnvironmentComplete(t *testing.T) {
	report := CheckEnvironment(mapLookup(completeEnv()))

	assert.True(t, report.OK())
	assert.Len(t, report.Vars, len(RequiredEnv))
	assert.Empty(t, report.Warnings)
}

func TestCheckEnvironmentMissingAndPlaceholders(t *testing.T) {
	env := completeEnv()
	delete(env, "DATABASE_SERVICE_KEY")
	env["GOOGLE_CLIENT_SECRET"] = "your-client-secret"

	report := CheckEnvironment(mapLookup(env))

	assert.False(t, report.OK())
	unset := map[string]bool{}
	for _, v := range report.Vars {
		if !v.Set {
			unset[v.Key] = true
		}
	}
	assert.Equal(t, map[string]bool{"DATABASE_SERVICE_KEY": true, "GOOGLE_CLIENT_SECRET": true}, unset)
}

func TestCheckEnvironmentWarnings(t *testing.T) {
	env := completeEnv()
	env["GOOGLE_CLIENT_ID"] = "123456"
	env["SESSION_MODE"] = "signed"
	env["SESSION_SECRET"] = "short"

	report := CheckEnvironment(mapLookup(env))

	assert.True(t, report.OK())
	require.Len(t, report.Warnings, 2)
	assert.Contains(t, report.Warnings[0], "GOOGLE_CLIENT_ID")
	assert.Contains(t, report.Warnings[1], "SESSION_SECRET")
}

func TestCheckDatabaseMissingTable(t *testing.T) {
	db := newTestDB(t, false)

	report, err := CheckDatabase(context.Background(), db, NewCredentialStore(db, PrivilegeElevated))

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.True(t, se.IsSchemaMissing())
	assert.False(t, report.TableExists)
}

func TestCheckDatabaseProbeWrite(t *testing.T) {
	db := newTestDB(t, true)

	report, err := CheckDatabase(context.Background(), db, NewCredentialStore(db, PrivilegeElevated))
	require.NoError(t, err)
	assert.True(t, report.TableExists)
	assert.True(t, report.ProbeWrite)

	var count int64
	require.NoError(t, db.Model(&models.CredentialRecord{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "configuration error: GOOGLE_CLIENT_ID is required", (&ConfigurationError{Key: "GOOGLE_CLIENT_ID"}).Error())
	assert.Equal(t, "authorization code is missing", (&MissingCodeError{}).Error())
	assert.Contains(t, (&TokenExchangeError{Status: 400, Body: "invalid_grant"}).Error(), "400")
	assert.Contains(t, (&ProviderError{Code: "access_denied"}).Error(), "access_denied")
}
