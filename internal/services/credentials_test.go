package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"google-login/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB відкриває окрему in-memory sqlite базу; migrate створює таблицю
func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	if migrate {
		require.NoError(t, db.AutoMigrate(&models.CredentialRecord{}))
	}
	return db
}

func strPtr(s string) *string { return &s }

func TestCredentialStoreUpsertInsertsRecord(t *testing.T) {
	db := newTestDB(t, true)
	store := NewCredentialStore(db, PrivilegeElevated)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ada@example.com", strPtr("access-1"), strPtr("refresh-1")))

	record, found, err := store.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "ada@example.com", record.Email)
	assert.Equal(t, "access-1", *record.AccessToken)
	assert.Equal(t, "refresh-1", *record.RefreshToken)
	_, err = uuid.Parse(record.ID)
	assert.NoError(t, err)
}

func TestCredentialStoreUpsertOverwritesByEmail(t *testing.T) {
	db := newTestDB(t, true)
	store := NewCredentialStore(db, PrivilegeElevated)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ada@example.com", strPtr("access-1"), strPtr("refresh-1")))
	first, _, err := store.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)

	// повторний вхід без refresh token затирає збережений
	require.NoError(t, store.Upsert(ctx, "ada@example.com", strPtr("access-2"), nil))

	var count int64
	require.NoError(t, db.Model(&models.CredentialRecord{}).Where("email = ?", "ada@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	record, found, err := store.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first.ID, record.ID)
	assert.Equal(t, "access-2", *record.AccessToken)
	assert.Nil(t, record.RefreshToken)
}

func TestCredentialStoreSeparatesEmails(t *testing.T) {
	db := newTestDB(t, true)
	store := NewCredentialStore(db, PrivilegeElevated)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "ada@example.com", strPtr("a"), nil))
	require.NoError(t, store.Upsert(ctx, "grace@example.com", strPtr("g"), nil))

	var count int64
	require.NoError(t, db.Model(&models.CredentialRecord{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestCredentialStoreFindByEmailNotFound(t *testing.T) {
	store := NewCredentialStore(newTestDB(t, true), PrivilegeRestricted)

	record, found, err := store.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, record)
}

func TestCredentialStoreMissingTable(t *testing.T) {
	store := NewCredentialStore(newTestDB(t, false), PrivilegeElevated)

	err := store.Upsert(context.Background(), "ada@example.com", strPtr("a"), nil)

	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "upsert", se.Op)
	assert.True(t, se.IsSchemaMissing())
}

func TestNewStorageErrorUnpacksPostgresError(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "42P01",
		Message: `relation "user_credentials" does not exist`,
		Detail:  "detail",
		Hint:    "hint",
	}

	se := newStorageError("upsert", fmt.Errorf("insert: %w", pgErr))

	assert.Equal(t, "42P01", se.Code)
	assert.Equal(t, pgErr.Message, se.Message)
	assert.Equal(t, "detail", se.Details)
	assert.Equal(t, "hint", se.Hint)
	assert.True(t, se.IsSchemaMissing())
	assert.True(t, errors.Is(se, pgErr))
}

func TestNewStorageErrorPermissionDenied(t *testing.T) {
	se := newStorageError("upsert", &pgconn.PgError{Code: "42501", Message: "new row violates row-level security policy"})

	assert.Equal(t, "42501", se.Code)
	assert.False(t, se.IsSchemaMissing())
	assert.Contains(t, se.Error(), "42501")
}

func TestPrivilegeString(t *testing.T) {
	assert.Equal(t, "elevated", PrivilegeElevated.String())
	assert.Equal(t, "restricted", PrivilegeRestricted.String())
}
