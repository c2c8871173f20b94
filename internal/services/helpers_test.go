package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudvault/backend/internal/models"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.APIToken{},
		&models.Address{},
		&models.UploadedFile{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		AuthProvider: "local",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// fakeVerifier returns canned claims or a canned error.
type fakeVerifier struct {
	claims *IdentityClaims
	err    error
}

func (f *fakeVerifier) Verify(_ context.Context, _ string) (*IdentityClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

// fakeBlobStore records uploads in memory and can be told to fail.
type fakeBlobStore struct {
	uploads    map[string][]byte
	deleted    []string
	failUpload bool
	failDelete bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{uploads: make(map[string][]byte)}
}

func (f *fakeBlobStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	if f.failUpload {
		return errors.New("bucket unreachable")
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.uploads[key] = data
	return nil
}

func (f *fakeBlobStore) Delete(_ context.Context, key string) error {
	if f.failDelete {
		return errors.New("bucket unreachable")
	}
	f.deleted = append(f.deleted, key)
	delete(f.uploads, key)
	return nil
}

func (f *fakeBlobStore) PublicURL(key string) string {
	return "https://cdn.example.com/media/" + key
}
