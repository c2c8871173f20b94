package storage

import (
	"testing"

	"github.com/cloudvault/backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURLWithCustomDomain(t *testing.T) {
	store, err := NewS3Store(&config.Config{
		StorageEndpoint:  "s3.amazonaws.com",
		StorageAccessKey: "test",
		StorageSecretKey: "test",
		StorageBucket:    "cloudvault-media",
		StorageRegion:    "us-east-1",
		StorageUseSSL:    true,
		StorageDomain:    "cdn.example.com",
		MediaPrefix:      "media",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://cdn.example.com/media/user_1/abc.pdf",
		store.PublicURL("user_1/abc.pdf"))
}

func TestPublicURLFallsBackToBucketHost(t *testing.T) {
	store, err := NewS3Store(&config.Config{
		StorageEndpoint:  "s3.amazonaws.com",
		StorageAccessKey: "test",
		StorageSecretKey: "test",
		StorageBucket:    "cloudvault-media",
		StorageRegion:    "us-east-1",
		StorageUseSSL:    true,
		MediaPrefix:      "media",
	})
	require.NoError(t, err)

	assert.Equal(t,
		"https://cloudvault-media.s3.amazonaws.com/media/user_1/abc.pdf",
		store.PublicURL("user_1/abc.pdf"))
}
