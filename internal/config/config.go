package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Object storage (S3-compatible)
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageRegion    string
	StorageUseSSL    bool
	// Public URL pieces: https://<StorageDomain>/<MediaPrefix>/<key>
	StorageDomain string
	MediaPrefix   string

	// Identity provider (Firebase-style signed ID tokens)
	IdentityProjectID string
	IdentityJWKSURL   string

	// Server
	Port        string
	CORSOrigins string
}

func Load() *Config {
	// Ignore a missing .env; env vars are the source of truth.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "cloudvault_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		StorageEndpoint:  getEnv("STORAGE_ENDPOINT", "s3.amazonaws.com"),
		StorageAccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
		StorageSecretKey: getEnv("STORAGE_SECRET_KEY", ""),
		StorageBucket:    getEnv("STORAGE_BUCKET", ""),
		StorageRegion:    getEnv("STORAGE_REGION", "us-east-1"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "true") != "false",
		StorageDomain:    getEnv("STORAGE_DOMAIN", ""),
		MediaPrefix:      getEnv("MEDIA_PREFIX", "media"),

		IdentityProjectID: getEnv("IDENTITY_PROJECT_ID", ""),
		IdentityJWKSURL: getEnv("IDENTITY_JWKS_URL",
			"https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}
}

// Validate checks required fields once at startup. Missing credentials fail
// fast instead of falling back to ambient defaults.
func (c *Config) Validate() error {
	var missing []string
	if c.DBPassword == "" {
		missing = append(missing, "DB_PASSWORD")
	}
	if c.StorageAccessKey == "" {
		missing = append(missing, "STORAGE_ACCESS_KEY")
	}
	if c.StorageSecretKey == "" {
		missing = append(missing, "STORAGE_SECRET_KEY")
	}
	if c.StorageBucket == "" {
		missing = append(missing, "STORAGE_BUCKET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// PublicURLBase returns the host part used for object URLs. Falls back to
// the bucket's virtual-host address when no CDN/custom domain is set.
func (c *Config) PublicURLBase() string {
	if c.StorageDomain != "" {
		return c.StorageDomain
	}
	return c.StorageBucket + "." + c.StorageEndpoint
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
