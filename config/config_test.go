package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := source{}.build()

	assert.Equal(t, BlobBackendMongo, cfg.BlobBackend)
	assert.Equal(t, 7*24*time.Hour, cfg.JWTExpiresIn)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 25, cfg.EventMaxSubscribers)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Empty(t, cfg.TrustedProxies)
	assert.False(t, cfg.IsProduction())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app_port: 9000\nblob_backend: s3\nlist_concurrency: 3\n"), 0o600))

	values, err := loadYAMLFile(path)
	require.NoError(t, err)

	t.Setenv("APP_PORT", "7000")
	cfg := source{file: values}.build()

	assert.Equal(t, "7000", cfg.AppPort)
	assert.Equal(t, BlobBackendS3, cfg.BlobBackend)
	assert.Equal(t, 3, cfg.ListConcurrency)
}

func TestDurationAcceptsDays(t *testing.T) {
	t.Setenv("JWT_EXPIRES_IN", "2d")
	assert.Equal(t, 48*time.Hour, source{}.build().JWTExpiresIn)

	t.Setenv("JWT_EXPIRES_IN", "90m")
	assert.Equal(t, 90*time.Minute, source{}.build().JWTExpiresIn)
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.PostgresDSN())
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a , ,http://b"))
}
