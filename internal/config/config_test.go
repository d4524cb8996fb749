package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: debug
database:
  host: db
  port: 3306
jwt:
  secret: short
  expire_hours: 2
storage:
  local_path: `+filepath.Join(t.TempDir(), "uploads")+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "db", cfg.Database.Host)
	assert.Equal(t, 2*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadBytes())
	assert.ElementsMatch(t, []string{"pdf", "png", "jpg", "jpeg"}, cfg.Storage.AllowedExtensions)
	assert.False(t, cfg.Simulation.Enabled)
	assert.Equal(t, 30, cfg.Simulation.IntervalMinutes)
	assert.DirExists(t, cfg.Storage.LocalPath)
}

func TestLoadConfigReleaseRequiresStrongSecret(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: too-short
storage:
  type: minio
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Driver: "sqlite"},
		Storage:  StorageConfig{Type: "local"},
	}
	assert.ErrorContains(t, cfg.Validate(), "unsupported database driver")

	cfg.Database.Driver = "postgres"
	cfg.Storage.Type = "s3"
	assert.ErrorContains(t, cfg.Validate(), "unsupported storage type")

	cfg.Storage.Type = "oss"
	assert.NoError(t, cfg.Validate())
}

func TestMaxUploadBytes(t *testing.T) {
	assert.Equal(t, int64(10<<20), StorageConfig{MaxUploadMB: 10}.MaxUploadBytes())
	assert.Equal(t, int64(5<<20), StorageConfig{}.MaxUploadBytes())
}
