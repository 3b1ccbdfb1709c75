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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	uploads := filepath.Join(t.TempDir(), "uploads")
	dir := writeConfig(t, `
jwt:
  secret: dev-secret
storage:
  local_path: `+uploads+`
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 168*time.Hour, cfg.JWT.ExpireTime)
	assert.True(t, cfg.AI.RequireAuth)
	assert.Equal(t, 60*time.Second, cfg.AI.Timeout())
	assert.Equal(t, 20, cfg.AI.RateLimit)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORS.AllowedOrigins)

	_, err = os.Stat(uploads)
	assert.NoError(t, err)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := writeConfig(t, `
jwt:
  secret: dev-secret
storage:
  local_path: `+t.TempDir()+`
ai:
  model: from-file
`)
	t.Setenv("AI_MODEL", "from-env")
	t.Setenv("DATABASE_DRIVER", "postgres")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.Model)
	assert.Equal(t, "postgres", cfg.Database.Driver)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	dir := writeConfig(t, `
server:
  mode: release
jwt:
  secret: short
storage:
  local_path: `+t.TempDir()+`
`)

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}

func TestAIConfigTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, AIConfig{TimeoutSeconds: 5}.Timeout())
	assert.Equal(t, 60*time.Second, AIConfig{}.Timeout())
}
