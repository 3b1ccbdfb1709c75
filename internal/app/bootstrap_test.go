package app

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/testutil"
	"errors"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapMigrateOnlySkipsRuntime(t *testing.T) {
	cfg := testutil.NewConfig(t, "")
	cfg.MigrateOnly = true
	cfg.Tracing.Enabled = true
	db := testutil.NewDB(t)

	a, err := bootstrap(cfg, db, func(*config.RedisConfig) (*redis.Client, error) {
		t.Fatal("redis must not be dialed for a migrate-only run")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Same(t, db, a.DB)
	assert.Nil(t, a.Router)
	assert.Nil(t, a.tracer)
}

func TestBootstrapConnectsRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testutil.NewConfig(t, "")

	dialed := false
	a, err := bootstrap(cfg, testutil.NewDB(t), func(*config.RedisConfig) (*redis.Client, error) {
		dialed = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, dialed)
	assert.NotNil(t, a.Router)

	_, err = bootstrap(cfg, testutil.NewDB(t), func(*config.RedisConfig) (*redis.Client, error) {
		return nil, errors.New("connection refused")
	})
	assert.ErrorContains(t, err, "connection refused")
}
