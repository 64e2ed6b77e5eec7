package config

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "postgres://localhost/lumina")
	t.Setenv("ENV", "")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, NotificationStorePostgres, cfg.NotificationStore)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "dev-only-jwt-secret", cfg.JWTSecret)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "postgres://localhost/lumina")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("POSTGRES_CONN_STR", "")
	t.Setenv("NOTIFICATION_STORE", "mongo")
	t.Setenv("MONGO_URI", "")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("LOG_LEVEL", "loud")
	t.Setenv("OTEL_SAMPLE_RATIO", "2")

	_, err := Load()
	require.Error(t, err)
	for _, want := range []string{"POSTGRES_CONN_STR", "MONGO_URI", "JWT_TTL", "LOG_LEVEL", "OTEL_SAMPLE_RATIO"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("FLAG", "On")
	assert.True(t, getBool("FLAG", false))
	t.Setenv("FLAG", "no")
	assert.False(t, getBool("FLAG", true))
	t.Setenv("FLAG", "maybe")
	assert.True(t, getBool("FLAG", true))
}

func TestInitRedis(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, initRedis(ctx, ""))
	assert.Nil(t, initRedis(ctx, "redis://%zz"))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	for _, addr := range []string{mr.Addr(), "redis://" + mr.Addr() + "/0"} {
		client := initRedis(ctx, addr)
		require.NotNil(t, client, addr)
		require.NoError(t, client.Set(ctx, "k", "v", 0).Err())
		_ = client.Close()
	}

	mr.Close()
	assert.Nil(t, initRedis(ctx, mr.Addr()), "unreachable redis disables the cache")
}

func TestGormLogger(t *testing.T) {
	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())
	l := NewGormLogger(logger.Config{
		SlowThreshold:             50 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	query := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), query, nil)
	assert.Empty(t, buf.String(), "fast queries are not logged at warn")

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	assert.Contains(t, buf.String(), "gorm slow query")
	buf.Reset()

	l.Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Contains(t, buf.String(), `"error":"boom"`)
	buf.Reset()

	silent := l.LogMode(logger.Silent)
	silent.Trace(ctx, time.Now(), query, errors.New("boom"))
	assert.Empty(t, buf.String())
	assert.Equal(t, logger.Warn, l.Config.LogLevel, "LogMode returns a copy")
}
