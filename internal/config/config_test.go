package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.CouponCatalogURL)
	assert.Equal(t, 3*time.Second, cfg.CouponLookupTimeout)
	assert.Equal(t, "storefront:cart", cfg.CartSnapshotKey)
	assert.Equal(t, "storefront:wishlist", cfg.WishlistSnapshotKey)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("COUPON_LOOKUP_TIMEOUT", "5s")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, BackendRedis, cfg.StorageBackend)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 5*time.Second, cfg.CouponLookupTimeout)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "99999")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "dynamo")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_BACKEND")
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "POSTGRES_DSN")
}

func TestLoad_NonPositiveLookupTimeout(t *testing.T) {
	t.Setenv("COUPON_LOOKUP_TIMEOUT", "0s")

	_, err := Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "COUPON_LOOKUP_TIMEOUT")
}
