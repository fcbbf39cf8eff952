// Package config loads storefront service configuration from the environment.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/velora/storefront/pkg/config"
)

// Storage backend names accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	DataDir        string `env:"DATA_DIR" envDefault:"./data"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	PostgresDSN string `env:"POSTGRES_DSN" envDefault:""`

	// Empty broker list leaves event publishing disabled.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Empty URL selects the built-in static coupon catalog.
	CouponCatalogURL    string        `env:"COUPON_CATALOG_URL" envDefault:""`
	CouponLookupTimeout time.Duration `env:"COUPON_LOOKUP_TIMEOUT" envDefault:"3s"`

	CartSnapshotKey     string `env:"CART_SNAPSHOT_KEY" envDefault:"storefront:cart"`
	WishlistSnapshotKey string `env:"WISHLIST_SNAPSHOT_KEY" envDefault:"storefront:wishlist"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.HTTPPort)
	}

	switch c.StorageBackend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be one of memory, file, redis, postgres, got %q", c.StorageBackend)
	}

	if c.StorageBackend == BackendFile && c.DataDir == "" {
		return fmt.Errorf("DATA_DIR is required when STORAGE_BACKEND is file")
	}

	if c.StorageBackend == BackendPostgres && c.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required when STORAGE_BACKEND is postgres")
	}

	if c.CouponLookupTimeout <= 0 {
		return fmt.Errorf("COUPON_LOOKUP_TIMEOUT must be positive, got %s", c.CouponLookupTimeout)
	}

	return nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
