// Package app wires together all dependencies and runs the storefront service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/velora/storefront/internal/cart"
	"github.com/velora/storefront/internal/config"
	"github.com/velora/storefront/internal/coupon"
	"github.com/velora/storefront/internal/domain"
	"github.com/velora/storefront/internal/event"
	handler "github.com/velora/storefront/internal/handler/http"
	"github.com/velora/storefront/internal/notify"
	"github.com/velora/storefront/internal/storage"
	postgresstore "github.com/velora/storefront/internal/storage/postgres"
	redisstore "github.com/velora/storefront/internal/storage/redis"
	"github.com/velora/storefront/internal/wishlist"
	"github.com/velora/storefront/pkg/health"
	pkgkafka "github.com/velora/storefront/pkg/kafka"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	rdb        *redis.Client
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server

	cartEngine     *cart.Engine
	wishlistEngine *wishlist.Engine
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger}
	healthHandler := health.NewHandler()

	store, err := a.newStore(ctx, healthHandler)
	if err != nil {
		return nil, err
	}

	// Kafka producer is optional; without brokers events stay disabled.
	var eventProducer *event.Producer
	if len(cfg.KafkaBrokers) > 0 {
		kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
		a.producer = pkgkafka.NewProducer(kafkaCfg, logger)
		eventProducer = event.NewProducer(a.producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	catalog := a.newCouponCatalog()
	notifier := notify.NewLogNotifier(logger)

	a.cartEngine = cart.NewEngine(store, catalog, notifier, logger,
		cart.WithSnapshotKey(cfg.CartSnapshotKey),
		cart.WithLookupTimeout(cfg.CouponLookupTimeout),
		cart.WithProducer(eventProducer),
	)
	a.wishlistEngine = wishlist.NewEngine(store, notifier, logger,
		wishlist.WithSnapshotKey(cfg.WishlistSnapshotKey),
		wishlist.WithProducer(eventProducer),
	)

	// Replay persisted snapshots before the server accepts requests.
	if err := a.cartEngine.Load(ctx); err != nil {
		return nil, fmt.Errorf("load cart snapshot: %w", err)
	}
	if err := a.wishlistEngine.Load(ctx); err != nil {
		return nil, fmt.Errorf("load wishlist snapshot: %w", err)
	}

	router := handler.NewRouter(handler.RouterConfig{
		CartHandler:     handler.NewCartHandler(a.cartEngine, logger),
		WishlistHandler: handler.NewWishlistHandler(a.wishlistEngine, logger),
		HealthHandler:   healthHandler,
		Logger:          logger,
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// newStore builds the snapshot store selected by STORAGE_BACKEND and
// registers its health check.
func (a *App) newStore(ctx context.Context, h *health.Handler) (storage.Store, error) {
	switch a.cfg.StorageBackend {
	case config.BackendMemory:
		return storage.NewMemoryStore(), nil

	case config.BackendFile:
		fs, err := storage.NewFileStore(a.cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("init file store: %w", err)
		}
		a.logger.Info("using file snapshot store", slog.String("dir", a.cfg.DataDir))
		return fs, nil

	case config.BackendRedis:
		a.rdb = redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		if err := a.rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		h.Register("redis", func(ctx context.Context) error {
			return a.rdb.Ping(ctx).Err()
		})
		a.logger.Info("connected to Redis",
			slog.String("addr", a.cfg.RedisAddr),
			slog.Int("db", a.cfg.RedisDB),
		)
		return redisstore.NewStore(a.rdb, 0), nil

	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("create postgres pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.pool = pool
		h.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		a.logger.Info("connected to PostgreSQL")
		return postgresstore.NewStore(pool), nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.StorageBackend)
	}
}

// newCouponCatalog selects the remote catalog when a URL is configured and
// falls back to the built-in static catalog otherwise.
func (a *App) newCouponCatalog() coupon.Catalog {
	if a.cfg.CouponCatalogURL != "" {
		catalogCfg := coupon.DefaultHTTPCatalogConfig(a.cfg.CouponCatalogURL)
		catalogCfg.RequestTimeout = a.cfg.CouponLookupTimeout
		a.logger.Info("using remote coupon catalog", slog.String("url", a.cfg.CouponCatalogURL))
		return coupon.NewHTTPCatalog(catalogCfg, a.logger)
	}
	return coupon.NewStaticCatalog(defaultCoupons()...)
}

// defaultCoupons seeds the static catalog used when no remote catalog is
// configured.
func defaultCoupons() []domain.Coupon {
	return []domain.Coupon{
		{
			Code:        "WELCOME10",
			Type:        domain.CouponTypePercentage,
			Discount:    10,
			MinValue:    0,
			MaxDiscount: 5000,
			IsActive:    true,
		},
		{
			Code:     "SAVE20",
			Type:     domain.CouponTypeFixed,
			Discount: 2000,
			MinValue: 10000,
			IsActive: true,
		},
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
		}
	}

	if a.pool != nil {
		a.pool.Close()
	}

	a.logger.Info("application shutdown complete")
	return nil
}
