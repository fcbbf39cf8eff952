package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/velora/storefront/internal/domain"
	apperrors "github.com/velora/storefront/pkg/errors"
)

// HTTPCatalogConfig holds configuration for the HTTP coupon catalog client.
type HTTPCatalogConfig struct {
	// BaseURL of the coupon catalog service, without trailing slash.
	BaseURL string

	// RequestTimeout bounds each lookup request. Callers may impose a
	// stricter deadline through the context.
	RequestTimeout time.Duration

	// BreakerTimeout is how long the breaker stays open before half-open.
	BreakerTimeout time.Duration

	// FailureRatio trips the breaker when this share of requests fail.
	FailureRatio float64

	// MinRequests is the minimum request count before the ratio is evaluated.
	MinRequests uint32
}

// DefaultHTTPCatalogConfig returns sensible defaults for the catalog client.
func DefaultHTTPCatalogConfig(baseURL string) HTTPCatalogConfig {
	return HTTPCatalogConfig{
		BaseURL:        baseURL,
		RequestTimeout: 3 * time.Second,
		BreakerTimeout: 30 * time.Second,
		FailureRatio:   0.5,
		MinRequests:    5,
	}
}

// HTTPCatalog resolves coupon codes against a remote catalog service over
// HTTP, protected by a circuit breaker. Unknown codes map to not-found;
// 5xx responses, timeouts, and an open breaker surface as transport errors.
type HTTPCatalog struct {
	cfg     HTTPCatalogConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[*domain.Coupon]
	logger  *slog.Logger
}

// NewHTTPCatalog creates a catalog client for the given base URL.
func NewHTTPCatalog(cfg HTTPCatalogConfig, logger *slog.Logger) *HTTPCatalog {
	settings := gobreaker.Settings{
		Name:    "coupon-catalog",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
		// A missing coupon is an answer, not a fault.
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.HTTPStatus(err) == http.StatusNotFound
		},
	}

	return &HTTPCatalog{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		breaker: gobreaker.NewCircuitBreaker[*domain.Coupon](settings),
		logger:  logger,
	}
}

// FindCoupon looks up a coupon by code against the remote catalog.
func (c *HTTPCatalog) FindCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	normalized := domain.NormalizeCouponCode(code)

	coupon, err := c.breaker.Execute(func() (*domain.Coupon, error) {
		return c.fetch(ctx, normalized)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, apperrors.Unavailable("coupon catalog unavailable")
		}
		return nil, err
	}

	return coupon, nil
}

func (c *HTTPCatalog) fetch(ctx context.Context, code string) (*domain.Coupon, error) {
	url := fmt.Sprintf("%s/api/v1/coupons/%s", c.cfg.BaseURL, code)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create coupon request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("coupon catalog request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.NotFound("coupon", code)
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("coupon catalog returned %d: %s", resp.StatusCode, string(body))
	}

	var coupon domain.Coupon
	if err := json.NewDecoder(resp.Body).Decode(&coupon); err != nil {
		return nil, fmt.Errorf("decode coupon response: %w", err)
	}
	coupon.Code = domain.NormalizeCouponCode(coupon.Code)

	return &coupon, nil
}
