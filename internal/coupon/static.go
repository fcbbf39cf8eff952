package coupon

import (
	"context"
	"sync"

	"github.com/velora/storefront/internal/domain"
	apperrors "github.com/velora/storefront/pkg/errors"
)

// StaticCatalog is an in-memory Catalog seeded at construction. It backs
// development and tests, and deployments where coupon rules ship with the
// binary.
type StaticCatalog struct {
	mu      sync.RWMutex
	coupons map[string]domain.Coupon
}

// NewStaticCatalog creates a catalog seeded with the given coupons.
func NewStaticCatalog(coupons ...domain.Coupon) *StaticCatalog {
	c := &StaticCatalog{
		coupons: make(map[string]domain.Coupon, len(coupons)),
	}
	for _, coupon := range coupons {
		c.Register(coupon)
	}
	return c
}

// Register adds or replaces a coupon. The code is normalized so lookups are
// case-insensitive.
func (c *StaticCatalog) Register(coupon domain.Coupon) {
	code := domain.NormalizeCouponCode(coupon.Code)
	coupon.Code = code

	c.mu.Lock()
	defer c.mu.Unlock()
	c.coupons[code] = coupon
}

// FindCoupon returns the coupon registered under code.
func (c *StaticCatalog) FindCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	normalized := domain.NormalizeCouponCode(code)

	c.mu.RLock()
	defer c.mu.RUnlock()

	coupon, ok := c.coupons[normalized]
	if !ok {
		return nil, apperrors.NotFound("coupon", normalized)
	}

	cp := coupon
	return &cp, nil
}
