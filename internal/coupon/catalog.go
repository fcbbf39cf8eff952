// Package coupon provides the coupon catalog lookup boundary. The cart
// engine resolves codes through a Catalog; whether the rule set lives in a
// local table or behind an HTTP service is invisible to it.
package coupon

import (
	"context"

	"github.com/velora/storefront/internal/domain"
)

// Catalog looks up coupon rules by code. FindCoupon returns a wrapped
// pkg/errors.ErrNotFound for unknown codes; any other error is a transport
// failure the caller may retry.
type Catalog interface {
	FindCoupon(ctx context.Context, code string) (*domain.Coupon, error)
}
