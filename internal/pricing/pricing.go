// Package pricing computes cart totals. All functions are pure: the same
// line items and coupon always produce the same result, which keeps totals
// testable independent of persistence and transport.
package pricing

import (
	"time"

	"github.com/velora/storefront/internal/domain"
)

// Totals holds the derived money values for a cart, in cents.
type Totals struct {
	Subtotal int64 `json:"subtotal"`
	Discount int64 `json:"discount"`
	Total    int64 `json:"total"`
}

// Calculate returns the subtotal, discount, and total for the given line
// items and optional coupon. A nil coupon yields zero discount.
func Calculate(items []domain.LineItem, coupon *domain.Coupon) Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.Price * int64(item.Quantity)
	}

	discount := Discount(coupon, subtotal)

	total := subtotal - discount
	if total < 0 {
		total = 0
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Total:    total,
	}
}

// Discount returns the discount amount the coupon yields against the given
// subtotal. Percentage discounts are capped at MaxDiscount when set; fixed
// discounts never exceed the subtotal.
func Discount(coupon *domain.Coupon, subtotal int64) int64 {
	if coupon == nil {
		return 0
	}

	switch coupon.Type {
	case domain.CouponTypePercentage:
		discount := subtotal * coupon.Discount / 100
		if coupon.MaxDiscount > 0 && discount > coupon.MaxDiscount {
			discount = coupon.MaxDiscount
		}
		return discount
	case domain.CouponTypeFixed:
		if coupon.Discount > subtotal {
			return subtotal
		}
		return coupon.Discount
	default:
		return 0
	}
}

// Eligible reports whether the coupon can be applied to a cart with the given
// subtotal at the given time, and a machine-readable reason when it cannot.
func Eligible(coupon *domain.Coupon, subtotal int64, now time.Time) (bool, string) {
	switch {
	case !coupon.IsActive:
		return false, "inactive"
	case coupon.Expired(now):
		return false, "expired"
	case coupon.MinValue > 0 && subtotal < coupon.MinValue:
		return false, "min_subtotal"
	}
	return true, ""
}
