package domain

import (
	"strings"
	"time"
)

// Coupon type constants.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// Coupon represents a promotional discount rule. Code is the coupon identity
// and is case-insensitive; NormalizeCouponCode gives the canonical form.
// Discount is a whole percent for percentage coupons and cents for fixed
// coupons. MinValue is the order subtotal floor to qualify. MaxDiscount caps
// percentage discounts when greater than zero.
type Coupon struct {
	Code        string     `json:"code"`
	Type        string     `json:"type"`
	Discount    int64      `json:"discount"`
	MinValue    int64      `json:"min_value"`
	MaxDiscount int64      `json:"max_discount,omitempty"`
	IsActive    bool       `json:"is_active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// NormalizeCouponCode returns the canonical, case-insensitive form of a code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Expired reports whether the coupon is past its expiry at the given time.
// Coupons without an expiry never expire.
func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// IsValidCouponType checks whether the given type string is a known coupon type.
func IsValidCouponType(t string) bool {
	return t == CouponTypePercentage || t == CouponTypeFixed
}
