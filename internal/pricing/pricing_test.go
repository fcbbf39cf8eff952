package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/velora/storefront/internal/domain"
)

func items(pairs ...[2]int64) []domain.LineItem {
	out := make([]domain.LineItem, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, domain.LineItem{Price: p[0], Quantity: int(p[1])})
	}
	return out
}

func TestCalculate_EmptyCart(t *testing.T) {
	totals := Calculate(nil, nil)

	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(0), totals.Total)
}

func TestCalculate_NoCoupon(t *testing.T) {
	totals := Calculate(items([2]int64{1999, 3}, [2]int64{500, 2}), nil)

	assert.Equal(t, int64(6997), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Discount)
	assert.Equal(t, int64(6997), totals.Total)
}

func TestCalculate_PercentageCoupon(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypePercentage, Discount: 10, IsActive: true}

	totals := Calculate(items([2]int64{10000, 2}), c)

	assert.Equal(t, int64(20000), totals.Subtotal)
	assert.Equal(t, int64(2000), totals.Discount)
	assert.Equal(t, int64(18000), totals.Total)
}

func TestCalculate_PercentageCappedAtMaxDiscount(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypePercentage, Discount: 20, MaxDiscount: 1000, IsActive: true}

	totals := Calculate(items([2]int64{10000, 1}), c)

	assert.Equal(t, int64(1000), totals.Discount)
	assert.Equal(t, int64(9000), totals.Total)
}

func TestCalculate_FixedCoupon(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 5000, IsActive: true}

	totals := Calculate(items([2]int64{10000, 2}), c)

	assert.Equal(t, int64(5000), totals.Discount)
	assert.Equal(t, int64(15000), totals.Total)
}

func TestCalculate_FixedCouponNeverExceedsSubtotal(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 5000, IsActive: true}

	totals := Calculate(items([2]int64{3000, 1}), c)

	assert.Equal(t, int64(3000), totals.Discount)
	assert.Equal(t, int64(0), totals.Total)
}

func TestDiscount_NilCoupon(t *testing.T) {
	assert.Equal(t, int64(0), Discount(nil, 10000))
}

func TestDiscount_UnknownTypeYieldsZero(t *testing.T) {
	c := &domain.Coupon{Type: "bogo", Discount: 50}
	assert.Equal(t, int64(0), Discount(c, 10000))
}

func TestDiscount_PercentageTruncates(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypePercentage, Discount: 10}

	// 10% of 999 truncates to 99.
	assert.Equal(t, int64(99), Discount(c, 999))
}

func TestEligible_Active(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 100, IsActive: true}

	ok, reason := Eligible(c, 1000, time.Now().UTC())

	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestEligible_Inactive(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 100}

	ok, reason := Eligible(c, 1000, time.Now().UTC())

	assert.False(t, ok)
	assert.Equal(t, "inactive", reason)
}

func TestEligible_Expired(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Minute)
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 100, IsActive: true, ExpiresAt: &past}

	ok, reason := Eligible(c, 1000, now)

	assert.False(t, ok)
	assert.Equal(t, "expired", reason)
}

func TestEligible_MinSubtotal(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 100, MinValue: 5000, IsActive: true}

	ok, reason := Eligible(c, 4999, time.Now().UTC())

	assert.False(t, ok)
	assert.Equal(t, "min_subtotal", reason)
}

func TestEligible_MinSubtotalBoundary(t *testing.T) {
	c := &domain.Coupon{Type: domain.CouponTypeFixed, Discount: 100, MinValue: 5000, IsActive: true}

	ok, _ := Eligible(c, 5000, time.Now().UTC())

	assert.True(t, ok)
}
