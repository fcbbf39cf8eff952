// Package event publishes storefront domain events. The producer is the
// observer side of engine mutations: every committed state transition is
// announced so downstream consumers (analytics, abandoned-cart jobs) can
// react. Publishing is best-effort; engines log and continue on failure.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/velora/storefront/internal/domain"
	"github.com/velora/storefront/internal/pricing"
	pkgkafka "github.com/velora/storefront/pkg/kafka"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicCartCleared     = "storefront.cart.cleared"
	TopicWishlistUpdated = "storefront.wishlist.updated"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// Source identifier for events originating from this service.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	CartID     string            `json:"cart_id"`
	Items      []domain.LineItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	CouponCode string            `json:"coupon_code,omitempty"`
	Totals     pricing.Totals    `json:"totals"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	CartID string `json:"cart_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	Items     []domain.WishlistItem `json:"items"`
	ItemCount int                   `json:"item_count"`
}

// Producer publishes storefront domain events to Kafka. A nil *Producer is
// a no-op, so wiring can leave events disabled.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event with the cart's derived totals.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	if p == nil {
		return nil
	}

	couponCode := ""
	if cart.Coupon != nil {
		couponCode = cart.Coupon.Code
	}

	data := CartUpdatedData{
		CartID:     cart.ID,
		Items:      cart.Items,
		ItemCount:  cart.ItemCount(),
		CouponCode: couponCode,
		Totals:     pricing.Calculate(cart.Items, cart.Coupon),
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, cart.ID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("cart_id", cart.ID),
		slog.Int("item_count", data.ItemCount),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, cartID string) error {
	if p == nil {
		return nil
	}

	data := CartClearedData{CartID: cartID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, cartID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, wishlist *domain.Wishlist) error {
	if p == nil {
		return nil
	}

	data := WishlistUpdatedData{
		Items:     wishlist.Items,
		ItemCount: len(wishlist.Items),
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, "wishlist", AggregateTypeWishlist, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	return nil
}
