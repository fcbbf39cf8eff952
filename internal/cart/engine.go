// Package cart implements the client-held shopping cart engine: an
// in-memory line-item collection with merge-on-add variant identity,
// stock-bounded quantities, at most one coupon, and best-effort snapshot
// persistence. The in-memory collection is authoritative for the lifetime
// of the process; the snapshot store only replays it across restarts.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/velora/storefront/internal/coupon"
	"github.com/velora/storefront/internal/domain"
	"github.com/velora/storefront/internal/event"
	"github.com/velora/storefront/internal/notify"
	"github.com/velora/storefront/internal/pricing"
	"github.com/velora/storefront/internal/storage"
	apperrors "github.com/velora/storefront/pkg/errors"
	"github.com/velora/storefront/pkg/validator"
)

// DefaultSnapshotKey is the persistence key for the cart snapshot.
const DefaultSnapshotKey = "storefront:cart"

// DefaultLookupTimeout bounds coupon catalog lookups.
const DefaultLookupTimeout = 3 * time.Second

// couponCodeRe matches well-formed coupon codes after normalization.
var couponCodeRe = regexp.MustCompile(`^[A-Z0-9-]{2,64}$`)

// AddItemInput holds the product reference data supplied by the caller at
// add time; the engine never fetches it itself. Stock is nil when unknown
// (no clamping), zero when the variant is known to be sold out.
type AddItemInput struct {
	ProductID     string `json:"product_id" validate:"required"`
	Size          string `json:"size"`
	Color         string `json:"color"`
	SKU           string `json:"sku"`
	Name          string `json:"name" validate:"required,min=1,max=500"`
	Price         int64  `json:"price" validate:"gte=0"`
	OriginalPrice int64  `json:"original_price"`
	ImageURL      string `json:"image_url"`
	Quantity      int    `json:"quantity"`
	Stock         *int   `json:"stock"`
	Category      string `json:"category"`
	Brand         string `json:"brand"`
}

// Coupon rejection reasons reported in CouponResult.
const (
	ReasonInvalidCode = "invalid_code"
	ReasonNotFound    = "not_found"
	ReasonInactive    = "inactive"
	ReasonExpired     = "expired"
	ReasonMinSubtotal = "min_subtotal"
)

// CouponResult is the discriminated outcome of ApplyCoupon. Business-rule
// rejections land here; only transport failures are returned as errors.
type CouponResult struct {
	Applied bool           `json:"applied"`
	Code    string         `json:"code"`
	Reason  string         `json:"reason,omitempty"`
	Message string         `json:"message,omitempty"`
	Totals  pricing.Totals `json:"totals"`
}

// Engine owns the cart collection for the running process.
type Engine struct {
	mu   sync.Mutex
	cart domain.Cart
	open bool

	store         storage.Store
	catalog       coupon.Catalog
	notifier      notify.Notifier
	producer      *event.Producer
	logger        *slog.Logger
	snapshotKey   string
	lookupTimeout time.Duration
}

// Option customizes engine construction.
type Option func(*Engine)

// WithSnapshotKey overrides the persistence key for the cart snapshot.
func WithSnapshotKey(key string) Option {
	return func(e *Engine) { e.snapshotKey = key }
}

// WithLookupTimeout overrides the coupon catalog lookup timeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(e *Engine) { e.lookupTimeout = d }
}

// WithProducer attaches a domain-event producer observer.
func WithProducer(p *event.Producer) Option {
	return func(e *Engine) { e.producer = p }
}

// NewEngine creates a cart engine with an empty collection. Call Load before
// serving reads so a persisted snapshot is replayed first.
func NewEngine(store storage.Store, catalog coupon.Catalog, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Engine {
	now := time.Now().UTC()
	e := &Engine{
		cart: domain.Cart{
			ID:        uuid.New().String(),
			Items:     []domain.LineItem{},
			CreatedAt: now,
			UpdatedAt: now,
		},
		store:         store,
		catalog:       catalog,
		notifier:      notifier,
		logger:        logger,
		snapshotKey:   DefaultSnapshotKey,
		lookupTimeout: DefaultLookupTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// snapshot is the persisted form of the cart. Decoding tolerates unknown and
// missing fields so older snapshots degrade to defaults instead of failing.
type snapshot struct {
	CartID    string            `json:"cart_id,omitempty"`
	Items     []domain.LineItem `json:"items"`
	Coupon    *domain.Coupon    `json:"coupon,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Load replays the persisted snapshot into memory. An absent snapshot leaves
// the cart empty; read or decode failures are logged and the engine starts
// empty rather than failing.
func (e *Engine) Load(ctx context.Context) error {
	data, err := e.store.Load(ctx, e.snapshotKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			e.logger.WarnContext(ctx, "failed to load cart snapshot, starting empty",
				slog.String("key", e.snapshotKey),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		e.logger.WarnContext(ctx, "corrupt cart snapshot, starting empty",
			slog.String("key", e.snapshotKey),
			slog.String("error", err.Error()),
		)
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if snap.CartID != "" {
		e.cart.ID = snap.CartID
	}
	e.cart.Items = e.cart.Items[:0]
	for _, item := range snap.Items {
		if item.Quantity < 1 {
			continue
		}
		if item.ID == "" {
			item.ID = domain.LineItemID(item.ProductID, item.Size, item.Color)
		}
		e.cart.Items = append(e.cart.Items, item)
	}
	if snap.Coupon != nil && domain.IsValidCouponType(snap.Coupon.Type) {
		c := *snap.Coupon
		c.Code = domain.NormalizeCouponCode(c.Code)
		e.cart.Coupon = &c
	}
	if !snap.UpdatedAt.IsZero() {
		e.cart.UpdatedAt = snap.UpdatedAt
	}

	e.logger.InfoContext(ctx, "cart snapshot restored",
		slog.Int("items", len(e.cart.Items)),
		slog.Bool("coupon", e.cart.Coupon != nil),
	)
	return nil
}

// AddItem adds a product variant to the cart. An existing line item with the
// same (product, size, color) identity has its quantity increased instead of
// a new entry being created; quantities are clamped to known stock. Missing
// required product fields fail loudly; a known-sold-out variant is a
// reported rejection.
func (e *Engine) AddItem(ctx context.Context, input AddItemInput) (domain.LineItem, error) {
	if err := validator.Validate(input); err != nil {
		return domain.LineItem{}, apperrors.InvalidInput(err.Error())
	}

	quantity := input.Quantity
	if quantity < 1 {
		quantity = 1
	}

	stockKnown := input.Stock != nil
	if stockKnown && *input.Stock <= 0 {
		e.notifier.Notify(ctx, notify.KindError, fmt.Sprintf("%s is out of stock", input.Name))
		return domain.LineItem{}, apperrors.OutOfStock(input.ProductID)
	}

	id := domain.LineItemID(input.ProductID, input.Size, input.Color)

	e.mu.Lock()
	idx := e.cart.FindItemIndex(id)
	if idx >= 0 {
		item := &e.cart.Items[idx]
		if stockKnown {
			item.Stock = *input.Stock
		}
		item.Quantity = clampQuantity(item.Quantity+quantity, item.Stock)
		// Refresh reference data in case it changed since the first add.
		item.Price = input.Price
		item.OriginalPrice = input.OriginalPrice
		item.Name = input.Name
		item.SKU = input.SKU
		item.ImageURL = input.ImageURL
	} else {
		stock := 0
		if stockKnown {
			stock = *input.Stock
		}
		e.cart.Items = append(e.cart.Items, domain.LineItem{
			ID:            id,
			ProductID:     input.ProductID,
			Size:          input.Size,
			Color:         input.Color,
			SKU:           input.SKU,
			Name:          input.Name,
			Price:         input.Price,
			OriginalPrice: input.OriginalPrice,
			ImageURL:      input.ImageURL,
			Quantity:      clampQuantity(quantity, stock),
			Stock:         stock,
			Category:      input.Category,
			Brand:         input.Brand,
		})
		idx = len(e.cart.Items) - 1
	}
	e.cart.UpdatedAt = time.Now().UTC()
	added := e.cart.Items[idx]
	e.persist(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, notify.KindSuccess, fmt.Sprintf("%s added to cart", input.Name))
	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "item added to cart",
		slog.String("item_id", added.ID),
		slog.String("product_id", input.ProductID),
		slog.Int("quantity", added.Quantity),
	)

	return added, nil
}

// RemoveItem deletes the line item with the given id. Removing an absent id
// is a no-op.
func (e *Engine) RemoveItem(ctx context.Context, id string) {
	e.mu.Lock()
	idx := e.cart.FindItemIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.cart.Items = append(e.cart.Items[:idx], e.cart.Items[idx+1:]...)
	e.cart.UpdatedAt = time.Now().UTC()
	e.persist(ctx)
	e.mu.Unlock()

	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "item removed from cart", slog.String("item_id", id))
}

// UpdateQuantity sets the quantity of the line item with the given id,
// clamped to the known stock bound. A quantity below 1 removes the item.
// An absent id is a no-op.
func (e *Engine) UpdateQuantity(ctx context.Context, id string, quantity int) {
	if quantity < 1 {
		e.RemoveItem(ctx, id)
		return
	}

	e.mu.Lock()
	idx := e.cart.FindItemIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.cart.Items[idx].Quantity = clampQuantity(quantity, e.cart.Items[idx].Stock)
	e.cart.UpdatedAt = time.Now().UTC()
	e.persist(ctx)
	e.mu.Unlock()

	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "cart item quantity updated",
		slog.String("item_id", id),
		slog.Int("quantity", quantity),
	)
}

// Clear empties the cart and drops any attached coupon.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	cartID := e.cart.ID
	e.cart.Items = []domain.LineItem{}
	e.cart.Coupon = nil
	e.cart.UpdatedAt = time.Now().UTC()
	e.persist(ctx)
	e.mu.Unlock()

	if err := e.producer.PublishCartCleared(ctx, cartID); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("error", err.Error()),
		)
	}

	e.logger.InfoContext(ctx, "cart cleared")
}

// ApplyCoupon validates and attaches the coupon with the given code,
// replacing any previously attached coupon. Business-rule rejections are
// reported in the result; only a catalog transport failure returns an error,
// and the cart is left unchanged in every non-applied case.
func (e *Engine) ApplyCoupon(ctx context.Context, code string) (CouponResult, error) {
	normalized := domain.NormalizeCouponCode(code)
	if !couponCodeRe.MatchString(normalized) {
		e.notifier.Notify(ctx, notify.KindError, "Invalid coupon code")
		return e.rejection(normalized, ReasonInvalidCode, "coupon code is malformed"), nil
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	found, err := e.catalog.FindCoupon(lookupCtx, normalized)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			e.notifier.Notify(ctx, notify.KindError, "Invalid coupon code")
			return e.rejection(normalized, ReasonNotFound, "coupon not found"), nil
		}
		e.notifier.Notify(ctx, notify.KindError, "Could not validate coupon, please try again")
		return CouponResult{}, fmt.Errorf("coupon lookup: %w", err)
	}

	e.mu.Lock()
	subtotal := e.cart.Subtotal()
	ok, reason := pricing.Eligible(found, subtotal, time.Now().UTC())
	if !ok {
		totals := pricing.Calculate(e.cart.Items, e.cart.Coupon)
		e.mu.Unlock()

		e.notifier.Notify(ctx, notify.KindError, rejectionMessage(reason, found))
		return CouponResult{
			Code:    normalized,
			Reason:  reason,
			Message: rejectionMessage(reason, found),
			Totals:  totals,
		}, nil
	}

	attached := *found
	e.cart.Coupon = &attached
	e.cart.UpdatedAt = time.Now().UTC()
	totals := pricing.Calculate(e.cart.Items, e.cart.Coupon)
	e.persist(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, notify.KindSuccess, fmt.Sprintf("Coupon %s applied", normalized))
	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "coupon applied",
		slog.String("code", normalized),
		slog.Int64("discount", totals.Discount),
	)

	return CouponResult{Applied: true, Code: normalized, Totals: totals}, nil
}

// RemoveCoupon detaches the current coupon. A no-op when none is attached.
func (e *Engine) RemoveCoupon(ctx context.Context) {
	e.mu.Lock()
	if e.cart.Coupon == nil {
		e.mu.Unlock()
		return
	}
	code := e.cart.Coupon.Code
	e.cart.Coupon = nil
	e.cart.UpdatedAt = time.Now().UTC()
	e.persist(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, notify.KindInfo, fmt.Sprintf("Coupon %s removed", code))
	e.publishUpdated(ctx)
}

// Open marks the cart UI as visible. Pure presentation state, not persisted.
func (e *Engine) Open() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = true
}

// Close marks the cart UI as hidden.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.open = false
}

// IsOpen reports the cart UI visibility flag.
func (e *Engine) IsOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.open
}

// Items returns a copy of the current line items in insertion order.
func (e *Engine) Items() []domain.LineItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]domain.LineItem, len(e.cart.Items))
	copy(items, e.cart.Items)
	return items
}

// Coupon returns a copy of the attached coupon, or nil.
func (e *Engine) Coupon() *domain.Coupon {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cart.Coupon == nil {
		return nil
	}
	c := *e.cart.Coupon
	return &c
}

// ItemCount returns the sum of quantities across all line items.
func (e *Engine) ItemCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cart.ItemCount()
}

// Totals returns the derived subtotal, discount, and total. Recomputed on
// every call; never stored.
func (e *Engine) Totals() pricing.Totals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return pricing.Calculate(e.cart.Items, e.cart.Coupon)
}

// persist writes the current snapshot. Failures are logged and swallowed:
// the in-memory cart stays authoritative and the next successful write
// resynchronizes durable state. Callers must hold e.mu.
func (e *Engine) persist(ctx context.Context) {
	snap := snapshot{
		CartID:    e.cart.ID,
		Items:     e.cart.Items,
		Coupon:    e.cart.Coupon,
		UpdatedAt: e.cart.UpdatedAt,
	}

	data, err := json.Marshal(snap)
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to marshal cart snapshot",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := e.store.Save(ctx, e.snapshotKey, data); err != nil {
		e.logger.WarnContext(ctx, "failed to persist cart snapshot",
			slog.String("key", e.snapshotKey),
			slog.String("error", err.Error()),
		)
	}
}

// publishUpdated announces the new cart state to observers.
func (e *Engine) publishUpdated(ctx context.Context) {
	e.mu.Lock()
	cart := e.cart
	cart.Items = make([]domain.LineItem, len(e.cart.Items))
	copy(cart.Items, e.cart.Items)
	e.mu.Unlock()

	if err := e.producer.PublishCartUpdated(ctx, &cart); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish cart.updated event",
			slog.String("error", err.Error()),
		)
	}
}

// rejection builds a non-applied result with the current totals.
func (e *Engine) rejection(code, reason, message string) CouponResult {
	e.mu.Lock()
	totals := pricing.Calculate(e.cart.Items, e.cart.Coupon)
	e.mu.Unlock()

	return CouponResult{
		Code:    code,
		Reason:  reason,
		Message: message,
		Totals:  totals,
	}
}

func rejectionMessage(reason string, c *domain.Coupon) string {
	switch reason {
	case ReasonInactive:
		return "This coupon is no longer active"
	case ReasonExpired:
		return "This coupon has expired"
	case ReasonMinSubtotal:
		return fmt.Sprintf("Order subtotal must be at least %d to use this coupon", c.MinValue)
	default:
		return "This coupon cannot be applied"
	}
}

// clampQuantity bounds a quantity to [1, stock] when stock is known (> 0);
// an unknown stock (0) leaves the quantity unclamped.
func clampQuantity(quantity, stock int) int {
	if quantity < 1 {
		return 1
	}
	if stock > 0 && quantity > stock {
		return stock
	}
	return quantity
}
