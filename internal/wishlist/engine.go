// Package wishlist implements the saved-items engine: a deduplicated,
// insertion-ordered collection mutated only through explicit operations and
// persisted best-effort through the snapshot store.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/velora/storefront/internal/domain"
	"github.com/velora/storefront/internal/event"
	"github.com/velora/storefront/internal/notify"
	"github.com/velora/storefront/internal/storage"
	apperrors "github.com/velora/storefront/pkg/errors"
	"github.com/velora/storefront/pkg/validator"
)

// DefaultSnapshotKey is the persistence key for the wishlist snapshot.
const DefaultSnapshotKey = "storefront:wishlist"

// Outcome describes the effect of a wishlist mutation.
type Outcome string

const (
	// OutcomeAdded means the item was inserted.
	OutcomeAdded Outcome = "added"
	// OutcomeDuplicate means the item was already saved; nothing changed.
	OutcomeDuplicate Outcome = "duplicate"
	// OutcomeRemoved means the item was removed (Toggle only).
	OutcomeRemoved Outcome = "removed"
)

// AddItemInput holds the product reference data for a wishlist entry.
type AddItemInput struct {
	ID            string `json:"id" validate:"required"`
	SKU           string `json:"sku"`
	Name          string `json:"name" validate:"required,min=1,max=500"`
	Brand         string `json:"brand"`
	Price         int64  `json:"price" validate:"gte=0"`
	OriginalPrice int64  `json:"original_price"`
	ImageURL      string `json:"image_url"`
	Category      string `json:"category"`
}

// Engine owns the wishlist collection for the running process.
type Engine struct {
	mu       sync.Mutex
	wishlist domain.Wishlist

	store       storage.Store
	notifier    notify.Notifier
	producer    *event.Producer
	logger      *slog.Logger
	snapshotKey string
}

// Option customizes engine construction.
type Option func(*Engine)

// WithSnapshotKey overrides the persistence key for the wishlist snapshot.
func WithSnapshotKey(key string) Option {
	return func(e *Engine) { e.snapshotKey = key }
}

// WithProducer attaches a domain-event producer observer.
func WithProducer(p *event.Producer) Option {
	return func(e *Engine) { e.producer = p }
}

// NewEngine creates a wishlist engine with an empty collection. Call Load
// before serving reads so a persisted snapshot is replayed first.
func NewEngine(store storage.Store, notifier notify.Notifier, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		wishlist:    domain.Wishlist{Items: []domain.WishlistItem{}},
		store:       store,
		notifier:    notifier,
		logger:      logger,
		snapshotKey: DefaultSnapshotKey,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// snapshot is the persisted form of the wishlist. AddedAt serializes as
// RFC 3339; items are written at second precision so the round trip is
// lossless.
type snapshot struct {
	Items []domain.WishlistItem `json:"items"`
}

// Load replays the persisted snapshot into memory. An absent snapshot leaves
// the wishlist empty; read or decode failures are logged and the engine
// starts empty rather than failing.
func (e *Engine) Load(ctx context.Context) error {
	data, err := e.store.Load(ctx, e.snapshotKey)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			e.logger.WarnContext(ctx, "failed to load wishlist snapshot, starting empty",
				slog.String("key", e.snapshotKey),
				slog.String("error", err.Error()),
			)
		}
		return nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		e.logger.WarnContext(ctx, "corrupt wishlist snapshot, starting empty",
			slog.String("key", e.snapshotKey),
			slog.String("error", err.Error()),
		)
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.wishlist.Items = e.wishlist.Items[:0]
	for _, item := range snap.Items {
		if item.ID == "" || e.wishlist.Contains(item.ID) {
			continue
		}
		e.wishlist.Items = append(e.wishlist.Items, item)
	}

	e.logger.InfoContext(ctx, "wishlist snapshot restored",
		slog.Int("items", len(e.wishlist.Items)),
	)
	return nil
}

// AddItem saves a product. Adding an already-saved id is a reported
// duplicate and performs no mutation. AddedAt is set once at insertion.
func (e *Engine) AddItem(ctx context.Context, input AddItemInput) (Outcome, error) {
	if err := validator.Validate(input); err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}

	e.mu.Lock()
	if e.wishlist.Contains(input.ID) {
		e.mu.Unlock()
		e.notifier.Notify(ctx, notify.KindInfo, fmt.Sprintf("%s is already in your wishlist", input.Name))
		return OutcomeDuplicate, nil
	}

	e.wishlist.Items = append(e.wishlist.Items, domain.WishlistItem{
		ID:            input.ID,
		SKU:           input.SKU,
		Name:          input.Name,
		Brand:         input.Brand,
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		ImageURL:      input.ImageURL,
		Category:      input.Category,
		AddedAt:       time.Now().UTC().Truncate(time.Second),
	})
	e.persist(ctx)
	e.mu.Unlock()

	e.notifier.Notify(ctx, notify.KindSuccess, fmt.Sprintf("%s added to wishlist", input.Name))
	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "item added to wishlist", slog.String("item_id", input.ID))
	return OutcomeAdded, nil
}

// RemoveItem deletes the item with the given id. Removing an absent id is a
// no-op.
func (e *Engine) RemoveItem(ctx context.Context, id string) {
	e.mu.Lock()
	idx := e.wishlist.FindIndex(id)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	e.wishlist.Items = append(e.wishlist.Items[:idx], e.wishlist.Items[idx+1:]...)
	e.persist(ctx)
	e.mu.Unlock()

	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "item removed from wishlist", slog.String("item_id", id))
}

// Toggle removes the item when it is already saved and adds it otherwise:
// the single-control convenience operation behind a "favorite" button.
func (e *Engine) Toggle(ctx context.Context, input AddItemInput) (Outcome, error) {
	e.mu.Lock()
	present := e.wishlist.Contains(input.ID)
	e.mu.Unlock()

	if present {
		e.RemoveItem(ctx, input.ID)
		return OutcomeRemoved, nil
	}
	return e.AddItem(ctx, input)
}

// Contains reports whether an item with the given id is saved. Pure query,
// no side effects.
func (e *Engine) Contains(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wishlist.Contains(id)
}

// Clear empties the wishlist.
func (e *Engine) Clear(ctx context.Context) {
	e.mu.Lock()
	e.wishlist.Items = []domain.WishlistItem{}
	e.persist(ctx)
	e.mu.Unlock()

	e.publishUpdated(ctx)

	e.logger.InfoContext(ctx, "wishlist cleared")
}

// Items returns a copy of the saved items in insertion order.
func (e *Engine) Items() []domain.WishlistItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	items := make([]domain.WishlistItem, len(e.wishlist.Items))
	copy(items, e.wishlist.Items)
	return items
}

// persist writes the current snapshot. Failures are logged and swallowed;
// the in-memory wishlist stays authoritative. Callers must hold e.mu.
func (e *Engine) persist(ctx context.Context) {
	data, err := json.Marshal(snapshot{Items: e.wishlist.Items})
	if err != nil {
		e.logger.ErrorContext(ctx, "failed to marshal wishlist snapshot",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := e.store.Save(ctx, e.snapshotKey, data); err != nil {
		e.logger.WarnContext(ctx, "failed to persist wishlist snapshot",
			slog.String("key", e.snapshotKey),
			slog.String("error", err.Error()),
		)
	}
}

// publishUpdated announces the new wishlist state to observers.
func (e *Engine) publishUpdated(ctx context.Context) {
	e.mu.Lock()
	wl := domain.Wishlist{Items: make([]domain.WishlistItem, len(e.wishlist.Items))}
	copy(wl.Items, e.wishlist.Items)
	e.mu.Unlock()

	if err := e.producer.PublishWishlistUpdated(ctx, &wl); err != nil {
		e.logger.ErrorContext(ctx, "failed to publish wishlist.updated event",
			slog.String("error", err.Error()),
		)
	}
}
