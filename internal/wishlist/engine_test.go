package wishlist

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora/storefront/internal/notify"
	"github.com/velora/storefront/internal/storage"
	apperrors "github.com/velora/storefront/pkg/errors"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestEngine(t *testing.T) (*Engine, *notify.Recorder, *storage.MemoryStore) {
	t.Helper()
	store := storage.NewMemoryStore()
	recorder := notify.NewRecorder()
	engine := NewEngine(store, recorder, newTestLogger())
	return engine, recorder, store
}

func sneakerInput() AddItemInput {
	return AddItemInput{
		ID:    "prod-7",
		SKU:   "SN-007",
		Name:  "Court Sneaker",
		Brand: "Velora",
		Price: 8999,
	}
}

func TestAddItem_Added(t *testing.T) {
	engine, recorder, _ := newTestEngine(t)
	ctx := context.Background()

	outcome, err := engine.AddItem(ctx, sneakerInput())

	require.NoError(t, err)
	assert.Equal(t, OutcomeAdded, outcome)
	assert.True(t, engine.Contains("prod-7"))

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindSuccess, last.Kind)
}

func TestAddItem_DuplicateIsIdempotent(t *testing.T) {
	engine, recorder, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.AddItem(ctx, sneakerInput())
	require.NoError(t, err)
	first := engine.Items()

	outcome, err := engine.AddItem(ctx, sneakerInput())

	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Equal(t, first, engine.Items())

	last, ok := recorder.Last()
	require.True(t, ok)
	assert.Equal(t, notify.KindInfo, last.Kind)
}

func TestAddItem_MissingID(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	input := sneakerInput()
	input.ID = ""

	_, err := engine.AddItem(ctx, input)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddItem_SetsAddedAt(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	before := time.Now().UTC().Truncate(time.Second)
	_, err := engine.AddItem(ctx, sneakerInput())
	require.NoError(t, err)

	items := engine.Items()
	require.Len(t, items, 1)
	assert.False(t, items[0].AddedAt.Before(before))
	assert.Equal(t, items[0].AddedAt, items[0].AddedAt.Truncate(time.Second))
}

func TestRemoveItem(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.AddItem(ctx, sneakerInput())
	require.NoError(t, err)

	engine.RemoveItem(ctx, "prod-7")

	assert.False(t, engine.Contains("prod-7"))
	assert.Empty(t, engine.Items())
}

func TestRemoveItem_AbsentIDIsNoop(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.AddItem(ctx, sneakerInput())
	require.NoError(t, err)

	engine.RemoveItem(ctx, "missing")

	assert.Len(t, engine.Items(), 1)
}

func TestToggle_AddsThenRemoves(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	outcome, err := engine.Toggle(ctx, sneakerInput())
	require.NoError(t, err)
	assert.Equal(t, OutcomeAdded, outcome)
	assert.True(t, engine.Contains("prod-7"))

	outcome, err = engine.Toggle(ctx, sneakerInput())
	require.NoError(t, err)
	assert.Equal(t, OutcomeRemoved, outcome)
	assert.False(t, engine.Contains("prod-7"))
}

func TestItems_InsertionOrder(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		input := sneakerInput()
		input.ID = id
		_, err := engine.AddItem(ctx, input)
		require.NoError(t, err)
	}

	items := engine.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
	assert.Equal(t, "c", items[2].ID)
}

func TestClear(t *testing.T) {
	engine, _, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := engine.AddItem(ctx, sneakerInput())
	require.NoError(t, err)

	engine.Clear(ctx)

	assert.Empty(t, engine.Items())
}

func TestLoad_RoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	recorder := notify.NewRecorder()
	ctx := context.Background()

	first := NewEngine(store, recorder, newTestLogger())
	_, err := first.AddItem(ctx, sneakerInput())
	require.NoError(t, err)
	want := first.Items()

	second := NewEngine(store, recorder, newTestLogger())
	require.NoError(t, second.Load(ctx))

	got := second.Items()
	require.Len(t, got, 1)
	assert.Equal(t, want[0].ID, got[0].ID)
	assert.Equal(t, want[0].Name, got[0].Name)
	assert.True(t, want[0].AddedAt.Equal(got[0].AddedAt))
}

func TestLoad_SkipsDuplicatesAndEmptyIDs(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	snap := []byte(`{"items":[
		{"id":"p1","name":"Shirt","price":1000},
		{"id":"p1","name":"Shirt again","price":1000},
		{"id":"","name":"Ghost","price":500},
		{"id":"p2","name":"Tee","price":500}
	]}`)
	require.NoError(t, store.Save(ctx, DefaultSnapshotKey, snap))

	engine := NewEngine(store, notify.NewRecorder(), newTestLogger())
	require.NoError(t, engine.Load(ctx))

	items := engine.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p1", items[0].ID)
	assert.Equal(t, "p2", items[1].ID)
}

func TestLoad_AbsentSnapshotStartsEmpty(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	require.NoError(t, engine.Load(context.Background()))
	assert.Empty(t, engine.Items())
}
