package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/velora/storefront/pkg/errors"
)

func TestFileStore_SaveAndLoad(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "storefront:cart", []byte(`{"items":[]}`)))

	data, err := store.Load(ctx, "storefront:cart")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"items":[]}`), data)
}

func TestFileStore_LoadMissing(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "missing")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFileStore_OverwriteReplacesSnapshot(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", []byte("v1")))
	require.NoError(t, store.Save(ctx, "k", []byte("v2")))

	data, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), data)
}

func TestFileStore_Delete(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", []byte("v")))
	require.NoError(t, store.Delete(ctx, "k"))

	_, err = store.Load(ctx, "k")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFileStore_DeleteMissingIsNoop(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	assert.NoError(t, store.Delete(context.Background(), "missing"))
}

func TestFileStore_SanitizesKey(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "storefront:cart", []byte("v")))

	_, statErr := os.Stat(filepath.Join(dir, "storefront_cart.json"))
	assert.NoError(t, statErr)
}

func TestFileStore_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
