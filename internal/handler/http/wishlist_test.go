package http

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wishlistItemBody() map[string]any {
	return map[string]any{
		"id":    "prod-7",
		"sku":   "SN-007",
		"name":  "Court Sneaker",
		"brand": "Velora",
		"price": 8999,
	}
}

func TestGetWishlist_Empty(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/wishlist", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, float64(0), data["item_count"])
}

func TestWishlistAddItem(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", wishlistItemBody())

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "added", data["outcome"])
	assert.Equal(t, float64(1), data["item_count"])
}

func TestWishlistAddItem_Duplicate(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", wishlistItemBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", wishlistItemBody())

	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "duplicate", data["outcome"])
	assert.Equal(t, float64(1), data["item_count"])
}

func TestWishlistAddItem_MissingID(t *testing.T) {
	router := newTestRouter(t)

	body := wishlistItemBody()
	delete(body, "id")
	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishlistToggle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items/toggle", wishlistItemBody())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "added", decodeData(t, rec)["outcome"])

	rec = doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items/toggle", wishlistItemBody())
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Equal(t, "removed", data["outcome"])
	assert.Equal(t, float64(0), data["item_count"])
}

func TestWishlistContains(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", wishlistItemBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/wishlist/items/prod-7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeData(t, rec)["contains"])

	rec = doJSON(t, router, http.MethodGet, "/api/v1/wishlist/items/other", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decodeData(t, rec)["contains"])
}

func TestWishlistRemoveItem(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", wishlistItemBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/wishlist/items/prod-7", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeData(t, rec)["item_count"])
}

func TestClearWishlist(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/wishlist/items", wishlistItemBody())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/wishlist", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), decodeData(t, rec)["item_count"])
}
