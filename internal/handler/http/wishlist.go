package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora/storefront/internal/wishlist"
	"github.com/velora/storefront/pkg/validator"
)

// WishlistHandler handles HTTP requests for wishlist endpoints.
type WishlistHandler struct {
	engine *wishlist.Engine
	logger *slog.Logger
}

// NewWishlistHandler creates a new wishlist HTTP handler.
func NewWishlistHandler(engine *wishlist.Engine, logger *slog.Logger) *WishlistHandler {
	return &WishlistHandler{
		engine: engine,
		logger: logger,
	}
}

type wishlistView struct {
	Items     any `json:"items"`
	ItemCount int `json:"item_count"`
}

type mutationView struct {
	Outcome wishlist.Outcome `json:"outcome"`
	wishlistView
}

type containsView struct {
	ID       string `json:"id"`
	Contains bool   `json:"contains"`
}

func (h *WishlistHandler) view() wishlistView {
	items := h.engine.Items()
	return wishlistView{Items: items, ItemCount: len(items)}
}

// GetWishlist handles GET /api/v1/wishlist
func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// AddItem handles POST /api/v1/wishlist/items
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input wishlist.AddItemInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	outcome, err := h.engine.AddItem(r.Context(), input)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: mutationView{Outcome: outcome, wishlistView: h.view()}})
}

// ToggleItem handles POST /api/v1/wishlist/items/toggle
func (h *WishlistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	var input wishlist.AddItemInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	outcome, err := h.engine.Toggle(r.Context(), input)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
		})
		return
	}

	writeJSON(w, http.StatusOK, response{Data: mutationView{Outcome: outcome, wishlistView: h.view()}})
}

// ContainsItem handles GET /api/v1/wishlist/items/{itemId}
func (h *WishlistHandler) ContainsItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	writeJSON(w, http.StatusOK, response{Data: containsView{
		ID:       itemID,
		Contains: h.engine.Contains(itemID),
	}})
}

// RemoveItem handles DELETE /api/v1/wishlist/items/{itemId}
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	h.engine.RemoveItem(r.Context(), itemID)
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// ClearWishlist handles DELETE /api/v1/wishlist
func (h *WishlistHandler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear(r.Context())
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}
