package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/velora/storefront/internal/cart"
	apperrors "github.com/velora/storefront/pkg/errors"
	"github.com/velora/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	engine *cart.Engine
	logger *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(engine *cart.Engine, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		engine: engine,
		logger: logger,
	}
}

// --- Request DTOs ---

// UpdateQuantityRequest is the JSON request body for updating an item's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// ApplyCouponRequest is the JSON request body for applying a coupon.
type ApplyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// --- Response envelope ---

type response struct {
	Data  any            `json:"data,omitempty"`
	Error *errorResponse `json:"error,omitempty"`
}

type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type cartView struct {
	Items     any  `json:"items"`
	ItemCount int  `json:"item_count"`
	Coupon    any  `json:"coupon,omitempty"`
	Totals    any  `json:"totals"`
	Open      bool `json:"open"`
}

func (h *CartHandler) view() cartView {
	v := cartView{
		Items:     h.engine.Items(),
		ItemCount: h.engine.ItemCount(),
		Totals:    h.engine.Totals(),
		Open:      h.engine.IsOpen(),
	}
	if c := h.engine.Coupon(); c != nil {
		v.Coupon = c
	}
	return v
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input cart.AddItemInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if _, err := h.engine.AddItem(r.Context(), input); err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{itemId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	h.engine.UpdateQuantity(r.Context(), itemID, req.Quantity)
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{itemId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	h.engine.RemoveItem(r.Context(), itemID)
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear(r.Context())
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// ApplyCoupon handles POST /api/v1/cart/coupon
func (h *CartHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req ApplyCouponRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		h.writeValidationError(w, err)
		return
	}

	result, err := h.engine.ApplyCoupon(r.Context(), req.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	status := http.StatusOK
	if !result.Applied {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, response{Data: result})
}

// RemoveCoupon handles DELETE /api/v1/cart/coupon
func (h *CartHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	h.engine.RemoveCoupon(r.Context())
	writeJSON(w, http.StatusOK, response{Data: h.view()})
}

// --- Helpers ---

func (h *CartHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, response{
			Error: &errorResponse{Code: appErr.Code, Message: appErr.Message},
		})
		return
	}

	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
		)
		writeJSON(w, status, response{
			Error: &errorResponse{Code: "INTERNAL_ERROR", Message: "an internal error occurred"},
		})
		return
	}

	writeJSON(w, status, response{
		Error: &errorResponse{Code: "REQUEST_FAILED", Message: err.Error()},
	})
}

func (h *CartHandler) writeValidationError(w http.ResponseWriter, err error) {
	var valErr *validator.ValidationError
	if errors.As(err, &valErr) {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "request validation failed",
				Fields:  valErr.Fields(),
			},
		})
		return
	}

	writeJSON(w, http.StatusBadRequest, response{
		Error: &errorResponse{Code: "INVALID_INPUT", Message: err.Error()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent; nothing meaningful can be done if encoding fails.
	_ = json.NewEncoder(w).Encode(v)
}
