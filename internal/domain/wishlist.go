package domain

import "time"

// WishlistItem represents a product saved in the wishlist. AddedAt is set at
// insertion and never mutated afterwards.
type WishlistItem struct {
	ID            string    `json:"id"`
	SKU           string    `json:"sku,omitempty"`
	Name          string    `json:"name"`
	Brand         string    `json:"brand,omitempty"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"original_price,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	Category      string    `json:"category,omitempty"`
	AddedAt       time.Time `json:"added_at"`
}

// Wishlist holds the saved items in insertion order.
type Wishlist struct {
	Items []WishlistItem `json:"items"`
}

// FindIndex returns the index of the item with the given ID, or -1.
func (w *Wishlist) FindIndex(id string) int {
	for i := range w.Items {
		if w.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Contains reports whether an item with the given ID is saved.
func (w *Wishlist) Contains(id string) bool {
	return w.FindIndex(id) >= 0
}
