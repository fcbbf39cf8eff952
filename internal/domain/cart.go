package domain

import (
	"fmt"
	"time"
)

// LineItem represents one purchasable entry in the cart: a specific product
// variant and its quantity. Prices are in cents.
type LineItem struct {
	ID            string `json:"id"`
	ProductID     string `json:"product_id"`
	Size          string `json:"size,omitempty"`
	Color         string `json:"color,omitempty"`
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	Price         int64  `json:"price"`
	OriginalPrice int64  `json:"original_price,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	Quantity      int    `json:"quantity"`
	Stock         int    `json:"stock,omitempty"`
	Category      string `json:"category,omitempty"`
	Brand         string `json:"brand,omitempty"`
}

// LineItemID derives the stable identity for a product variant. Two line
// items are the same cart entry exactly when this value matches.
func LineItemID(productID, size, color string) string {
	return fmt.Sprintf("%s:%s:%s", productID, size, color)
}

// Cart holds the ordered line-item collection and the attached coupon, if any.
type Cart struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"items"`
	Coupon    *Coupon    `json:"coupon,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FindItemIndex returns the index of the line item with the given ID, or -1.
func (c *Cart) FindItemIndex(id string) int {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// ItemCount returns the sum of quantities across all line items.
func (c *Cart) ItemCount() int {
	var count int
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of price times quantity over all items, in cents.
func (c *Cart) Subtotal() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Price * int64(item.Quantity)
	}
	return total
}
