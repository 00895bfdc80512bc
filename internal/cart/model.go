// File: internal/cart/model.go
package cart

// Item is a single service added to a booking cart.
type Item struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Type        string `json:"type"`
}

// Cart is a user's booking cart. One cart per authenticated user,
// last-write-wins across tabs.
type Cart struct {
	Items      []Item `json:"items"`
	TotalItems int    `json:"total_items"`
	TotalCents int64  `json:"total_cents"`
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{Items: []Item{}}
}

func (c *Cart) recompute() {
	c.TotalItems = len(c.Items)
	var total int64
	for _, item := range c.Items {
		total += item.PriceCents
	}
	c.TotalCents = total
}

// AddItemRequest is the body for adding an item.
type AddItemRequest struct {
	ID          string `json:"id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	Type        string `json:"type" binding:"required"`
}

// ReplaceRequest is the body for the full-cart sync call.
type ReplaceRequest struct {
	Items []Item `json:"items" binding:"required"`
}
