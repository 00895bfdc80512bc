// File: internal/order/model.go
package order

import (
	"github.com/google/uuid"

	"castlecare_backend/internal/common"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
)

// Order is a booking created from a cart at checkout.
type Order struct {
	common.BaseModel
	ExternalUserID string      `gorm:"type:varchar(128);not null;index" json:"user_id"`
	Status         string      `gorm:"type:varchar(50);not null;default:'pending';index" json:"status"`
	TotalCents     int64       `gorm:"not null" json:"total_cents"`
	ContactEmail   string      `gorm:"type:varchar(255)" json:"contact_email"`
	ServiceZip     string      `gorm:"type:varchar(10)" json:"service_zip"`
	Notes          string      `gorm:"type:text" json:"notes,omitempty"`
	Items          []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem is a line captured from the cart at checkout time. Name and price
// are copied so later catalog edits do not rewrite history.
type OrderItem struct {
	common.BaseModel
	OrderID     uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	ItemID      string    `gorm:"type:varchar(128);not null" json:"item_id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null" json:"price_cents"`
	ServiceType string    `gorm:"type:varchar(100)" json:"service_type"`
}

// CheckoutRequest is the body for creating an order from the current cart.
type CheckoutRequest struct {
	ContactEmail string `json:"contact_email" binding:"required,email"`
	ServiceZip   string `json:"service_zip" binding:"required,min=5,max=10"`
	Notes        string `json:"notes" binding:"max=2000"`
}

// UpdateStatusRequest is the admin body for moving an order through its
// lifecycle.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}
