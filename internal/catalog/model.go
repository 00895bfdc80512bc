// File: internal/catalog/model.go
package catalog

import (
	"castlecare_backend/internal/common"
)

// Service tiers offered to homeowners.
const (
	TierOneTime      = "one_time"
	TierSubscription = "subscription"
)

// PricingOption is a bookable service with a fixed price.
type PricingOption struct {
	common.BaseModel
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	PriceCents  int64  `gorm:"not null" json:"price_cents"`
	ServiceType string `gorm:"type:varchar(100);not null;index" json:"service_type"`
	Tier        string `gorm:"type:varchar(50);not null;default:'one_time'" json:"tier"`
	Active      bool   `gorm:"not null;default:true;index" json:"active"`
}

// ServiceArea is a ZIP prefix the company serves. A five-digit ZIP is
// available when any stored prefix matches its leading digits.
type ServiceArea struct {
	common.BaseModel
	ZipPrefix string `gorm:"type:varchar(5);uniqueIndex;not null" json:"zip_prefix"`
	Label     string `gorm:"type:varchar(255)" json:"label"`
}

// CreatePricingOptionRequest is the admin body for adding a pricing option.
type CreatePricingOptionRequest struct {
	Name        string `json:"name" binding:"required,min=3,max=255"`
	Description string `json:"description" binding:"max=5000"`
	PriceCents  int64  `json:"price_cents" binding:"required,gt=0"`
	ServiceType string `json:"service_type" binding:"required,max=100"`
	Tier        string `json:"tier" binding:"omitempty,oneof=one_time subscription"`
}

// AvailabilityResponse is the body for the ZIP availability check.
type AvailabilityResponse struct {
	Zip       string `json:"zip"`
	Available bool   `json:"available"`
	Label     string `json:"label,omitempty"`
}
