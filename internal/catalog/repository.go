// File: internal/catalog/repository.go
package catalog

import (
	"context"
	"errors"
	"fmt"

	"castlecare_backend/internal/common"

	"gorm.io/gorm"
)

// Repository defines the interface for catalog data access.
type Repository interface {
	ListPricingOptions(ctx context.Context, serviceType string) ([]PricingOption, error)
	FindPricingOptionBySlug(ctx context.Context, slug string) (*PricingOption, error)
	CreatePricingOption(ctx context.Context, option *PricingOption) error
	FindServiceAreaForZip(ctx context.Context, zip string) (*ServiceArea, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM catalog repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) ListPricingOptions(ctx context.Context, serviceType string) ([]PricingOption, error) {
	var options []PricingOption
	query := r.db.WithContext(ctx).Where("active = ?", true)
	if serviceType != "" {
		query = query.Where("service_type = ?", serviceType)
	}
	if err := query.Order("price_cents asc").Find(&options).Error; err != nil {
		return nil, fmt.Errorf("failed to list pricing options: %w", err)
	}
	return options, nil
}

func (r *gormRepository) FindPricingOptionBySlug(ctx context.Context, slug string) (*PricingOption, error) {
	var option PricingOption
	err := r.db.WithContext(ctx).Where("slug = ? AND active = ?", slug, true).First(&option).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound.WithDetails("Pricing option not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pricing option by slug %s: %w", slug, err)
	}
	return &option, nil
}

func (r *gormRepository) CreatePricingOption(ctx context.Context, option *PricingOption) error {
	if err := r.db.WithContext(ctx).Create(option).Error; err != nil {
		return fmt.Errorf("failed to create pricing option: %w", err)
	}
	return nil
}

// FindServiceAreaForZip matches the ZIP against stored prefixes, longest
// prefix first.
func (r *gormRepository) FindServiceAreaForZip(ctx context.Context, zip string) (*ServiceArea, error) {
	var area ServiceArea
	err := r.db.WithContext(ctx).
		Where("? LIKE zip_prefix || '%'", zip).
		Order("length(zip_prefix) desc").
		First(&area).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to match service area for zip %s: %w", zip, err)
	}
	return &area, nil
}
