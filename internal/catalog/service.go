// File: internal/catalog/service.go
package catalog

import (
	"context"
	"net/http"
	"strings"

	"castlecare_backend/internal/common"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// Service implements catalog business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new catalog service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("CatalogService")}
}

// ListPricingOptions returns active pricing options, optionally filtered by
// service type.
func (s *Service) ListPricingOptions(ctx context.Context, serviceType string) ([]PricingOption, error) {
	return s.repo.ListPricingOptions(ctx, serviceType)
}

// GetPricingOptionBySlug returns a single active pricing option.
func (s *Service) GetPricingOptionBySlug(ctx context.Context, optionSlug string) (*PricingOption, error) {
	return s.repo.FindPricingOptionBySlug(ctx, optionSlug)
}

// CreatePricingOption adds a pricing option. Admin only, enforced at the
// route level.
func (s *Service) CreatePricingOption(ctx context.Context, req CreatePricingOptionRequest) (*PricingOption, error) {
	tier := req.Tier
	if tier == "" {
		tier = TierOneTime
	}
	option := &PricingOption{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Description: req.Description,
		PriceCents:  req.PriceCents,
		ServiceType: strings.ToLower(req.ServiceType),
		Tier:        tier,
		Active:      true,
	}
	if err := s.repo.CreatePricingOption(ctx, option); err != nil {
		s.logger.Error("Failed to create pricing option", zap.String("name", req.Name), zap.Error(err))
		return nil, err
	}
	s.logger.Info("Pricing option created", zap.String("slug", option.Slug))
	return option, nil
}

// CheckAvailability reports whether the company serves the given ZIP.
func (s *Service) CheckAvailability(ctx context.Context, zip string) (*AvailabilityResponse, error) {
	zip = strings.TrimSpace(zip)
	if len(zip) < 5 {
		return nil, common.ErrBadRequest.WithDetails("A five digit ZIP code is required.")
	}
	area, err := s.repo.FindServiceAreaForZip(ctx, zip)
	if err != nil {
		if apiErr, ok := common.IsAPIError(err); ok && apiErr.StatusCode == http.StatusNotFound {
			return &AvailabilityResponse{Zip: zip, Available: false}, nil
		}
		return nil, err
	}
	return &AvailabilityResponse{Zip: zip, Available: true, Label: area.Label}, nil
}
