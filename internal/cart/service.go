// File: internal/cart/service.go
package cart

import (
	"context"

	"castlecare_backend/internal/common"

	"go.uber.org/zap"
)

// Service implements cart business logic.
type Service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new cart service.
func NewService(repo Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger.Named("CartService")}
}

// Get returns the user's cart, empty if none exists.
func (s *Service) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.repo.Get(ctx, userID)
}

// AddItem appends an item and persists the cart.
func (s *Service) AddItem(ctx context.Context, userID string, item Item) (*Cart, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, existing := range c.Items {
		if existing.ID == item.ID {
			return nil, common.ErrConflict.WithDetails("This service is already in your cart.")
		}
	}
	c.Items = append(c.Items, item)
	c.recompute()
	if err := s.repo.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveItem removes an item by id. Removing an absent item is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) (*Cart, error) {
	c, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	filtered := c.Items[:0]
	for _, item := range c.Items {
		if item.ID != itemID {
			filtered = append(filtered, item)
		}
	}
	c.Items = filtered
	c.recompute()
	if err := s.repo.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Replace overwrites the whole cart with the client's copy. This is the sync
// path; the server copy is last-write-wins by design.
func (s *Service) Replace(ctx context.Context, userID string, items []Item) (*Cart, error) {
	c := NewCart()
	c.Items = items
	if c.Items == nil {
		c.Items = []Item{}
	}
	c.recompute()
	if err := s.repo.Save(ctx, userID, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, userID string) error {
	return s.repo.Delete(ctx, userID)
}
