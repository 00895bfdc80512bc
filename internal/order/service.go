// File: internal/order/service.go
package order

import (
	"context"

	"castlecare_backend/internal/cart"
	"castlecare_backend/internal/common"

	"go.uber.org/zap"
)

// Service implements order business logic.
type Service struct {
	repo        Repository
	cartService *cart.Service
	logger      *zap.Logger
}

// NewService creates a new order service.
func NewService(repo Repository, cartService *cart.Service, logger *zap.Logger) *Service {
	return &Service{repo: repo, cartService: cartService, logger: logger.Named("OrderService")}
}

// Checkout turns the user's current cart into a pending order and clears the
// cart. An empty cart cannot be checked out.
func (s *Service) Checkout(ctx context.Context, externalUserID string, req CheckoutRequest) (*Order, error) {
	userCart, err := s.cartService.Get(ctx, externalUserID)
	if err != nil {
		return nil, err
	}
	if len(userCart.Items) == 0 {
		return nil, common.ErrBadRequest.WithDetails("Your cart is empty.")
	}

	o := &Order{
		ExternalUserID: externalUserID,
		Status:         StatusPending,
		TotalCents:     userCart.TotalCents,
		ContactEmail:   req.ContactEmail,
		ServiceZip:     req.ServiceZip,
		Notes:          req.Notes,
	}
	for _, item := range userCart.Items {
		o.Items = append(o.Items, OrderItem{
			ItemID:      item.ID,
			Name:        item.Name,
			Description: item.Description,
			PriceCents:  item.PriceCents,
			ServiceType: item.Type,
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.logger.Error("Failed to create order", zap.String("userId", externalUserID), zap.Error(err))
		return nil, err
	}

	// Cart cleanup is best effort; the order is already durable.
	if err := s.cartService.Clear(ctx, externalUserID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("userId", externalUserID), zap.Error(err))
	}

	s.logger.Info("Order created",
		zap.String("orderId", o.ID.String()), zap.String("userId", externalUserID))
	return o, nil
}

// Get returns one of the user's orders. Admins may read any order.
func (s *Service) Get(ctx context.Context, externalUserID, role, orderID string) (*Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ExternalUserID != externalUserID && role != common.RoleAdmin {
		return nil, common.ErrForbidden
	}
	return o, nil
}

// List returns the user's orders, newest first.
func (s *Service) List(ctx context.Context, externalUserID string, pq common.PaginationQuery) ([]Order, *common.Pagination, error) {
	orders, total, err := s.repo.FindByUser(ctx, externalUserID, pq)
	if err != nil {
		return nil, nil, err
	}
	return orders, common.NewPagination(total, pq.Page, pq.PageSize), nil
}

// SetStatus moves an order through its lifecycle. Admin only, enforced at the
// route level. Terminal states never transition again.
func (s *Service) SetStatus(ctx context.Context, orderID, status string) (*Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.Status == StatusCancelled || o.Status == StatusCompleted {
		return nil, common.ErrConflict.WithDetails("This order has already reached a final state.")
	}
	if status == StatusCompleted && o.Status != StatusConfirmed {
		return nil, common.ErrConflict.WithDetails("Only confirmed orders can be completed.")
	}
	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	s.logger.Info("Order status updated",
		zap.String("orderId", orderID), zap.String("status", status))
	o.Status = status
	return o, nil
}

// Cancel moves a pending order to cancelled. Only the owner may cancel, and
// only while the order is still pending.
func (s *Service) Cancel(ctx context.Context, externalUserID, orderID string) (*Order, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ExternalUserID != externalUserID {
		return nil, common.ErrForbidden
	}
	if o.Status != StatusPending {
		return nil, common.ErrConflict.WithDetails("Only pending orders can be cancelled.")
	}
	if err := s.repo.UpdateStatus(ctx, orderID, StatusCancelled); err != nil {
		return nil, err
	}
	o.Status = StatusCancelled
	return o, nil
}
