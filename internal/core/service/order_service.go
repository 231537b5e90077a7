package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// OrderService handles checkout and order tracking. Ownership checks are in
// place; persistence is not, so every operation that would reach storage
// reports domain.ErrNotImplemented.
type OrderService struct {
	logger zerolog.Logger
}

func NewOrderService(logger zerolog.Logger) *OrderService {
	return &OrderService{logger: logger}
}

func (s *OrderService) PlaceOrder(ctx context.Context, input ports.PlaceOrderInput) (*domain.Order, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	s.logger.Debug().Str("user_id", input.UserID).Str("idempotency_key", input.IdempotencyKey).Msg("place order")
	return nil, domain.ErrNotImplemented
}

// GetOrder returns an order visible to id: buyers only see their own.
func (s *OrderService) GetOrder(ctx context.Context, id domain.Identity, orderID string) (*domain.Order, error) {
	if id.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	if orderID == "" {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrNotImplemented
}

func (s *OrderService) ListOrders(ctx context.Context, input ports.ListOrdersInput) (*ports.ListOrdersResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)
	s.logger.Debug().Str("user_id", input.UserID).Int("page", page).Int("limit", limit).Msg("list orders")
	return nil, domain.ErrNotImplemented
}

func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if orderID == "" {
		return nil, domain.ErrOrderNotFound
	}
	return nil, domain.ErrNotImplemented
}
