package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// ListOrdersInput carries the parameters for listing orders.
// UserID scopes the list to one buyer; empty means every order (admin).
type ListOrdersInput struct {
	UserID string
	Status string
	Page   int
	Limit  int
}

// ListOrdersResult is one page of orders.
type ListOrdersResult struct {
	Items []domain.Order
	Page  domain.Page
}

// PlaceOrderInput checks out the user's current cart.
type PlaceOrderInput struct {
	UserID         string
	IdempotencyKey string
}

// OrderService defines use-case operations for orders.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id domain.Identity, orderID string) (*domain.Order, error)
	ListOrders(ctx context.Context, input ListOrdersInput) (*ListOrdersResult, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error)
}
