package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// CartService manages buyers' carts. Pending a cart store, operations
// report domain.ErrNotImplemented.
type CartService struct {
	logger zerolog.Logger
}

func NewCartService(logger zerolog.Logger) *CartService {
	return &CartService{logger: logger}
}

func (s *CartService) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return nil, domain.ErrNotImplemented
}

func (s *CartService) AddItem(ctx context.Context, input ports.AddCartItemInput) (*domain.Cart, error) {
	if input.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	s.logger.Debug().Str("user_id", input.UserID).Str("product_id", input.ProductID).Int("quantity", input.Quantity).Msg("add cart item")
	return nil, domain.ErrNotImplemented
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return nil, domain.ErrNotImplemented
}
