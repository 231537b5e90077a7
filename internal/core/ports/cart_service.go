package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// AddCartItemInput adds quantity units of a product to the user's cart.
type AddCartItemInput struct {
	UserID    string
	ProductID string
	Quantity  int
}

// CartService defines use-case operations for a buyer's cart.
type CartService interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, input AddCartItemInput) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
}
