package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// ListProductsInput carries the query parameters for the catalog listing.
type ListProductsInput struct {
	Search string
	Page   int // 1-based
	Limit  int // capped by the service
}

// ListProductsResult is one page of products.
type ListProductsResult struct {
	Items []domain.Product
	Page  domain.Page
}

// CatalogService defines read operations on the product catalog.
type CatalogService interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ListProductsResult, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
