package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// CatalogService is the product catalog. Product storage has not been
// chosen yet, so every operation reports domain.ErrNotImplemented after
// normalising its input.
type CatalogService struct {
	logger zerolog.Logger
}

func NewCatalogService(logger zerolog.Logger) *CatalogService {
	return &CatalogService{logger: logger}
}

func (s *CatalogService) ListProducts(ctx context.Context, input ports.ListProductsInput) (*ports.ListProductsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)
	s.logger.Debug().Int("page", page).Int("limit", limit).Str("search", input.Search).Msg("list products")
	return nil, domain.ErrNotImplemented
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, domain.ErrProductNotFound
	}
	return nil, domain.ErrNotImplemented
}

// normalizePage applies the listing defaults: page is 1-based and limit is
// capped at maxPageLimit.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
