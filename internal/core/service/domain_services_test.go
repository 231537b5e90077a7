package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

func TestCatalogService_NotImplemented(t *testing.T) {
	svc := NewCatalogService(zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.ListProducts(ctx, ports.ListProductsInput{Page: -1, Limit: 1000}); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, "p1"); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := svc.GetProduct(ctx, ""); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestCartService_RequiresUser(t *testing.T) {
	svc := NewCartService(zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.GetCart(ctx, ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.AddItem(ctx, ports.AddCartItemInput{UserID: "u1", ProductID: "p1", Quantity: 1}); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := svc.RemoveItem(ctx, "u1", "p1"); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestOrderService_Guards(t *testing.T) {
	svc := NewOrderService(zerolog.Nop())
	ctx := context.Background()
	buyer := domain.Identity{UserID: "u1", Role: domain.RoleBuyer}

	if _, err := svc.PlaceOrder(ctx, ports.PlaceOrderInput{}); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if _, err := svc.GetOrder(ctx, buyer, ""); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if _, err := svc.GetOrder(ctx, buyer, "o1"); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := svc.ListOrders(ctx, ports.ListOrdersInput{UserID: "u1"}); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "o1", domain.OrderShipped); !errors.Is(err, domain.ErrNotImplemented) {
		t.Fatalf("expected ErrNotImplemented, got %v", err)
	}
}

func TestNormalizePage(t *testing.T) {
	cases := []struct{ page, limit, wantPage, wantLimit int }{
		{0, 0, 1, defaultPageLimit},
		{-3, 5, 1, 5},
		{2, 500, 2, maxPageLimit},
	}
	for _, c := range cases {
		p, l := normalizePage(c.page, c.limit)
		if p != c.wantPage || l != c.wantLimit {
			t.Fatalf("normalizePage(%d,%d) = %d,%d want %d,%d", c.page, c.limit, p, l, c.wantPage, c.wantLimit)
		}
	}
}
