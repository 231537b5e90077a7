package api

import (
	"context"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/storefront/docs"
	"github.com/99minutos/storefront/internal/api/handler"
	"github.com/99minutos/storefront/internal/api/middleware"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
	"github.com/99minutos/storefront/internal/core/service"
	"github.com/99minutos/storefront/internal/infrastructure/http/handlers"
	"github.com/99minutos/storefront/internal/infrastructure/session"
)

// CSRFTokens issues and checks anti-forgery tokens.
type CSRFTokens interface {
	Issue(ctx context.Context, sessionID string) (string, error)
	RequireValid(ctx context.Context, sessionID, token string) error
}

// Deps is everything the router needs. Audit and Readiness are optional.
type Deps struct {
	Log     zerolog.Logger
	Policy  service.AccessPolicy
	Codec   ports.SessionCodec
	CSRF    CSRFTokens
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Cart    ports.CartService
	Orders  ports.OrderService
	Audit   ports.AuditSink
	Cookies handler.CookieConfig

	Readiness *handlers.ReadinessHandler
	// Registry collects the HTTP metrics. Nil selects the global registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if d.Registry != nil {
		registerer, gatherer = d.Registry, d.Registry
	}

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:                 "storefront",
		Subsystem:                 "http",
		Registerer:                registerer,
		DoNotUseRequestPathFor404: true,
	}))
	e.Use(middleware.Gate(middleware.GateConfig{
		Policy:     d.Policy,
		Codec:      d.Codec,
		CookieName: session.CookieName,
		Audit:      d.Audit,
		Log:        d.Log,
	}))

	readiness := d.Readiness
	if readiness == nil {
		readiness = handlers.NewReadinessHandler(nil)
	}
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", readiness.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	pages := handler.NewPageHandler(d.Policy.CallbackParam)
	e.GET("/", pages.Page("home"))
	e.GET("/login", pages.Login("login"))
	e.GET("/admin/login", pages.Login("admin-login"))
	e.GET("/forbidden", pages.Forbidden())
	e.GET("/catalog", pages.Page("catalog"))
	e.GET("/cart", pages.Page("cart"))
	e.GET("/orders", pages.Page("orders"))
	e.GET("/admin", pages.Page("admin"))
	e.GET("/admin/orders", pages.Page("admin-orders"))

	authHandler := handler.NewAuthHandler(d.Auth, d.Codec, d.Audit, d.Cookies)
	csrfHandler := handler.NewCSRFHandler(d.CSRF, d.Cookies)
	catalogHandler := handler.NewCatalogHandler(d.Catalog)
	cartHandler := handler.NewCartHandler(d.Cart)
	orderHandler := handler.NewOrderHandler(d.Orders)

	// Login is the only state-changing call made without a session.
	e.POST("/api/auth/login", authHandler.Login)

	// CSRF is attached per route: group middleware also runs on the group's
	// not-found routes.
	csrf := middleware.CSRF(d.CSRF, d.Audit, d.Log)

	api := e.Group("/api")
	api.POST("/auth/logout", authHandler.Logout, csrf)
	api.GET("/auth/me", authHandler.Me)
	api.GET("/csrf", csrfHandler.Issue)

	api.GET("/catalog/products", catalogHandler.List)
	api.GET("/catalog/products/:id", catalogHandler.Get)

	api.GET("/cart", cartHandler.Get)
	api.POST("/cart/items", cartHandler.AddItem, csrf)
	api.DELETE("/cart/items/:id", cartHandler.RemoveItem, csrf)

	api.GET("/orders", orderHandler.List)
	api.GET("/orders/:id", orderHandler.Get)
	api.POST("/orders", orderHandler.Place, csrf)

	admin := api.Group("/admin", middleware.RBAC(domain.RoleAdmin))
	admin.GET("/orders", orderHandler.AdminList)
	admin.PATCH("/orders/:id/status", orderHandler.UpdateStatus, csrf)

	return e
}
