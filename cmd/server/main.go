// Command server runs the storefront HTTP API.
//
//	@title			Storefront API
//	@version		1.0
//	@description	Storefront scaffold: cookie sessions, section-aware login redirects and per-session CSRF tokens.
//	@BasePath		/
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/99minutos/storefront/internal/api"
	"github.com/99minutos/storefront/internal/api/handler"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
	"github.com/99minutos/storefront/internal/core/service"
	"github.com/99minutos/storefront/internal/infrastructure/db/mongo"
	"github.com/99minutos/storefront/internal/infrastructure/db/redis"
	httpserver "github.com/99minutos/storefront/internal/infrastructure/http"
	"github.com/99minutos/storefront/internal/infrastructure/http/handlers"
	"github.com/99minutos/storefront/internal/infrastructure/memory"
	"github.com/99minutos/storefront/internal/infrastructure/queue"
	"github.com/99minutos/storefront/internal/infrastructure/session"
	"github.com/99minutos/storefront/internal/pkg/config"
	"github.com/99minutos/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "storefront",
		Caller:  true,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	checks := map[string]handlers.Pinger{}

	var (
		users     ports.AuthRepository
		auditRepo ports.AuditRepository
		seed      bool
	)
	if cfg.Mongo.Enabled {
		db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "storefront"})
		if err != nil {
			return err
		}
		defer func() { _ = mongo.Disconnect(context.Background(), db) }()
		checks["mongodb"] = handlers.MongoPinger(db)

		if users, auditRepo, err = mongoRepositories(ctx, db); err != nil {
			return err
		}
		log.Info().Str("db", cfg.Mongo.Database).Msg("mongodb connected")
	} else {
		users = memory.NewUserRepository()
		auditRepo = memory.NewAuditRepository(0, logger.Component("audit"))
		seed = true
	}

	var store ports.TokenSetStore
	switch cfg.CSRF.Backend {
	case config.BackendRedis:
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		checks["redis"] = handlers.RedisPinger(rdb)
		store = redis.NewTokenStore(rdb, cfg.CSRF.TokenTTL)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("csrf tokens stored in redis")
	default:
		store = memory.NewTokenStore()
		log.Info().Msg("csrf tokens stored in process memory")
	}

	codec, err := sessionCodec(cfg, log)
	if err != nil {
		return err
	}

	csrf := service.NewCSRFService(store, cfg.CSRF.MaxTokens, logger.Component("csrf"))
	auth := service.NewAuthService(users, codec, csrf, logger.Component("auth"))
	if seed {
		if err := seedUsers(ctx, auth, cfg.DemoPassword); err != nil {
			return err
		}
		log.Warn().Msg("mongodb disabled: using in-memory users buyer@example.com and admin@example.com")
	}

	dispatcher := queue.NewAuditDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	workersCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workersCtx)

	e := api.NewRouter(api.Deps{
		Log:     logger.Component("http"),
		Policy:  service.DefaultAccessPolicy(),
		Codec:   codec,
		CSRF:    csrf,
		Auth:    auth,
		Catalog: service.NewCatalogService(logger.Component("catalog")),
		Cart:    service.NewCartService(logger.Component("cart")),
		Orders:  service.NewOrderService(logger.Component("orders")),
		Audit:   dispatcher,
		Cookies: handler.CookieConfig{
			Secure:     cfg.Session.CookieSecure,
			SessionTTL: cfg.Session.TTL,
		},
		Readiness: handlers.NewReadinessHandler(checks),
	})

	srv := httpserver.NewServer(e, cfg.Port, log)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		err = srv.Shutdown(shutdownCtx)
		cancel()
	}

	stopWorkers()
	dispatcher.Wait()
	log.Info().Msg("server stopped")
	return err
}

func mongoRepositories(ctx context.Context, db *gomongo.Database) (ports.AuthRepository, ports.AuditRepository, error) {
	users := mongo.NewAuthRepository(db)
	if err := users.EnsureIndexes(ctx); err != nil {
		return nil, nil, err
	}
	audit := mongo.NewAuditRepository(db)
	if err := audit.EnsureIndexes(ctx); err != nil {
		return nil, nil, err
	}
	return users, audit, nil
}

func sessionCodec(cfg *config.Config, log zerolog.Logger) (ports.SessionCodec, error) {
	if cfg.Session.Secret == "" {
		log.Warn().Msg("SESSION_SECRET not set: session cookies are unsigned")
		return session.JSONCodec{}, nil
	}
	return session.NewSignedCodec(cfg.Session.Secret, cfg.Session.TTL)
}

func seedUsers(ctx context.Context, auth *service.AuthService, password string) error {
	demo := []struct {
		email, name string
		role        domain.Role
	}{
		{"buyer@example.com", "Demo Buyer", domain.RoleBuyer},
		{"admin@example.com", "Demo Admin", domain.RoleAdmin},
	}
	for _, u := range demo {
		if _, err := auth.Register(ctx, u.email, password, u.name, u.role); err != nil && !errors.Is(err, domain.ErrUserExists) {
			return err
		}
	}
	return nil
}
