package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Session SessionConfig
	CSRF    CSRFConfig
	Mongo   MongoConfig
	Redis   RedisConfig

	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`
	DemoPassword string `env:"DEMO_PASSWORD, default=password"`
}

type SessionConfig struct {
	// Secret signs the session cookie. Empty selects the unsigned JSON
	// credential, which is only accepted outside production.
	Secret       string        `env:"SESSION_SECRET"`
	TTL          time.Duration `env:"SESSION_TTL,           default=24h"`
	CookieSecure bool          `env:"SESSION_COOKIE_SECURE, default=false"`
}

type CSRFConfig struct {
	Backend   string        `env:"CSRF_BACKEND,    default=memory"`
	MaxTokens int           `env:"CSRF_MAX_TOKENS, default=10"`
	TokenTTL  time.Duration `env:"CSRF_TOKEN_TTL,  default=24h"`
}

type MongoConfig struct {
	Enabled  bool   `env:"MONGO_ENABLED, default=false"`
	URI      string `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,      default=storefront"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.CSRF.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("config: CSRF_BACKEND must be %q or %q, got %q", BackendMemory, BackendRedis, c.CSRF.Backend)
	}
	if c.CSRF.MaxTokens <= 0 {
		return fmt.Errorf("config: CSRF_MAX_TOKENS must be positive, got %d", c.CSRF.MaxTokens)
	}
	if c.IsProduction() && c.Session.Secret == "" {
		return fmt.Errorf("config: SESSION_SECRET is required in production")
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom reads and validates configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
