package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// LoginResult is returned by a successful login. Credential is the encoded
// session value the transport layer stores in the session cookie.
type LoginResult struct {
	User       *domain.User
	Identity   domain.Identity
	Credential string
}

type AuthService interface {
	Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context, id domain.Identity) error
}
