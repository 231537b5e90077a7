package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// TokenInvalidator drops every CSRF token of a session.
type TokenInvalidator interface {
	InvalidateAll(ctx context.Context, sessionID string) error
}

// AuthService implements registration, login and logout. Login mints a
// fresh session id every time, so tokens issued to an earlier session of
// the same user never carry over.
type AuthService struct {
	repo   ports.AuthRepository
	codec  ports.SessionCodec
	tokens TokenInvalidator
	log    zerolog.Logger
}

func NewAuthService(repo ports.AuthRepository, codec ports.SessionCodec, tokens TokenInvalidator, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, codec: codec, tokens: tokens, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if _, ok := domain.ParseRole(string(role)); !ok {
		return nil, domain.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		// Unknown accounts and wrong passwords look the same to the client.
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	id := domain.Identity{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: uuid.NewString(),
	}
	credential, err := s.codec.Encode(id)
	if err != nil {
		return nil, fmt.Errorf("login: encode session: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("session_id", id.SessionID).Msg("user logged in")
	return &ports.LoginResult{User: user, Identity: id, Credential: credential}, nil
}

// Logout invalidates the per-session state owned by the server. Clearing
// the credential itself is the transport's job.
func (s *AuthService) Logout(ctx context.Context, id domain.Identity) error {
	if err := s.tokens.InvalidateAll(ctx, id.SessionKey()); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Str("user_id", id.UserID).Str("session_id", id.SessionKey()).Msg("user logged out")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
