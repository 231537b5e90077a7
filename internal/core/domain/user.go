package domain

import (
	"errors"
	"time"
)

// Role is the closed set of principals the storefront knows about.
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAdmin Role = "admin"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
)

// ParseRole returns the Role named by s. Unknown names report false.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleBuyer:
		return RoleBuyer, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// User models an account that can sign in to either site section.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
