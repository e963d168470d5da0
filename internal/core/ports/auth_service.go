package ports

import (
	"context"

	"github.com/99minutos/club-admin/internal/core/domain"
)

// Claims are the identity facts carried by a bearer token.
type Claims struct {
	UserID   string
	Username string
	Role     domain.Role
}

type AuthService interface {
	// Login reports whether the credentials match a live user and, if so,
	// makes that user the current session. The error is only set when the
	// session could not be persisted.
	Login(ctx context.Context, username, secret string) (bool, error)
	Logout(ctx context.Context) error
	CurrentUser() (*domain.User, bool)
	IssueToken(user *domain.User) (string, error)
	ParseToken(token string) (*Claims, error)
}
