package ports

import (
	"context"

	"github.com/oltenita/imobilia-market/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// PasswordHasher produces salted one-way digests.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenService issues and verifies signed bearer tokens carrying a subject ID.
type TokenService interface {
	Issue(subjectID string) (string, error)
	// Verify returns the subject ID or an error wrapping domain.ErrTokenInvalid.
	Verify(token string) (string, error)
}
