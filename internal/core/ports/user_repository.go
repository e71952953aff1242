package ports

import (
	"context"

	"github.com/oltenita/imobilia-market/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create stores a new user and returns it with its allocated ID.
	// Returns domain.ErrUserExists when the email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByEmail matches the email exactly. Returns domain.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByID returns domain.ErrUserNotFound for unknown or malformed IDs.
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
