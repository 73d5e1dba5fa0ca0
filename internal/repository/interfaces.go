package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/prepmate/auth-service/internal/domain"
)

// Duplicate errors are raised by Create when an insert hits one of the
// unique indexes on users. The pre-insert existence checks in the service
// are not race-safe on their own; the index is the authority.
var (
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already registered")
)

// UserRepository looks up and persists user rows. Lookups return
// (nil, nil) when no row matches.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
