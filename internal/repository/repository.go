package repository

import (
	"context"

	"github.com/Ashiksyedmuhammad/React-User-Management/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique identifier.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies an existing user in the store.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their identifier.
	Delete(ctx context.Context, id string) error

	// ListNonAdmins returns one page of non-admin users matching the search
	// term (case-insensitive substring on name or email; empty matches all),
	// newest first, along with the total match count.
	ListNonAdmins(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error)
}
