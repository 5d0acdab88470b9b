package repositories

import (
	"context"

	"github.com/amosov/userdir/src/models"
)

// UserRepository defines the interface for user record data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// ExistsTriple reports whether a user with the exact
	// (username, surname, email) combination already exists
	ExistsTriple(ctx context.Context, username, surname, email string) (bool, error)

	// Update rewrites the editable profile fields and returns the number of
	// affected rows
	Update(ctx context.Context, id int64, username, surname, contact, email, area string) (int64, error)

	// UpdateColumn sets a single column. The column name must come from the
	// services' enumerated field mapping, never from request input.
	UpdateColumn(ctx context.Context, id int64, column, value string) (int64, error)

	UpdatePasswordHash(ctx context.Context, id int64, hash string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)

	// Search performs a case-insensitive substring match across username,
	// surname and email
	Search(ctx context.Context, query string) ([]models.User, error)

	Count(ctx context.Context) (int, error)
}

// AdminRepository defines the interface for admin data access
type AdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
	UpdateLastLogin(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) (int64, error)
}
