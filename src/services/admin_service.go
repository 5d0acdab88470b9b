package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/repositories"
)

// AdminService handles admin account operations
type AdminService struct {
	pool *pgxpool.Pool
	repo repositories.AdminRepository
}

// NewAdminService creates a new admin service
func NewAdminService(pool *pgxpool.Pool) *AdminService {
	return &AdminService{pool: pool}
}

// NewAdminServiceWithRepo creates a new admin service with repository (for testing)
func NewAdminServiceWithRepo(repo repositories.AdminRepository) *AdminService {
	return &AdminService{repo: repo}
}

// HasAdmins checks if any admin accounts exist
func (as *AdminService) HasAdmins(ctx context.Context) (bool, error) {
	var count int
	var err error

	if as.repo != nil {
		count, err = as.repo.Count(ctx)
	} else {
		err = as.pool.QueryRow(ctx, "SELECT COUNT(*) FROM admins").Scan(&count)
	}
	if err != nil {
		return false, fmt.Errorf("failed to check admins: %w", err)
	}
	return count > 0, nil
}

// Register creates the first admin account. It refuses to create a second
// one: the registration route is only open while the admins table is empty.
func (as *AdminService) Register(ctx context.Context, username, password string) (*models.Admin, error) {
	hasAdmins, err := as.HasAdmins(ctx)
	if err != nil {
		return nil, err
	}
	if hasAdmins {
		return nil, ErrAdminExists
	}
	return as.CreateAdmin(ctx, username, password)
}

// CreateAdmin creates an admin account with a hashed password
func (as *AdminService) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	// Validate input
	if len(username) < 1 || len(username) > 255 {
		return nil, errors.New("username must be between 1 and 255 characters")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	// Hash password with bcrypt
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	// Use repository if available (for testing)
	if as.repo != nil {
		if err := as.repo.Create(ctx, admin); err != nil {
			return nil, fmt.Errorf("failed to create admin: %w", err)
		}
		return admin, nil
	}

	query := `
		INSERT INTO admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`

	err = as.pool.QueryRow(ctx, query, username, string(hash)).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

// Authenticate verifies username and password
func (as *AdminService) Authenticate(ctx context.Context, username, password string) (*models.Admin, error) {
	var admin *models.Admin
	var err error

	if as.repo != nil {
		admin, err = as.repo.GetByUsername(ctx, username)
		if err != nil || admin == nil {
			return nil, ErrInvalidCredentials
		}
	} else {
		query := `
			SELECT id, username, password_hash, created_at, last_login
			FROM admins
			WHERE username = $1
		`

		admin = &models.Admin{}
		err = as.pool.QueryRow(ctx, query, username).Scan(
			&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt, &admin.LastLogin,
		)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	// Compare password hash
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Update last_login timestamp; a failure here must not fail the login
	now := time.Now()
	if as.repo != nil {
		err = as.repo.UpdateLastLogin(ctx, admin.ID)
	} else {
		_, err = as.pool.Exec(ctx, `UPDATE admins SET last_login = $1 WHERE id = $2`, now, admin.ID)
	}
	if err != nil {
		log.Warn().Err(err).Str("username", admin.Username).Msg("failed to update last_login")
	}

	admin.LastLogin = &now
	return admin, nil
}

// GetByUsername retrieves an admin by username
func (as *AdminService) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if as.repo != nil {
		admin, err := as.repo.GetByUsername(ctx, username)
		if err != nil || admin == nil {
			return nil, ErrAdminNotFound
		}
		return admin, nil
	}

	query := `
		SELECT id, username, password_hash, created_at, last_login
		FROM admins
		WHERE username = $1
	`

	admin := &models.Admin{}
	err := as.pool.QueryRow(ctx, query, username).Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt, &admin.LastLogin,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to get admin: %w", err)
	}

	return admin, nil
}

// DeleteAdmin removes an admin account by id
func (as *AdminService) DeleteAdmin(ctx context.Context, id int64) error {
	var affected int64
	var err error

	if as.repo != nil {
		affected, err = as.repo.Delete(ctx, id)
	} else {
		tag, execErr := as.pool.Exec(ctx, `DELETE FROM admins WHERE id = $1`, id)
		if execErr != nil {
			err = execErr
		} else {
			affected = tag.RowsAffected()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to delete admin: %w", err)
	}
	if affected == 0 {
		return ErrAdminNotFound
	}
	return nil
}
