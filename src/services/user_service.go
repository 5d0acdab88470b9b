package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/repositories"
)

// userFieldColumns maps the externally visible field names accepted by the
// single-field update to their columns. Column names never come from request
// input.
var userFieldColumns = map[string]string{
	"name":           "username",
	"surname":        "surname",
	"email":          "email",
	"contact_number": "contact",
	"area":           "area",
}

// UserFields returns the accepted single-field update names in a stable order
func UserFields() []string {
	return []string{"name", "surname", "email", "contact_number", "area"}
}

// UserService handles directory user operations
type UserService struct {
	pool *pgxpool.Pool
	repo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(pool *pgxpool.Pool) *UserService {
	return &UserService{pool: pool}
}

// NewUserServiceWithRepo creates a new user service with repository (for testing)
func NewUserServiceWithRepo(repo repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Register creates a self-service account. Registration is rejected when a
// user with the same (username, surname, email) combination already exists.
func (us *UserService) Register(ctx context.Context, username, surname, contact, email, area, password string) (*models.User, error) {
	if username == "" || surname == "" || email == "" {
		return nil, errors.New("username, surname and email are required")
	}
	if len(password) < 8 {
		return nil, errors.New("password must be at least 8 characters")
	}

	exists, err := us.existsTriple(ctx, username, surname, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return us.insert(ctx, username, surname, contact, email, area, string(hash))
}

// Create adds a user without a credential (admin add-user). The account
// cannot log in until a temporary password is issued.
func (us *UserService) Create(ctx context.Context, username, surname, contact, email, area string) (*models.User, error) {
	if username == "" || surname == "" || email == "" {
		return nil, errors.New("username, surname and email are required")
	}
	return us.insert(ctx, username, surname, contact, email, area, "")
}

func (us *UserService) insert(ctx context.Context, username, surname, contact, email, area, hash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		Surname:      surname,
		Contact:      contact,
		Email:        email,
		Area:         area,
		PasswordHash: hash,
	}

	if us.repo != nil {
		if err := us.repo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		return user, nil
	}

	query := `
		INSERT INTO users (username, surname, contact, email, area, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := us.pool.QueryRow(ctx, query, username, surname, contact, email, area, hash).Scan(
		&user.ID, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (us *UserService) existsTriple(ctx context.Context, username, surname, email string) (bool, error) {
	if us.repo != nil {
		return us.repo.ExistsTriple(ctx, username, surname, email)
	}

	var count int
	err := us.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE username = $1 AND surname = $2 AND email = $3`,
		username, surname, email,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing users: %w", err)
	}
	return count > 0, nil
}

// Authenticate verifies email and password. An account without a stored
// credential can never authenticate.
func (us *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := us.getByEmail(ctx, email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (us *UserService) getByEmail(ctx context.Context, email string) (*models.User, error) {
	if us.repo != nil {
		user, err := us.repo.GetByEmail(ctx, email)
		if err != nil || user == nil {
			return nil, ErrUserNotFound
		}
		return user, nil
	}

	query := `
		SELECT id, username, surname, contact, email, area, password_hash, created_at, updated_at
		FROM users
		WHERE lower(email) = lower($1)
	`

	user := &models.User{}
	err := us.pool.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Username, &user.Surname, &user.Contact, &user.Email,
		&user.Area, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a user by id
func (us *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if us.repo != nil {
		user, err := us.repo.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return user, nil
	}

	query := `
		SELECT id, username, surname, contact, email, area, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := us.pool.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Username, &user.Surname, &user.Contact, &user.Email,
		&user.Area, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update rewrites the editable profile fields of a user
func (us *UserService) Update(ctx context.Context, id int64, username, surname, contact, email, area string) error {
	var affected int64
	var err error

	if us.repo != nil {
		affected, err = us.repo.Update(ctx, id, username, surname, contact, email, area)
	} else {
		tag, execErr := us.pool.Exec(ctx, `
			UPDATE users
			SET username = $1, surname = $2, contact = $3, email = $4, area = $5, updated_at = now()
			WHERE id = $6
		`, username, surname, contact, email, area, id)
		if execErr != nil {
			err = execErr
		} else {
			affected = tag.RowsAffected()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdateField sets a single editable field named by its external name.
// Unknown names are rejected before any SQL is built.
func (us *UserService) UpdateField(ctx context.Context, id int64, field, value string) error {
	column, ok := userFieldColumns[field]
	if !ok {
		return ErrInvalidField
	}

	var affected int64
	var err error

	if us.repo != nil {
		affected, err = us.repo.UpdateColumn(ctx, id, column, value)
	} else {
		// column comes from the fixed mapping above, never from the caller
		query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = now() WHERE id = $2`, column)
		tag, execErr := us.pool.Exec(ctx, query, value, id)
		if execErr != nil {
			err = execErr
		} else {
			affected = tag.RowsAffected()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to update user field: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// ResetPassword generates a temporary password for the user, overwrites the
// stored hash and returns the plaintext value together with the user's email
// so the caller can deliver it
func (us *UserService) ResetPassword(ctx context.Context, id int64) (tempPassword, email string, err error) {
	user, err := us.GetByID(ctx, id)
	if err != nil {
		return "", "", err
	}

	tempPassword = GenerateTempPassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash temporary password: %w", err)
	}

	var affected int64
	if us.repo != nil {
		affected, err = us.repo.UpdatePasswordHash(ctx, id, string(hash))
	} else {
		tag, execErr := us.pool.Exec(ctx,
			`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
			string(hash), id,
		)
		if execErr != nil {
			err = execErr
		} else {
			affected = tag.RowsAffected()
		}
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to store temporary password: %w", err)
	}
	if affected == 0 {
		return "", "", ErrUserNotFound
	}

	return tempPassword, user.Email, nil
}

// Delete removes a user by id
func (us *UserService) Delete(ctx context.Context, id int64) error {
	var affected int64
	var err error

	if us.repo != nil {
		affected, err = us.repo.Delete(ctx, id)
	} else {
		tag, execErr := us.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if execErr != nil {
			err = execErr
		} else {
			affected = tag.RowsAffected()
		}
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Search performs a case-insensitive substring match across username,
// surname and email
func (us *UserService) Search(ctx context.Context, query string) ([]models.User, error) {
	if us.repo != nil {
		return us.repo.Search(ctx, query)
	}

	pattern := "%" + query + "%"
	rows, err := us.pool.Query(ctx, `
		SELECT id, username, surname, contact, email, area, password_hash, created_at, updated_at
		FROM users
		WHERE username ILIKE $1 OR surname ILIKE $1 OR email ILIKE $1
		ORDER BY id
	`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(
			&user.ID, &user.Username, &user.Surname, &user.Contact, &user.Email,
			&user.Area, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}

// Count returns the total number of users in the directory
func (us *UserService) Count(ctx context.Context) (int, error) {
	if us.repo != nil {
		return us.repo.Count(ctx)
	}

	var count int
	if err := us.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
