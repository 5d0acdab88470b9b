package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/repositories/mock"
)

func TestUserRegister_Success(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.CreateFunc = func(ctx context.Context, user *models.User) error {
		user.ID = 1
		return nil
	}
	us := NewUserServiceWithRepo(repo)

	user, err := us.Register(context.Background(), "jane", "smith", "555-0100", "jane@example.com", "north", "hunter2pass")
	require.NoError(t, err)

	assert.Equal(t, "jane", user.Username)
	assert.Equal(t, "smith", user.Surname)

	// The stored hash must verify against the chosen password
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("hunter2pass"))
	assert.NoError(t, err)
}

func TestUserRegister_DuplicateTriple(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.ExistsTripleFunc = func(ctx context.Context, username, surname, email string) (bool, error) {
		return true, nil
	}
	us := NewUserServiceWithRepo(repo)

	user, err := us.Register(context.Background(), "jane", "smith", "", "jane@example.com", "", "hunter2pass")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserExists)

	// No row may be created when the triple already exists
	assert.Empty(t, repo.Calls["Create"])
}

func TestUserRegister_Validation(t *testing.T) {
	us := NewUserServiceWithRepo(mock.NewUserRepository())

	_, err := us.Register(context.Background(), "", "smith", "", "jane@example.com", "", "hunter2pass")
	assert.Error(t, err)

	_, err = us.Register(context.Background(), "jane", "smith", "", "jane@example.com", "", "short")
	assert.Error(t, err)
}

func TestUserCreate_NoCredential(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.CreateFunc = func(ctx context.Context, user *models.User) error {
		user.ID = 2
		return nil
	}
	us := NewUserServiceWithRepo(repo)

	user, err := us.Create(context.Background(), "john", "smith", "", "john@example.com", "south")
	require.NoError(t, err)
	assert.Empty(t, user.PasswordHash)
}

func TestUserAuthenticate_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := mock.NewUserRepository()
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: "jane@example.com", PasswordHash: string(hash)}, nil
	}
	us := NewUserServiceWithRepo(repo)

	user, err := us.Authenticate(context.Background(), "jane@example.com", "hunter2pass")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestUserAuthenticate_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2pass"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := mock.NewUserRepository()
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{ID: 1, Email: "jane@example.com", PasswordHash: string(hash)}, nil
	}
	us := NewUserServiceWithRepo(repo)

	user, err := us.Authenticate(context.Background(), "jane@example.com", "wrong")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUserAuthenticate_NoCredentialYet(t *testing.T) {
	// Admin-created accounts have no stored hash and must never authenticate
	repo := mock.NewUserRepository()
	repo.GetByEmailFunc = func(ctx context.Context, email string) (*models.User, error) {
		return &models.User{ID: 2, Email: "john@example.com", PasswordHash: ""}, nil
	}
	us := NewUserServiceWithRepo(repo)

	_, err := us.Authenticate(context.Background(), "john@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestUpdateField_MapsExternalNames(t *testing.T) {
	repo := mock.NewUserRepository()
	us := NewUserServiceWithRepo(repo)

	err := us.UpdateField(context.Background(), 1, "name", "janet")
	require.NoError(t, err)

	require.Len(t, repo.Calls["UpdateColumn"], 1)
	call := repo.Calls["UpdateColumn"][0].([]interface{})
	assert.Equal(t, "username", call[1])

	err = us.UpdateField(context.Background(), 1, "contact_number", "555-0199")
	require.NoError(t, err)
	call = repo.Calls["UpdateColumn"][1].([]interface{})
	assert.Equal(t, "contact", call[1])
}

func TestUpdateField_RejectsUnknownField(t *testing.T) {
	repo := mock.NewUserRepository()
	us := NewUserServiceWithRepo(repo)

	err := us.UpdateField(context.Background(), 1, "password_hash", "owned")
	assert.ErrorIs(t, err, ErrInvalidField)

	// Nothing may reach the store for a rejected field
	assert.Empty(t, repo.Calls["UpdateColumn"])
}

func TestUpdateField_NotFound(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.UpdateColumnFunc = func(ctx context.Context, id int64, column, value string) (int64, error) {
		return 0, nil
	}
	us := NewUserServiceWithRepo(repo)

	err := us.UpdateField(context.Background(), 99, "area", "west")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestResetPassword(t *testing.T) {
	var storedHash string
	repo := mock.NewUserRepository()
	repo.GetByIDFunc = func(ctx context.Context, id int64) (*models.User, error) {
		return &models.User{ID: id, Email: "jane@example.com"}, nil
	}
	repo.UpdatePasswordHashFunc = func(ctx context.Context, id int64, hash string) (int64, error) {
		storedHash = hash
		return 1, nil
	}
	us := NewUserServiceWithRepo(repo)

	temp, email, err := us.ResetPassword(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", email)
	assert.Len(t, temp, 8)

	// Login with the generated value must succeed against the stored hash
	err = bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(temp))
	assert.NoError(t, err)
}

func TestResetPassword_UserNotFound(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.GetByIDFunc = func(ctx context.Context, id int64) (*models.User, error) {
		return nil, nil
	}
	us := NewUserServiceWithRepo(repo)

	_, _, err := us.ResetPassword(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestDelete_NotFound(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.DeleteFunc = func(ctx context.Context, id int64) (int64, error) {
		return 0, nil
	}
	us := NewUserServiceWithRepo(repo)

	err := us.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSearch_PassesQueryThrough(t *testing.T) {
	repo := mock.NewUserRepository()
	repo.SearchFunc = func(ctx context.Context, query string) ([]models.User, error) {
		return []models.User{{ID: 1, Username: "jane", Surname: "smith"}}, nil
	}
	us := NewUserServiceWithRepo(repo)

	users, err := us.Search(context.Background(), "smith")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "smith", repo.Calls["Search"][0])
}
