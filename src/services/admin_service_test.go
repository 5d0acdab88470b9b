package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/repositories/mock"
)

func TestAdminRegister_FirstAdmin(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.CreateFunc = func(ctx context.Context, admin *models.Admin) error {
		admin.ID = 1
		return nil
	}
	as := NewAdminServiceWithRepo(repo)

	admin, err := as.Register(context.Background(), "root", "correct-horse")
	require.NoError(t, err)
	require.NotNil(t, admin)

	assert.Equal(t, "root", admin.Username)
	assert.NotEqual(t, "correct-horse", admin.PasswordHash)

	// Stored hash must verify against the original password
	err = bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("correct-horse"))
	assert.NoError(t, err)
}

func TestAdminRegister_ClosedWhenAdminExists(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.CountFunc = func(ctx context.Context) (int, error) {
		return 1, nil
	}
	as := NewAdminServiceWithRepo(repo)

	admin, err := as.Register(context.Background(), "second", "correct-horse")
	assert.Nil(t, admin)
	assert.ErrorIs(t, err, ErrAdminExists)

	// The gate must reject before any write happens
	assert.Empty(t, repo.Calls["Create"])
}

func TestCreateAdmin_Validation(t *testing.T) {
	as := NewAdminServiceWithRepo(mock.NewAdminRepository())

	_, err := as.CreateAdmin(context.Background(), "", "correct-horse")
	assert.Error(t, err)

	_, err = as.CreateAdmin(context.Background(), "root", "short")
	assert.Error(t, err)
}

func TestAdminAuthenticate_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.Admin, error) {
		if username != "root" {
			return nil, errors.New("no rows")
		}
		return &models.Admin{ID: 1, Username: "root", PasswordHash: string(hash)}, nil
	}
	as := NewAdminServiceWithRepo(repo)

	admin, err := as.Authenticate(context.Background(), "root", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, int64(1), admin.ID)
	assert.NotNil(t, admin.LastLogin)
	assert.Len(t, repo.Calls["UpdateLastLogin"], 1)
}

func TestAdminAuthenticate_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)

	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.Admin, error) {
		return &models.Admin{ID: 1, Username: "root", PasswordHash: string(hash)}, nil
	}
	as := NewAdminServiceWithRepo(repo)

	admin, err := as.Authenticate(context.Background(), "root", "wrong")
	assert.Nil(t, admin)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminAuthenticate_UnknownUsername(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.GetByUsernameFunc = func(ctx context.Context, username string) (*models.Admin, error) {
		return nil, errors.New("no rows")
	}
	as := NewAdminServiceWithRepo(repo)

	_, err := as.Authenticate(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteAdmin_NotFound(t *testing.T) {
	repo := mock.NewAdminRepository()
	repo.DeleteFunc = func(ctx context.Context, id int64) (int64, error) {
		return 0, nil
	}
	as := NewAdminServiceWithRepo(repo)

	err := as.DeleteAdmin(context.Background(), 99)
	assert.ErrorIs(t, err, ErrAdminNotFound)
}
