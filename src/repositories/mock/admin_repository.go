package mock

import (
	"context"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/repositories"
)

// AdminRepository is a mock implementation of repositories.AdminRepository
type AdminRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc          func(ctx context.Context, admin *models.Admin) error
	GetByUsernameFunc   func(ctx context.Context, username string) (*models.Admin, error)
	CountFunc           func(ctx context.Context) (int, error)
	UpdateLastLoginFunc func(ctx context.Context, id int64) error
	DeleteFunc          func(ctx context.Context, id int64) (int64, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewAdminRepository creates a new mock admin repository
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	m.Calls["Create"] = append(m.Calls["Create"], admin)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, admin)
	}
	return nil
}

func (m *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	m.Calls["GetByUsername"] = append(m.Calls["GetByUsername"], username)
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, nil
}

func (m *AdminRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"] = append(m.Calls["Count"], nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

func (m *AdminRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	m.Calls["UpdateLastLogin"] = append(m.Calls["UpdateLastLogin"], id)
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id)
	}
	return nil
}

func (m *AdminRepository) Delete(ctx context.Context, id int64) (int64, error) {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

// Ensure AdminRepository implements the interface
var _ repositories.AdminRepository = (*AdminRepository)(nil)
