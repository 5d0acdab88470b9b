package mock

import (
	"context"

	"github.com/amosov/userdir/src/models"
	"github.com/amosov/userdir/src/repositories"
)

// UserRepository is a mock implementation of repositories.UserRepository
type UserRepository struct {
	// Function stubs that can be overridden in tests
	CreateFunc             func(ctx context.Context, user *models.User) error
	GetByIDFunc            func(ctx context.Context, id int64) (*models.User, error)
	GetByEmailFunc         func(ctx context.Context, email string) (*models.User, error)
	ExistsTripleFunc       func(ctx context.Context, username, surname, email string) (bool, error)
	UpdateFunc             func(ctx context.Context, id int64, username, surname, contact, email, area string) (int64, error)
	UpdateColumnFunc       func(ctx context.Context, id int64, column, value string) (int64, error)
	UpdatePasswordHashFunc func(ctx context.Context, id int64, hash string) (int64, error)
	DeleteFunc             func(ctx context.Context, id int64) (int64, error)
	SearchFunc             func(ctx context.Context, query string) ([]models.User, error)
	CountFunc              func(ctx context.Context) (int, error)

	// Call tracking
	Calls map[string][]interface{}
}

// NewUserRepository creates a new mock user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		Calls: make(map[string][]interface{}),
	}
}

func (m *UserRepository) Create(ctx context.Context, user *models.User) error {
	m.Calls["Create"] = append(m.Calls["Create"], user)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil
}

func (m *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.Calls["GetByID"] = append(m.Calls["GetByID"], id)
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.Calls["GetByEmail"] = append(m.Calls["GetByEmail"], email)
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *UserRepository) ExistsTriple(ctx context.Context, username, surname, email string) (bool, error) {
	m.Calls["ExistsTriple"] = append(m.Calls["ExistsTriple"], []string{username, surname, email})
	if m.ExistsTripleFunc != nil {
		return m.ExistsTripleFunc(ctx, username, surname, email)
	}
	return false, nil
}

func (m *UserRepository) Update(ctx context.Context, id int64, username, surname, contact, email, area string) (int64, error) {
	m.Calls["Update"] = append(m.Calls["Update"], id)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, username, surname, contact, email, area)
	}
	return 1, nil
}

func (m *UserRepository) UpdateColumn(ctx context.Context, id int64, column, value string) (int64, error) {
	m.Calls["UpdateColumn"] = append(m.Calls["UpdateColumn"], []interface{}{id, column, value})
	if m.UpdateColumnFunc != nil {
		return m.UpdateColumnFunc(ctx, id, column, value)
	}
	return 1, nil
}

func (m *UserRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) (int64, error) {
	m.Calls["UpdatePasswordHash"] = append(m.Calls["UpdatePasswordHash"], id)
	if m.UpdatePasswordHashFunc != nil {
		return m.UpdatePasswordHashFunc(ctx, id, hash)
	}
	return 1, nil
}

func (m *UserRepository) Delete(ctx context.Context, id int64) (int64, error) {
	m.Calls["Delete"] = append(m.Calls["Delete"], id)
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return 1, nil
}

func (m *UserRepository) Search(ctx context.Context, query string) ([]models.User, error) {
	m.Calls["Search"] = append(m.Calls["Search"], query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *UserRepository) Count(ctx context.Context) (int, error) {
	m.Calls["Count"] = append(m.Calls["Count"], nil)
	if m.CountFunc != nil {
		return m.CountFunc(ctx)
	}
	return 0, nil
}

// Ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)
