package auth

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/repository"
)

type memoryAccounts struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{users: map[primitive.ObjectID]*models.User{}}
}

func (m *memoryAccounts) FindActiveByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccounts) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[oid]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (m *memoryAccounts) ExistsByUsername(_ context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAccounts) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryAccounts) Create(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return nil
}
