package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/storage"
	"github.com/dilekiremozbay/2homework/internal/util"
)

// InMemoryStorage implements storage.Storage for tests and local runs
// without a database.
type InMemoryStorage struct {
	mu     sync.RWMutex
	nextID int64
	users  map[string]*models.User
}

func NewStorage() *InMemoryStorage {
	return &InMemoryStorage{
		users: make(map[string]*models.User),
	}
}

func (m *InMemoryStorage) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.Username]; ok {
		return nil, storage.ErrDuplicateUsername
	}

	m.nextID++
	stored := *user
	stored.ID = m.nextID
	m.users[stored.Username] = &stored

	result := stored
	return &result, nil
}

func (m *InMemoryStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	result := *user
	return &result, nil
}

func (m *InMemoryStorage) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ID == id {
			result := *user
			return &result, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (m *InMemoryStorage) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *InMemoryStorage) StoreRefreshToken(_ context.Context, userID int64, refreshToken string, createdAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if user.ID != userID {
			continue
		}
		if len(user.Tokens) >= util.MaxRefreshTokens {
			user.Tokens = user.Tokens[1:]
		}
		m.nextID++
		user.Tokens = append(user.Tokens, models.TokenEntry{
			ID:           m.nextID,
			RefreshToken: refreshToken,
			CreatedAt:    createdAt,
		})
		return nil
	}
	return storage.ErrUserNotFound
}

func (m *InMemoryStorage) GetRefreshTokens(_ context.Context, userID int64) ([]models.TokenEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, user := range m.users {
		if user.ID == userID {
			entries := make([]models.TokenEntry, len(user.Tokens))
			copy(entries, user.Tokens)
			return entries, nil
		}
	}
	return nil, storage.ErrUserNotFound
}
