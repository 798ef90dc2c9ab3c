package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dilekiremozbay/2homework/internal/storage"
)

type sessionEntry struct {
	fingerprint string
	expiresAt   time.Time
}

// InMemorySessionStore implements storage.SessionStore for tests.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
}

func NewSessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		sessions: make(map[string]sessionEntry),
	}
}

func (m *InMemorySessionStore) CreateSession(_ context.Context, sessionID, fingerprint string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sessionID] = sessionEntry{
		fingerprint: fingerprint,
		expiresAt:   time.Now().Add(ttl),
	}
	return nil
}

func (m *InMemorySessionStore) GetFingerprint(_ context.Context, sessionID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.sessions[sessionID]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", storage.ErrSessionNotFound
	}
	return entry.fingerprint, nil
}

func (m *InMemorySessionStore) DeleteSession(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, sessionID)
	return nil
}
