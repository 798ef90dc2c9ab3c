package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dilekiremozbay/2homework/internal/storage"
)

const sessionKeyPrefix = "session:"

// SessionStore keeps the browser fingerprint captured at login, keyed by
// session id, with the session TTL.
type SessionStore struct {
	client *redis.Client
}

func NewSessionStore(client *redis.Client) *SessionStore {
	return &SessionStore{client: client}
}

func (s *SessionStore) CreateSession(ctx context.Context, sessionID, fingerprint string, ttl time.Duration) error {
	return s.client.Set(ctx, sessionKeyPrefix+sessionID, fingerprint, ttl).Err()
}

func (s *SessionStore) GetFingerprint(ctx context.Context, sessionID string) (string, error) {
	fingerprint, err := s.client.Get(ctx, sessionKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return "", storage.ErrSessionNotFound
	} else if err != nil {
		return "", err
	}
	return fingerprint, nil
}

func (s *SessionStore) DeleteSession(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionKeyPrefix+sessionID).Err()
}
