package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dilekiremozbay/2homework/internal/storage"
)

func newTestSessionStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewSessionStore(client), mr
}

func TestSessionRoundTrip(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, "sid-1", "agent-a", time.Hour))

	fingerprint, err := store.GetFingerprint(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "agent-a", fingerprint)
}

func TestSessionNotFound(t *testing.T) {
	store, _ := newTestSessionStore(t)

	_, err := store.GetFingerprint(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	store, mr := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, "sid-1", "agent-a", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := store.GetFingerprint(ctx, "sid-1")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}

func TestSessionDelete(t *testing.T) {
	store, _ := newTestSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSession(ctx, "sid-1", "agent-a", time.Hour))
	require.NoError(t, store.DeleteSession(ctx, "sid-1"))

	_, err := store.GetFingerprint(ctx, "sid-1")
	assert.ErrorIs(t, err, storage.ErrSessionNotFound)
}
