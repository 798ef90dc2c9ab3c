package storage

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dilekiremozbay/2homework/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already exists")
	ErrSessionNotFound   = errors.New("session not found")
)

type Storage interface {
	UserRepository
	RefreshTokenRepository
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type RefreshTokenRepository interface {
	// StoreRefreshToken appends a token entry for the user, evicting the
	// oldest entry first when the user already holds the maximum.
	StoreRefreshToken(ctx context.Context, userID int64, refreshToken string, createdAt time.Time) error
	GetRefreshTokens(ctx context.Context, userID int64) ([]models.TokenEntry, error)
}

// SessionStore keeps the per-browser fingerprint captured at login.
type SessionStore interface {
	CreateSession(ctx context.Context, sessionID, fingerprint string, ttl time.Duration) error
	GetFingerprint(ctx context.Context, sessionID string) (string, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

// DBTX is satisfied by both *sql.DB and *sql.Tx so repositories can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
