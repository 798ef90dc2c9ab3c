package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/dilekiremozbay/2homework/internal/models"
	"github.com/dilekiremozbay/2homework/internal/storage"
)

type TokenRepository struct {
	db storage.DBTX
}

func NewTokenRepository(db storage.DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) InsertRefreshToken(ctx context.Context, userID int64, refreshToken string, createdAt time.Time) error {
	query := `INSERT INTO refresh_tokens (user_id, token, created_at) VALUES ($1, $2, $3)`
	_, err := r.db.ExecContext(ctx, query, userID, refreshToken, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) CountRefreshTokens(ctx context.Context, userID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM refresh_tokens WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count refresh tokens: %w", err)
	}
	return count, nil
}

// DeleteOldestRefreshToken removes the entry with the lowest id, the FIFO
// eviction victim. The serial id preserves insertion order.
func (r *TokenRepository) DeleteOldestRefreshToken(ctx context.Context, userID int64) error {
	query := `DELETE FROM refresh_tokens WHERE id = (SELECT id FROM refresh_tokens WHERE user_id = $1 ORDER BY id LIMIT 1)`
	_, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to delete oldest refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) GetRefreshTokens(ctx context.Context, userID int64) ([]models.TokenEntry, error) {
	query := `SELECT id, token, created_at FROM refresh_tokens WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get refresh tokens: %w", err)
	}
	defer rows.Close()

	var entries []models.TokenEntry
	for rows.Next() {
		var entry models.TokenEntry
		if err := rows.Scan(&entry.ID, &entry.RefreshToken, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan refresh token: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get refresh tokens: %w", err)
	}
	return entries, nil
}
