package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dilekiremozbay/2homework/internal/util"
)

type Storage struct {
	db *sql.DB
	*UserRepository
	*TokenRepository
}

func NewStorage(db *sql.DB) *Storage {
	return &Storage{
		db:              db,
		UserRepository:  NewUserRepository(db),
		TokenRepository: NewTokenRepository(db),
	}
}

// StoreRefreshToken runs the evict-then-append pair in one transaction, so a
// commit never leaves the user above the token bound.
func (s *Storage) StoreRefreshToken(ctx context.Context, userID int64, refreshToken string, createdAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	tokenRepoTx := NewTokenRepository(tx)

	count, err := tokenRepoTx.CountRefreshTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("count refresh tokens in tx: %w", err)
	}

	if count >= util.MaxRefreshTokens {
		if err := tokenRepoTx.DeleteOldestRefreshToken(ctx, userID); err != nil {
			return fmt.Errorf("evict oldest refresh token in tx: %w", err)
		}
	}

	if err := tokenRepoTx.InsertRefreshToken(ctx, userID, refreshToken, createdAt); err != nil {
		return fmt.Errorf("insert refresh token in tx: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
