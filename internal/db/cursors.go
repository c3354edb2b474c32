package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CursorRepository handles extraction cursor database operations.
//
// The cursor only moves forward, and only inside the same transaction that
// commits the features it unlocks (see DB.CommitFeatureWindow).
type CursorRepository struct {
	pool *pgxpool.Pool
}

// Get returns the user's last processed swipe ID, or 0 if no cursor exists yet.
func (r *CursorRepository) Get(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `SELECT last_swipe_id FROM taste_cursors WHERE user_id = $1`

	var lastID int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&lastID)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting cursor: %w", err)
	}
	return lastID, nil
}
