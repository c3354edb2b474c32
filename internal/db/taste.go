package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TasteRepository handles taste snapshot database operations.
type TasteRepository struct {
	pool *pgxpool.Pool
}

// Get retrieves a user's taste snapshot.
func (r *TasteRepository) Get(ctx context.Context, userID uuid.UUID) (*TasteSnapshot, error) {
	query := `
		SELECT user_id, assessment, sample_size, top_themes,
		       dominant_mood, dominant_style, grand_style, grand_style_avg,
		       lang_shares, updated_at
		FROM taste_snapshots
		WHERE user_id = $1
	`
	var snap TasteSnapshot
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&snap.UserID,
		&snap.Assessment,
		&snap.SampleSize,
		&snap.TopThemes,
		&snap.DominantMood,
		&snap.DominantStyle,
		&snap.GrandStyle,
		&snap.GrandStyleAvg,
		&snap.LangShares,
		&snap.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting taste snapshot: %w", err)
	}
	return &snap, nil
}

// Upsert writes the snapshot, replacing every derived field.
func (r *TasteRepository) Upsert(ctx context.Context, snap *TasteSnapshot) error {
	if snap.TopThemes == nil {
		snap.TopThemes = []string{}
	}
	if snap.LangShares == nil {
		snap.LangShares = []LangShare{}
	}

	query := `
		INSERT INTO taste_snapshots
			(user_id, assessment, sample_size, top_themes,
			 dominant_mood, dominant_style, grand_style, grand_style_avg,
			 lang_shares, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			assessment = EXCLUDED.assessment,
			sample_size = EXCLUDED.sample_size,
			top_themes = EXCLUDED.top_themes,
			dominant_mood = EXCLUDED.dominant_mood,
			dominant_style = EXCLUDED.dominant_style,
			grand_style = EXCLUDED.grand_style,
			grand_style_avg = EXCLUDED.grand_style_avg,
			lang_shares = EXCLUDED.lang_shares,
			updated_at = NOW()
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		snap.UserID,
		snap.Assessment,
		snap.SampleSize,
		snap.TopThemes,
		snap.DominantMood,
		snap.DominantStyle,
		snap.GrandStyle,
		snap.GrandStyleAvg,
		snap.LangShares,
	).Scan(&snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting taste snapshot: %w", err)
	}
	return nil
}
