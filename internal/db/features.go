package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// FeatureRepository handles lyrical feature database operations.
type FeatureRepository struct {
	pool *pgxpool.Pool
}

const upsertFeatureQuery = `
	INSERT INTO lyrical_features (user_id, track_id, themes, mood, style, grand, grand_presence, language, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
	ON CONFLICT (user_id, track_id) DO UPDATE SET
		themes = EXCLUDED.themes,
		mood = EXCLUDED.mood,
		style = EXCLUDED.style,
		grand = EXCLUDED.grand,
		grand_presence = EXCLUDED.grand_presence,
		language = EXCLUDED.language,
		updated_at = NOW()
`

// GetForTracks returns the feature rows for the given user restricted to the
// given track IDs. Tracks without a feature row are simply absent.
func (r *FeatureRepository) GetForTracks(ctx context.Context, userID uuid.UUID, trackIDs []string) ([]LyricalFeature, error) {
	if len(trackIDs) == 0 {
		return []LyricalFeature{}, nil
	}

	query := `
		SELECT user_id, track_id, themes, mood, style, grand, grand_presence, language, updated_at
		FROM lyrical_features
		WHERE user_id = $1 AND track_id = ANY($2)
	`
	rows, err := r.pool.Query(ctx, query, userID, trackIDs)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	var features []LyricalFeature
	for rows.Next() {
		var f LyricalFeature
		err := rows.Scan(
			&f.UserID, &f.TrackID, &f.Themes,
			&f.Mood, &f.Style, &f.Grand, &f.GrandPresence, &f.Language,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning feature: %w", err)
		}
		features = append(features, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating features: %w", err)
	}
	return features, nil
}

// CommitFeatureWindow upserts a window's feature rows and advances the user's
// cursor to lastSwipeID in a single transaction. Either everything commits or
// nothing does; a failure after partial writes is never observable.
func (db *DB) CommitFeatureWindow(ctx context.Context, userID uuid.UUID, features []LyricalFeature, lastSwipeID int64) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, f := range features {
		_, err := tx.Exec(ctx, upsertFeatureQuery,
			userID, f.TrackID, f.Themes,
			f.Mood, f.Style, f.Grand, f.GrandPresence, f.Language,
		)
		if err != nil {
			return fmt.Errorf("upserting feature for track %s: %w", f.TrackID, err)
		}
	}

	// GREATEST keeps the cursor strictly non-decreasing even if windows are
	// somehow committed out of order by concurrent runs.
	cursorQuery := `
		INSERT INTO taste_cursors (user_id, last_swipe_id, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			last_swipe_id = GREATEST(taste_cursors.last_swipe_id, EXCLUDED.last_swipe_id),
			updated_at = NOW()
	`
	if _, err := tx.Exec(ctx, cursorQuery, userID, lastSwipeID); err != nil {
		return fmt.Errorf("advancing cursor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing feature window: %w", err)
	}
	return nil
}
