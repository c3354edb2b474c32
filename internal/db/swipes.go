package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SwipeRepository handles swipe log database operations.
type SwipeRepository struct {
	pool *pgxpool.Pool
}

// Append records a new swipe event. Swipes are immutable; the caller gets
// back the assigned ID and timestamp.
func (r *SwipeRepository) Append(ctx context.Context, swipe *Swipe) error {
	query := `
		INSERT INTO swipes (user_id, track_id, direction, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`
	err := r.pool.QueryRow(ctx, query, swipe.UserID, swipe.TrackID, swipe.Direction).
		Scan(&swipe.ID, &swipe.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting swipe: %w", err)
	}
	return nil
}

// LikedAfter returns LIKE swipes with IDs greater than afterID, ascending,
// joined with their track metadata. This feeds the feature extractor.
func (r *SwipeRepository) LikedAfter(ctx context.Context, userID uuid.UUID, afterID int64) ([]SwipeWithTrack, error) {
	query := `
		SELECT s.id, s.user_id, s.track_id, s.direction, s.created_at,
		       t.id, t.title, t.artist, t.image_url, t.preview_url, t.spotify_url, t.created_at
		FROM swipes s
		JOIN tracks t ON t.id = s.track_id
		WHERE s.user_id = $1 AND s.direction = 'LIKE' AND s.id > $2
		ORDER BY s.id ASC
	`
	rows, err := r.pool.Query(ctx, query, userID, afterID)
	if err != nil {
		return nil, fmt.Errorf("querying liked swipes: %w", err)
	}
	defer rows.Close()

	return scanSwipesWithTracks(rows)
}

// Recent returns the most recent swipes for a user, newest first, optionally
// filtered by direction. Limit must be positive.
func (r *SwipeRepository) Recent(ctx context.Context, userID uuid.UUID, direction *Direction, limit int) ([]SwipeWithTrack, error) {
	query := `
		SELECT s.id, s.user_id, s.track_id, s.direction, s.created_at,
		       t.id, t.title, t.artist, t.image_url, t.preview_url, t.spotify_url, t.created_at
		FROM swipes s
		JOIN tracks t ON t.id = s.track_id
		WHERE s.user_id = $1 AND ($2::text IS NULL OR s.direction = $2)
		ORDER BY s.id DESC
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, userID, direction, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent swipes: %w", err)
	}
	defer rows.Close()

	return scanSwipesWithTracks(rows)
}

// Directions returns (track, direction) pairs for all of a user's swipes,
// newest first by swipe ID. The first occurrence of a track is its current
// status (last-swipe-wins).
func (r *SwipeRepository) Directions(ctx context.Context, userID uuid.UUID) ([]TrackDirection, error) {
	query := `
		SELECT track_id, direction
		FROM swipes
		WHERE user_id = $1
		ORDER BY id DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying swipe directions: %w", err)
	}
	defer rows.Close()

	var dirs []TrackDirection
	for rows.Next() {
		var td TrackDirection
		if err := rows.Scan(&td.TrackID, &td.Direction); err != nil {
			return nil, fmt.Errorf("scanning swipe direction: %w", err)
		}
		dirs = append(dirs, td)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating swipe directions: %w", err)
	}
	return dirs, nil
}

func scanSwipesWithTracks(rows pgx.Rows) ([]SwipeWithTrack, error) {
	var swipes []SwipeWithTrack
	for rows.Next() {
		var s SwipeWithTrack
		err := rows.Scan(
			&s.ID, &s.UserID, &s.TrackID, &s.Direction, &s.CreatedAt,
			&s.Track.ID, &s.Track.Title, &s.Track.Artist,
			&s.Track.ImageURL, &s.Track.PreviewURL, &s.Track.SpotifyURL,
			&s.Track.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning swipe: %w", err)
		}
		swipes = append(swipes, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating swipes: %w", err)
	}
	return swipes, nil
}
