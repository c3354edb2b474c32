package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TrackRepository handles track database operations.
type TrackRepository struct {
	pool *pgxpool.Pool
}

// Upsert creates or updates a track. Metadata is upserted opportunistically
// whenever it is known: later writes fill fields earlier ones left empty, and
// an empty write never erases known metadata.
func (r *TrackRepository) Upsert(ctx context.Context, track *Track) error {
	query := `
		INSERT INTO tracks (id, title, artist, image_url, preview_url, spotify_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (id) DO UPDATE SET
			title = COALESCE(NULLIF(EXCLUDED.title, ''), tracks.title),
			artist = COALESCE(NULLIF(EXCLUDED.artist, ''), tracks.artist),
			image_url = COALESCE(EXCLUDED.image_url, tracks.image_url),
			preview_url = COALESCE(EXCLUDED.preview_url, tracks.preview_url),
			spotify_url = COALESCE(EXCLUDED.spotify_url, tracks.spotify_url)
		RETURNING created_at
	`
	err := r.pool.QueryRow(ctx, query,
		track.ID,
		track.Title,
		track.Artist,
		track.ImageURL,
		track.PreviewURL,
		track.SpotifyURL,
	).Scan(&track.CreatedAt)
	if err != nil {
		return fmt.Errorf("upserting track: %w", err)
	}
	return nil
}

// Get retrieves a track by ID.
func (r *TrackRepository) Get(ctx context.Context, id string) (*Track, error) {
	query := `
		SELECT id, title, artist, image_url, preview_url, spotify_url, created_at
		FROM tracks
		WHERE id = $1
	`
	var track Track
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&track.ID,
		&track.Title,
		&track.Artist,
		&track.ImageURL,
		&track.PreviewURL,
		&track.SpotifyURL,
		&track.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting track: %w", err)
	}
	return &track, nil
}
