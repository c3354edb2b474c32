package db

import (
	"context"

	"github.com/google/uuid"
)

// Flat delegation methods so *DB satisfies the pipeline packages' store
// interfaces without each caller holding individual repositories.

// Cursor returns the user's last processed swipe ID (0 if none).
func (db *DB) Cursor(ctx context.Context, userID uuid.UUID) (int64, error) {
	return db.Cursors().Get(ctx, userID)
}

// LikedAfter returns LIKE swipes with IDs greater than afterID, ascending.
func (db *DB) LikedAfter(ctx context.Context, userID uuid.UUID, afterID int64) ([]SwipeWithTrack, error) {
	return db.Swipes().LikedAfter(ctx, userID, afterID)
}

// User retrieves a user by ID.
func (db *DB) User(ctx context.Context, userID uuid.UUID) (*User, error) {
	return db.Users().Get(ctx, userID)
}

// TrackDirections returns (track, direction) pairs newest-first by swipe ID.
func (db *DB) TrackDirections(ctx context.Context, userID uuid.UUID) ([]TrackDirection, error) {
	return db.Swipes().Directions(ctx, userID)
}

// FeaturesForTracks returns feature rows restricted to the given tracks.
func (db *DB) FeaturesForTracks(ctx context.Context, userID uuid.UUID, trackIDs []string) ([]LyricalFeature, error) {
	return db.Features().GetForTracks(ctx, userID, trackIDs)
}

// TasteSnapshot retrieves the user's taste snapshot.
func (db *DB) TasteSnapshot(ctx context.Context, userID uuid.UUID) (*TasteSnapshot, error) {
	return db.Taste().Get(ctx, userID)
}

// UpsertTasteSnapshot writes the snapshot, replacing every derived field.
func (db *DB) UpsertTasteSnapshot(ctx context.Context, snap *TasteSnapshot) error {
	return db.Taste().Upsert(ctx, snap)
}

// RecentSwipes returns the most recent swipes, newest first, optionally
// filtered by direction.
func (db *DB) RecentSwipes(ctx context.Context, userID uuid.UUID, direction *Direction, limit int) ([]SwipeWithTrack, error) {
	return db.Swipes().Recent(ctx, userID, direction, limit)
}

// CreateUser creates a user with the given username.
func (db *DB) CreateUser(ctx context.Context, username string) (*User, error) {
	return db.Users().Create(ctx, username)
}

// UserByUsername retrieves a user by username.
func (db *DB) UserByUsername(ctx context.Context, username string) (*User, error) {
	return db.Users().GetByUsername(ctx, username)
}

// Track retrieves a track by ID.
func (db *DB) Track(ctx context.Context, id string) (*Track, error) {
	return db.Tracks().Get(ctx, id)
}

// UpsertTrack creates or updates a track row.
func (db *DB) UpsertTrack(ctx context.Context, track *Track) error {
	return db.Tracks().Upsert(ctx, track)
}

// AppendSwipe appends one swipe row.
func (db *DB) AppendSwipe(ctx context.Context, swipe *Swipe) error {
	return db.Swipes().Append(ctx, swipe)
}
