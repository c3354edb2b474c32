package db

import (
	"time"

	"github.com/google/uuid"
)

// Direction is the direction of a swipe.
type Direction string

// Swipe directions.
const (
	DirectionLike    Direction = "LIKE"
	DirectionDislike Direction = "DISLIKE"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionLike || d == DirectionDislike
}

// User represents a registered user.
type User struct {
	ID        uuid.UUID
	Username  string
	CreatedAt time.Time
}

// Track represents canonical track metadata keyed by its catalog ID.
type Track struct {
	ID         string
	Title      string
	Artist     string
	ImageURL   *string // nullable
	PreviewURL *string // nullable
	SpotifyURL *string // nullable
	CreatedAt  time.Time
}

// Swipe is one like/dislike event. The log is append-only: swipes are never
// updated or deleted, and IDs are assigned in creation order.
type Swipe struct {
	ID        int64
	UserID    uuid.UUID
	TrackID   string
	Direction Direction
	CreatedAt time.Time
}

// SwipeWithTrack joins a swipe with its track metadata.
type SwipeWithTrack struct {
	Swipe
	Track Track
}

// TrackDirection is a (track, direction) pair from the swipe log.
type TrackDirection struct {
	TrackID   string
	Direction Direction
}

// LyricalFeature holds per-(user, track) lyrical attributes produced by the
// feature extractor. Rows survive a later dislike; the rollup filters them
// out instead of deleting them.
type LyricalFeature struct {
	UserID        uuid.UUID
	TrackID       string
	Themes        []string
	Mood          *string
	Style         *string
	Grand         *string
	GrandPresence *int // 0..100
	Language      *string
	UpdatedAt     time.Time
}

// LangShare is one language's share of a user's liked tracks.
type LangShare struct {
	Lang  string  `json:"lang"`
	Share float64 `json:"share"`
}

// TasteSnapshot is the single derived summary of a user's lyrical taste.
// It is fully replaced on every recompute.
type TasteSnapshot struct {
	UserID        uuid.UUID
	Assessment    string
	SampleSize    int
	TopThemes     []string
	DominantMood  *string
	DominantStyle *string
	GrandStyle    *string
	GrandStyleAvg *int
	LangShares    []LangShare
	UpdatedAt     time.Time
}
