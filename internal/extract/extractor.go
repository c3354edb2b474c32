// Package extract consumes unprocessed liked swipes in fixed-size windows and
// turns them into lyrical feature rows.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AmirS36/goosechase-music-discovery/internal/completion"
	"github.com/AmirS36/goosechase-music-discovery/internal/db"
)

// DefaultWindowSize is how many liked swipes make up one extraction window.
// One window costs exactly one completion call.
const DefaultWindowSize = 5

// Store is the persistence surface the extractor needs.
type Store interface {
	// Cursor returns the last processed swipe ID for the user (0 if none).
	Cursor(ctx context.Context, userID uuid.UUID) (int64, error)
	// LikedAfter returns LIKE swipes with IDs greater than afterID, ascending.
	LikedAfter(ctx context.Context, userID uuid.UUID, afterID int64) ([]db.SwipeWithTrack, error)
	// CommitFeatureWindow atomically upserts the features and advances the cursor.
	CommitFeatureWindow(ctx context.Context, userID uuid.UUID, features []db.LyricalFeature, lastSwipeID int64) error
}

// Analyzer is the batched extraction call of the completion service.
type Analyzer interface {
	AnalyzeTracks(ctx context.Context, inputs []completion.TrackInput) (map[string]completion.LyricalExtraction, error)
}

// Extractor incrementally extracts lyrical features from the swipe log.
type Extractor struct {
	store      Store
	analyzer   Analyzer
	windowSize int
	log        *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithWindowSize overrides the extraction window size.
func WithWindowSize(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.windowSize = n
		}
	}
}

// New creates an extractor.
func New(store Store, analyzer Analyzer, log *slog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		store:      store,
		analyzer:   analyzer,
		windowSize: DefaultWindowSize,
		log:        log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes as many full windows of unprocessed liked swipes as it can
// and returns how many windows were committed.
//
// Run is safe to call repeatedly: each window commits its features and the
// cursor advance as one atomic unit, so an interrupted run resumes from the
// last fully committed window. A trailing remainder smaller than the window
// size is left for the next invocation. On quota exhaustion or any other
// extraction failure the cursor is left untouched.
func (e *Extractor) Run(ctx context.Context, userID uuid.UUID) (int, error) {
	cursor, err := e.store.Cursor(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("reading cursor: %w", err)
	}

	swipes, err := e.store.LikedAfter(ctx, userID, cursor)
	if err != nil {
		return 0, fmt.Errorf("loading unprocessed likes: %w", err)
	}
	if len(swipes) < e.windowSize {
		return 0, nil
	}

	committed := 0
	for start := 0; start+e.windowSize <= len(swipes); start += e.windowSize {
		window := swipes[start : start+e.windowSize]

		inputs := make([]completion.TrackInput, len(window))
		for i, s := range window {
			inputs[i] = completion.TrackInput{
				TrackID: s.TrackID,
				Title:   s.Track.Title,
				Artist:  s.Track.Artist,
			}
		}

		batch, err := e.analyzer.AnalyzeTracks(ctx, inputs)
		if err != nil {
			if errors.Is(err, completion.ErrQuotaExhausted) {
				e.log.Warn("extraction quota exhausted, stopping run",
					slog.String("user_id", userID.String()),
					slog.Int("windows_committed", committed))
				return committed, err
			}
			return committed, fmt.Errorf("analyzing window: %w", err)
		}

		features := make([]db.LyricalFeature, len(window))
		for i, s := range window {
			features[i] = featureFromExtraction(userID, s.TrackID, batch[s.TrackID])
		}

		lastID := window[len(window)-1].ID
		if err := e.store.CommitFeatureWindow(ctx, userID, features, lastID); err != nil {
			return committed, fmt.Errorf("committing window: %w", err)
		}
		committed++
	}

	return committed, nil
}

// featureFromExtraction builds a feature row. A track missing from the batch
// response still gets a row with empty attributes, so the window stays
// rectangular and the upsert stays idempotent per (user, track).
func featureFromExtraction(userID uuid.UUID, trackID string, ex completion.LyricalExtraction) db.LyricalFeature {
	f := db.LyricalFeature{
		UserID:  userID,
		TrackID: trackID,
		Themes:  ex.Themes,
	}
	if f.Themes == nil {
		f.Themes = []string{}
	}
	if ex.Mood != "" {
		f.Mood = &ex.Mood
	}
	if ex.Style != "" {
		f.Style = &ex.Style
	}
	if ex.Grand != "" {
		f.Grand = &ex.Grand
		pres := ex.GrandPresence
		f.GrandPresence = &pres
	}
	if ex.Language != "" {
		f.Language = &ex.Language
	}
	return f
}
