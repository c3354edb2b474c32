// Package taste recomputes a user's lyrical taste snapshot from swipe state
// and extracted features.
package taste

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AmirS36/goosechase-music-discovery/internal/completion"
	"github.com/AmirS36/goosechase-music-discovery/internal/db"
)

// Store is the persistence surface the rollup needs.
type Store interface {
	User(ctx context.Context, userID uuid.UUID) (*db.User, error)
	// TrackDirections returns (track, direction) pairs newest-first by swipe ID.
	TrackDirections(ctx context.Context, userID uuid.UUID) ([]db.TrackDirection, error)
	FeaturesForTracks(ctx context.Context, userID uuid.UUID, trackIDs []string) ([]db.LyricalFeature, error)
	TasteSnapshot(ctx context.Context, userID uuid.UUID) (*db.TasteSnapshot, error)
	UpsertTasteSnapshot(ctx context.Context, snap *db.TasteSnapshot) error
}

// AssessmentWriter is the free-text assessment call of the completion service.
type AssessmentWriter interface {
	WriteAssessment(ctx context.Context, input completion.AssessmentInput) (string, error)
}

// Rollup fully recomputes taste snapshots. There is deliberately no
// incremental merge: an unlike must be reflected immediately, without waiting
// for any extraction run.
type Rollup struct {
	store  Store
	writer AssessmentWriter
	log    *slog.Logger
}

// NewRollup creates a rollup service.
func NewRollup(store Store, writer AssessmentWriter, log *slog.Logger) *Rollup {
	return &Rollup{store: store, writer: writer, log: log}
}

// Recompute rebuilds the user's snapshot from scratch and upserts it.
//
// Active likes are the tracks whose most recent swipe is a LIKE. Feature rows
// for now-disliked tracks are excluded by filtering, never deleted. With no
// active likes the snapshot is cleared. An assessment failure falls back to
// the previously stored text rather than aborting.
func (r *Rollup) Recompute(ctx context.Context, userID uuid.UUID) (*db.TasteSnapshot, error) {
	user, err := r.store.User(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	dirs, err := r.store.TrackDirections(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading swipe directions: %w", err)
	}

	activeLikes := activeLikedTracks(dirs)
	if len(activeLikes) == 0 {
		snap := &db.TasteSnapshot{UserID: userID}
		if err := r.store.UpsertTasteSnapshot(ctx, snap); err != nil {
			return nil, fmt.Errorf("clearing snapshot: %w", err)
		}
		return snap, nil
	}

	features, err := r.store.FeaturesForTracks(ctx, userID, activeLikes)
	if err != nil {
		return nil, fmt.Errorf("loading features: %w", err)
	}

	agg := Aggregate(features)

	snap := &db.TasteSnapshot{
		UserID:        userID,
		SampleSize:    agg.SampleSize,
		TopThemes:     agg.TopThemes,
		DominantMood:  agg.DominantMood,
		DominantStyle: agg.DominantStyle,
		GrandStyle:    agg.GrandStyle,
		GrandStyleAvg: agg.GrandStyleAvg,
		LangShares:    agg.LangShares,
	}
	snap.Assessment = r.writeAssessment(ctx, user.Username, agg, userID)

	if err := r.store.UpsertTasteSnapshot(ctx, snap); err != nil {
		return nil, fmt.Errorf("upserting snapshot: %w", err)
	}
	return snap, nil
}

// writeAssessment generates the assessment paragraph, reusing the previously
// stored text (or empty string) when the completion service fails.
func (r *Rollup) writeAssessment(ctx context.Context, username string, agg Aggregates, userID uuid.UUID) string {
	input := completion.AssessmentInput{
		Username:      username,
		SampleSize:    agg.SampleSize,
		TopThemes:     agg.TopThemes,
		GrandStyleAvg: agg.GrandStyleAvg,
		LangShares:    make([]completion.LangShare, len(agg.LangShares)),
	}
	if agg.DominantMood != nil {
		input.DominantMood = *agg.DominantMood
	}
	if agg.DominantStyle != nil {
		input.DominantStyle = *agg.DominantStyle
	}
	if agg.GrandStyle != nil {
		input.GrandStyle = *agg.GrandStyle
	}
	for i, ls := range agg.LangShares {
		input.LangShares[i] = completion.LangShare{Lang: ls.Lang, Share: ls.Share}
	}

	text, err := r.writer.WriteAssessment(ctx, input)
	if err == nil {
		return text
	}

	r.log.Warn("assessment generation failed, keeping prior text",
		slog.String("user_id", userID.String()), slog.String("error", err.Error()))

	prev, prevErr := r.store.TasteSnapshot(ctx, userID)
	if prevErr != nil {
		if !errors.Is(prevErr, db.ErrNotFound) {
			r.log.Warn("loading prior snapshot failed", slog.String("error", prevErr.Error()))
		}
		return ""
	}
	return prev.Assessment
}

// activeLikedTracks applies last-swipe-wins over newest-first pairs and
// returns the tracks whose current status is LIKE.
func activeLikedTracks(dirs []db.TrackDirection) []string {
	seen := make(map[string]struct{}, len(dirs))
	var liked []string
	for _, td := range dirs {
		if _, ok := seen[td.TrackID]; ok {
			continue
		}
		seen[td.TrackID] = struct{}{}
		if td.Direction == db.DirectionLike {
			liked = append(liked, td.TrackID)
		}
	}
	return liked
}
