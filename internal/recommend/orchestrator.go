// Package recommend composes the suggestion engine, taste snapshot, and
// resolution cascade into recommendation responses.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AmirS36/goosechase-music-discovery/internal/completion"
	"github.com/AmirS36/goosechase-music-discovery/internal/db"
	"github.com/AmirS36/goosechase-music-discovery/internal/resolve"
)

// History caps sent into dedup and personalization.
const (
	MaxCount        = 20
	likeHistoryCap  = 200
	dislikeCap      = 500
	personalizeLike = 50
)

// Store is the persistence surface the orchestrator needs.
type Store interface {
	RecentSwipes(ctx context.Context, userID uuid.UUID, direction *db.Direction, limit int) ([]db.SwipeWithTrack, error)
	TasteSnapshot(ctx context.Context, userID uuid.UUID) (*db.TasteSnapshot, error)
}

// Suggester is the generative suggestion engine.
type Suggester interface {
	SuggestStarterPack(ctx context.Context, limit int) ([]completion.Song, error)
	SuggestSongs(ctx context.Context, req completion.SuggestionRequest) ([]completion.Song, error)
}

// Resolver resolves a free-text candidate to a playable track.
type Resolver interface {
	Resolve(ctx context.Context, title, artist string) resolve.ResolvedTrack
}

// Orchestrator is the top-level recommendation composition.
type Orchestrator struct {
	store     Store
	suggester Suggester
	resolver  Resolver
	log       *slog.Logger
}

// New creates an orchestrator.
func New(store Store, suggester Suggester, resolver Resolver, log *slog.Logger) *Orchestrator {
	return &Orchestrator{store: store, suggester: suggester, resolver: resolver, log: log}
}

// Recommend returns up to count resolved recommendations for the user.
//
// With no like history the cold-start strategy runs (no personalization
// payload); otherwise a personalized batch is requested with a capped slice
// of likes, the taste snapshot, and any mood hint. Candidates already present
// in the like or dislike history are dropped before resolution. Surviving
// candidates resolve concurrently; one that resolves to nothing still appears
// in the output as a metadata-only entry.
func (o *Orchestrator) Recommend(ctx context.Context, userID uuid.UUID, count int, moodHint string) ([]resolve.ResolvedTrack, error) {
	if count < 1 {
		count = 1
	}
	if count > MaxCount {
		count = MaxCount
	}

	likeDir := db.DirectionLike
	likes, err := o.store.RecentSwipes(ctx, userID, &likeDir, likeHistoryCap)
	if err != nil {
		return nil, fmt.Errorf("loading like history: %w", err)
	}

	dislikeDir := db.DirectionDislike
	dislikes, err := o.store.RecentSwipes(ctx, userID, &dislikeDir, dislikeCap)
	if err != nil {
		return nil, fmt.Errorf("loading dislike history: %w", err)
	}

	candidates, err := o.suggest(ctx, userID, likes, count, moodHint)
	if err != nil {
		return nil, fmt.Errorf("requesting suggestions: %w", err)
	}

	candidates = dedup(candidates, likes, dislikes)

	resolved := o.resolveAll(ctx, candidates)

	return shape(resolved, count), nil
}

func (o *Orchestrator) suggest(ctx context.Context, userID uuid.UUID, likes []db.SwipeWithTrack, count int, moodHint string) ([]completion.Song, error) {
	if len(likes) == 0 {
		return o.suggester.SuggestStarterPack(ctx, count)
	}

	req := completion.SuggestionRequest{
		Limit:    count,
		MoodHint: moodHint,
	}
	for i, s := range likes {
		if i >= personalizeLike {
			break
		}
		req.Likes = append(req.Likes, completion.Song{Title: s.Track.Title, Artist: s.Track.Artist})
	}

	snap, err := o.store.TasteSnapshot(ctx, userID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("loading taste snapshot: %w", err)
	}
	if snap != nil {
		req.Taste = tasteSummary(snap)
	}

	return o.suggester.SuggestSongs(ctx, req)
}

func tasteSummary(snap *db.TasteSnapshot) *completion.TasteSummary {
	summary := &completion.TasteSummary{
		TopThemes:     snap.TopThemes,
		GrandStyleAvg: snap.GrandStyleAvg,
	}
	if snap.DominantMood != nil {
		summary.DominantMood = *snap.DominantMood
	}
	if snap.DominantStyle != nil {
		summary.DominantStyle = *snap.DominantStyle
	}
	if snap.GrandStyle != nil {
		summary.GrandStyle = *snap.GrandStyle
	}
	for _, ls := range snap.LangShares {
		summary.LangShares = append(summary.LangShares, completion.LangShare{Lang: ls.Lang, Share: ls.Share})
	}
	return summary
}

// dedup drops candidates whose normalized title+artist key appears in the
// like or dislike history, or earlier in the candidate list. This runs before
// resolution so no provider calls are wasted on already-seen songs.
func dedup(candidates []completion.Song, likes, dislikes []db.SwipeWithTrack) []completion.Song {
	seen := make(map[string]struct{}, len(likes)+len(dislikes)+len(candidates))
	for _, s := range likes {
		seen[historyKey(s.Track.Title, s.Track.Artist)] = struct{}{}
	}
	for _, s := range dislikes {
		seen[historyKey(s.Track.Title, s.Track.Artist)] = struct{}{}
	}

	out := make([]completion.Song, 0, len(candidates))
	for _, c := range candidates {
		key := historyKey(c.Title, c.Artist)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func historyKey(title, artist string) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + strings.ToLower(strings.TrimSpace(artist))
}

// resolveAll resolves candidates concurrently and independently, preserving
// candidate order. Resolve never fails; the request completes once every
// candidate has settled.
func (o *Orchestrator) resolveAll(ctx context.Context, candidates []completion.Song) []resolve.ResolvedTrack {
	resolved := make([]resolve.ResolvedTrack, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range candidates {
		g.Go(func() error {
			resolved[i] = o.resolver.Resolve(gctx, c.Title, c.Artist)
			return nil
		})
	}
	// Resolution goroutines never return errors.
	_ = g.Wait()

	return resolved
}

// shape trims text fields, drops entries missing both title and artist, and
// truncates to the requested count.
func shape(tracks []resolve.ResolvedTrack, count int) []resolve.ResolvedTrack {
	out := make([]resolve.ResolvedTrack, 0, len(tracks))
	for _, t := range tracks {
		t.Title = strings.TrimSpace(t.Title)
		t.Artist = strings.TrimSpace(t.Artist)
		if t.Title == "" && t.Artist == "" {
			continue
		}
		out = append(out, t)
		if len(out) == count {
			break
		}
	}
	return out
}
