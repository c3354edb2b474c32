package resolve

import (
	"context"
	"log/slog"
	"strings"
)

// primarySearchLimit is how many candidates the primary provider is asked for.
const primarySearchLimit = 5

// Cascade resolves free-text (title, artist) pairs through a primary and a
// secondary catalog provider. Resolve never fails for a "no match" condition;
// it degrades to a metadata-only result instead.
type Cascade struct {
	primary   PrimaryProvider
	secondary SecondaryProvider
	log       *slog.Logger
}

// NewCascade creates a resolution cascade.
func NewCascade(primary PrimaryProvider, secondary SecondaryProvider, log *slog.Logger) *Cascade {
	return &Cascade{primary: primary, secondary: secondary, log: log}
}

// Resolve maps a (title, artist) pair to the best playable candidate.
//
// The primary provider is queried first; its best-scoring candidate keeps all
// identity fields. If that candidate lacks a preview asset, the secondary
// provider fills only the missing enrichment fields. If the primary yields
// nothing at all, the secondary's best match is used wholesale. If neither
// yields anything, the original title/artist come back with nil enrichment.
func (c *Cascade) Resolve(ctx context.Context, title, artist string) ResolvedTrack {
	result := ResolvedTrack{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
	}

	normTitle := normalize(title)
	normArtist := normalize(artist)
	query := strings.TrimSpace(result.Title + " " + result.Artist)

	candidates, err := c.primary.SearchTracks(ctx, query, primarySearchLimit)
	if err != nil {
		c.log.Warn("primary provider search failed",
			slog.String("query", query), slog.String("error", err.Error()))
		candidates = nil
	}

	best, ok := pickBest(normTitle, normArtist, candidates)
	if !ok {
		// Primary came up empty; fall back entirely to the secondary.
		if fb := c.secondaryBest(ctx, query); fb != nil {
			applyCandidate(&result, *fb)
		}
		return result
	}

	applyCandidate(&result, best)

	if best.PreviewURL == "" {
		// Keep the primary identity, only fill the holes.
		if fb := c.secondaryBest(ctx, query); fb != nil {
			fillMissing(&result, *fb)
		}
	}

	return result
}

func (c *Cascade) secondaryBest(ctx context.Context, query string) *Candidate {
	fb, err := c.secondary.SearchBest(ctx, query)
	if err != nil {
		c.log.Warn("secondary provider search failed",
			slog.String("query", query), slog.String("error", err.Error()))
		return nil
	}
	return fb
}

// applyCandidate copies a candidate into the result, identity fields included.
func applyCandidate(r *ResolvedTrack, c Candidate) {
	if c.Title != "" {
		r.Title = c.Title
	}
	if c.Artist != "" {
		r.Artist = c.Artist
	}
	if c.ID != "" {
		r.ID = ptr(c.ID)
	}
	fillMissing(r, c)
}

// fillMissing copies only enrichment fields the result does not have yet.
func fillMissing(r *ResolvedTrack, c Candidate) {
	if r.PreviewURL == nil && c.PreviewURL != "" {
		r.PreviewURL = ptr(c.PreviewURL)
	}
	if r.ArtworkURL == nil && c.ArtworkURL != "" {
		r.ArtworkURL = ptr(c.ArtworkURL)
	}
	if r.CanonicalURL == nil && c.CanonicalURL != "" {
		r.CanonicalURL = ptr(c.CanonicalURL)
	}
}

func ptr(s string) *string {
	return &s
}
