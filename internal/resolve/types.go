// Package resolve turns free-text (title, artist) pairs into playable track
// candidates via a confidence-scored multi-provider search cascade.
package resolve

import "context"

// Candidate is one search result from a catalog provider.
type Candidate struct {
	ID           string
	Title        string
	Artist       string
	PreviewURL   string
	ArtworkURL   string
	CanonicalURL string
}

// ResolvedTrack is the cascade's output. Title and artist always carry the
// original query values when nothing better was found; enrichment fields are
// nil when no provider produced them.
type ResolvedTrack struct {
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	ID           *string `json:"id"`
	PreviewURL   *string `json:"previewUrl"`
	ArtworkURL   *string `json:"imageUrl"`
	CanonicalURL *string `json:"spotifyUrl"`
}

// PrimaryProvider is the authenticated catalog search provider.
type PrimaryProvider interface {
	SearchTracks(ctx context.Context, query string, limit int) ([]Candidate, error)
}

// SecondaryProvider is the unauthenticated fallback provider.
type SecondaryProvider interface {
	SearchBest(ctx context.Context, query string) (*Candidate, error)
}
