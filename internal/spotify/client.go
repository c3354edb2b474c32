package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"

	"github.com/AmirS36/goosechase-music-discovery/internal/resolve"
)

// Client wraps the Spotify Web API search endpoint as the cascade's primary
// provider.
type Client struct {
	api *spotify.Client
}

// New creates a Spotify client whose requests carry tokens from the given cache.
func New(cache *TokenCache) *Client {
	httpClient := oauth2.NewClient(context.Background(), cache)
	return &Client{api: spotify.New(httpClient, spotify.WithRetry(true))}
}

// SearchTracks runs a free-text track search and returns up to limit ranked
// candidates in provider order.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]resolve.Candidate, error) {
	if limit < 1 {
		limit = 1
	}

	results, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	if results.Tracks == nil {
		return nil, nil
	}

	candidates := make([]resolve.Candidate, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		candidates = append(candidates, convertTrack(t))
	}
	return candidates, nil
}

// convertTrack converts a Spotify FullTrack to a resolve.Candidate.
func convertTrack(t spotify.FullTrack) resolve.Candidate {
	c := resolve.Candidate{
		ID:           t.ID.String(),
		Title:        t.Name,
		PreviewURL:   t.PreviewURL,
		CanonicalURL: t.ExternalURLs["spotify"],
	}
	if len(t.Artists) > 0 {
		c.Artist = t.Artists[0].Name
	}
	if len(t.Album.Images) > 0 {
		c.ArtworkURL = t.Album.Images[0].URL
	}
	return c
}
