// Package deezer provides the unauthenticated secondary catalog provider.
package deezer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/AmirS36/goosechase-music-discovery/internal/resolve"
)

const (
	baseURL   = "https://api.deezer.com/search"
	userAgent = "goosechase-music-discovery/1.0"
)

// Client is a Deezer search API client. Deezer requires no authentication for
// track search, which makes it the cascade's graceful-degradation provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a new Deezer API client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
	}
}

type searchResponse struct {
	Data []struct {
		ID      int64  `json:"id"`
		Title   string `json:"title"`
		Link    string `json:"link"`
		Preview string `json:"preview"`
		Artist  struct {
			Name string `json:"name"`
		} `json:"artist"`
		Album struct {
			CoverMedium string `json:"cover_medium"`
		} `json:"album"`
	} `json:"data"`
}

// SearchBest returns the single best free-text match, or nil when there is none.
func (c *Client) SearchBest(ctx context.Context, query string) (*resolve.Candidate, error) {
	params := url.Values{
		"q":     {query},
		"limit": {"1"},
	}
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, nil
	}

	first := parsed.Data[0]
	return &resolve.Candidate{
		ID:           fmt.Sprintf("%d", first.ID),
		Title:        first.Title,
		Artist:       first.Artist.Name,
		PreviewURL:   first.Preview,
		ArtworkURL:   first.Album.CoverMedium,
		CanonicalURL: first.Link,
	}, nil
}
