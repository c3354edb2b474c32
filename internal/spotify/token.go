// Package spotify provides the authenticated primary catalog search provider.
package spotify

import (
	"context"
	"fmt"
	"sync"
	"time"

	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// DefaultTokenMargin is how close to expiry a cached token may get before it
// is refreshed. No request is ever attempted with an expired token.
const DefaultTokenMargin = 30 * time.Second

// TokenCache caches the client-credentials bearer token process-wide and
// refreshes it transparently near expiry. It implements oauth2.TokenSource.
//
// In a multi-instance deployment this cache should be externalized; each
// process refreshing on its own is redundant but harmless.
type TokenCache struct {
	mu      sync.Mutex
	token   *oauth2.Token
	margin  time.Duration
	refresh func() (*oauth2.Token, error)
}

// NewTokenCache creates a token cache backed by the Spotify client-credentials
// exchange.
func NewTokenCache(clientID, clientSecret string, margin time.Duration) *TokenCache {
	if margin <= 0 {
		margin = DefaultTokenMargin
	}
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return &TokenCache{
		margin: margin,
		refresh: func() (*oauth2.Token, error) {
			return conf.Token(context.Background())
		},
	}
}

// Token returns the cached token, refreshing it first when it is within the
// safety margin of expiring.
func (c *TokenCache) Token() (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != nil && time.Until(c.token.Expiry) > c.margin {
		return c.token, nil
	}

	token, err := c.refresh()
	if err != nil {
		return nil, fmt.Errorf("exchanging client credentials: %w", err)
	}
	c.token = token
	return token, nil
}
