package spotify

import (
	"errors"
	"testing"
	"time"

	"golang.org/x/oauth2"
)

// newTestCache returns a cache whose refresh func hands out tokens from the
// queue and counts calls.
func newTestCache(margin time.Duration, tokens ...*oauth2.Token) (*TokenCache, *int) {
	calls := 0
	next := 0
	cache := &TokenCache{
		margin: margin,
		refresh: func() (*oauth2.Token, error) {
			calls++
			if next >= len(tokens) {
				return nil, errors.New("no more tokens")
			}
			t := tokens[next]
			next++
			return t, nil
		},
	}
	return cache, &calls
}

func TestTokenCache(t *testing.T) {
	t.Run("caches token across calls", func(t *testing.T) {
		fresh := &oauth2.Token{AccessToken: "a", Expiry: time.Now().Add(time.Hour)}
		cache, calls := newTestCache(30*time.Second, fresh)

		for i := 0; i < 3; i++ {
			got, err := cache.Token()
			if err != nil {
				t.Fatalf("Token: %v", err)
			}
			if got.AccessToken != "a" {
				t.Errorf("AccessToken = %q, want a", got.AccessToken)
			}
		}
		if *calls != 1 {
			t.Errorf("refresh called %d times, want 1", *calls)
		}
	})

	t.Run("refreshes inside the safety margin", func(t *testing.T) {
		nearExpiry := &oauth2.Token{AccessToken: "old", Expiry: time.Now().Add(10 * time.Second)}
		fresh := &oauth2.Token{AccessToken: "new", Expiry: time.Now().Add(time.Hour)}
		cache, calls := newTestCache(30*time.Second, nearExpiry, fresh)

		if _, err := cache.Token(); err != nil {
			t.Fatalf("Token: %v", err)
		}
		// The first token is already within the margin, so the next call
		// refreshes again.
		got, err := cache.Token()
		if err != nil {
			t.Fatalf("Token: %v", err)
		}
		if got.AccessToken != "new" {
			t.Errorf("AccessToken = %q, want new", got.AccessToken)
		}
		if *calls != 2 {
			t.Errorf("refresh called %d times, want 2", *calls)
		}
	})

	t.Run("refresh failure propagates", func(t *testing.T) {
		cache, _ := newTestCache(30 * time.Second)

		if _, err := cache.Token(); err == nil {
			t.Error("expected error when refresh fails")
		}
	})
}
