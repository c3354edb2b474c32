package deezer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient()
	client.baseURL = srv.URL
	return client
}

func TestSearchBest(t *testing.T) {
	t.Run("maps first result", func(t *testing.T) {
		var gotQuery string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query().Get("q")
			w.Write([]byte(`{"data":[{
				"id": 3135556,
				"title": "Harder, Better, Faster, Stronger",
				"link": "https://www.deezer.com/track/3135556",
				"preview": "https://cdn.example/preview.mp3",
				"artist": {"name": "Daft Punk"},
				"album": {"cover_medium": "https://cdn.example/cover.jpg"}
			}]}`))
		})

		got, err := client.SearchBest(context.Background(), "harder better daft punk")
		if err != nil {
			t.Fatalf("SearchBest: %v", err)
		}
		if got == nil {
			t.Fatal("expected a candidate")
		}
		if gotQuery != "harder better daft punk" {
			t.Errorf("query = %q", gotQuery)
		}
		if got.ID != "3135556" {
			t.Errorf("ID = %q, want 3135556", got.ID)
		}
		if got.Artist != "Daft Punk" {
			t.Errorf("Artist = %q", got.Artist)
		}
		if got.PreviewURL != "https://cdn.example/preview.mp3" {
			t.Errorf("PreviewURL = %q", got.PreviewURL)
		}
		if got.ArtworkURL != "https://cdn.example/cover.jpg" {
			t.Errorf("ArtworkURL = %q", got.ArtworkURL)
		}
		if got.CanonicalURL != "https://www.deezer.com/track/3135556" {
			t.Errorf("CanonicalURL = %q", got.CanonicalURL)
		}
	})

	t.Run("no results returns nil without error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data":[]}`))
		})

		got, err := client.SearchBest(context.Background(), "nothing matches this")
		if err != nil {
			t.Fatalf("SearchBest: %v", err)
		}
		if got != nil {
			t.Errorf("candidate = %+v, want nil", got)
		}
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		if _, err := client.SearchBest(context.Background(), "query"); err == nil {
			t.Error("expected error for 503 response")
		}
	})
}
