package web

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/AmirS36/goosechase-music-discovery/internal/db"
	"github.com/AmirS36/goosechase-music-discovery/internal/resolve"
)

type fakeStore struct {
	user     *db.User
	track    *db.Track
	upserted []*db.Track
	appended []*db.Swipe
}

func (s *fakeStore) CreateUser(_ context.Context, _ string) (*db.User, error) {
	return s.user, nil
}

func (s *fakeStore) UserByUsername(_ context.Context, username string) (*db.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, db.ErrNotFound
	}
	return s.user, nil
}

func (s *fakeStore) Track(_ context.Context, id string) (*db.Track, error) {
	if s.track == nil || s.track.ID != id {
		return nil, db.ErrNotFound
	}
	return s.track, nil
}

func (s *fakeStore) UpsertTrack(_ context.Context, track *db.Track) error {
	s.upserted = append(s.upserted, track)
	return nil
}

func (s *fakeStore) AppendSwipe(_ context.Context, swipe *db.Swipe) error {
	swipe.ID = int64(len(s.appended) + 1)
	s.appended = append(s.appended, swipe)
	return nil
}

func (s *fakeStore) RecentSwipes(_ context.Context, _ uuid.UUID, _ *db.Direction, _ int) ([]db.SwipeWithTrack, error) {
	return nil, nil
}

func (s *fakeStore) TasteSnapshot(_ context.Context, _ uuid.UUID) (*db.TasteSnapshot, error) {
	return nil, db.ErrNotFound
}

type fakeMood struct {
	calls int
	optIn bool
	lat   float64
	lon   float64
	hint  string
}

func (m *fakeMood) Infer(_ context.Context, optIn bool, lat, lon float64) string {
	m.calls++
	m.optIn = optIn
	m.lat = lat
	m.lon = lon
	return m.hint
}

type fakeRecommender struct {
	moodHint string
}

func (r *fakeRecommender) Recommend(_ context.Context, _ uuid.UUID, _ int, moodHint string) ([]resolve.ResolvedTrack, error) {
	r.moodHint = moodHint
	return nil, nil
}

type fakePipeline struct {
	likes    int
	dislikes int
}

func (p *fakePipeline) OnLike(_ uuid.UUID)                       { p.likes++ }
func (p *fakePipeline) OnDislike(_ context.Context, _ uuid.UUID) { p.dislikes++ }

func newTestHandlers(store *fakeStore, mood *fakeMood, pipeline *fakePipeline, rec *fakeRecommender) *Handlers {
	return NewHandlers(store, pipeline, rec, mood, slog.New(slog.DiscardHandler))
}

func TestDiscoverMoodHint(t *testing.T) {
	user := &db.User{ID: uuid.New(), Username: "ana"}

	tests := []struct {
		name      string
		query     string
		wantCalls int
	}{
		{"opt-in without coordinates", "useWeather=true", 0},
		{"opt-in with malformed latitude", "useWeather=true&lat=abc&lon=13.405", 0},
		{"opt-in with missing longitude", "useWeather=true&lat=52.52", 0},
		{"coordinates without opt-in", "lat=52.52&lon=13.405", 0},
		{"opt-in with valid coordinates", "useWeather=1&lat=52.52&lon=13.405", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{user: user}
			mood := &fakeMood{hint: "melancholic chill"}
			h := newTestHandlers(store, mood, &fakePipeline{}, &fakeRecommender{})

			r := httptest.NewRequest("GET", "/api/discover?username=ana&"+tt.query, nil)
			w := httptest.NewRecorder()
			h.Discover(w, r)

			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
			}
			if mood.calls != tt.wantCalls {
				t.Errorf("Infer calls = %d, want %d", mood.calls, tt.wantCalls)
			}
		})
	}

	t.Run("valid coordinates are passed through", func(t *testing.T) {
		store := &fakeStore{user: user}
		mood := &fakeMood{hint: "summer upbeat"}
		rec := &fakeRecommender{}
		h := newTestHandlers(store, mood, &fakePipeline{}, rec)

		r := httptest.NewRequest("GET", "/api/discover?username=ana&useWeather=true&lat=52.52&lon=13.405", nil)
		w := httptest.NewRecorder()
		h.Discover(w, r)

		if !mood.optIn || mood.lat != 52.52 || mood.lon != 13.405 {
			t.Errorf("Infer(%v, %v, %v), want (true, 52.52, 13.405)", mood.optIn, mood.lat, mood.lon)
		}
		if rec.moodHint != "summer upbeat" {
			t.Errorf("recommender mood hint = %q, want %q", rec.moodHint, "summer upbeat")
		}
	})
}

func TestCreateSwipeTrackMetadata(t *testing.T) {
	const trackID = "4uLU6hMCjMI75M1A2tKUQC"
	user := &db.User{ID: uuid.New(), Username: "ana"}

	post := func(h *Handlers, body string) *httptest.ResponseRecorder {
		r := httptest.NewRequest("POST", "/api/swipes", strings.NewReader(body))
		w := httptest.NewRecorder()
		h.CreateSwipe(w, r)
		return w
	}

	t.Run("bare body for unknown track is rejected", func(t *testing.T) {
		store := &fakeStore{user: user}
		h := newTestHandlers(store, &fakeMood{}, &fakePipeline{}, &fakeRecommender{})

		w := post(h, `{"username":"ana","trackId":"`+trackID+`","direction":"LIKE"}`)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
		}
		if len(store.upserted) != 0 || len(store.appended) != 0 {
			t.Errorf("upserts = %d, appends = %d, want 0 and 0", len(store.upserted), len(store.appended))
		}
	})

	t.Run("bare body for known track skips the upsert", func(t *testing.T) {
		store := &fakeStore{user: user, track: &db.Track{ID: trackID, Title: "Creep", Artist: "Radiohead"}}
		pipeline := &fakePipeline{}
		h := newTestHandlers(store, &fakeMood{}, pipeline, &fakeRecommender{})

		w := post(h, `{"username":"ana","trackId":"`+trackID+`","direction":"LIKE"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
		}
		if len(store.upserted) != 0 {
			t.Errorf("upserts = %d, want 0", len(store.upserted))
		}
		if len(store.appended) != 1 || pipeline.likes != 1 {
			t.Errorf("appends = %d, likes = %d, want 1 and 1", len(store.appended), pipeline.likes)
		}
	})

	t.Run("body with metadata upserts", func(t *testing.T) {
		store := &fakeStore{user: user}
		h := newTestHandlers(store, &fakeMood{}, &fakePipeline{}, &fakeRecommender{})

		w := post(h, `{"username":"ana","trackId":"`+trackID+`","direction":"DISLIKE","title":" Creep ","artist":"Radiohead"}`)

		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
		}
		if len(store.upserted) != 1 || store.upserted[0].Title != "Creep" {
			t.Fatalf("upserted = %+v, want one row titled Creep", store.upserted)
		}
	})
}

func TestExtractTrackID(t *testing.T) {
	const id = "4uLU6hMCjMI75M1A2tKUQC"

	tests := []struct {
		name       string
		trackID    string
		spotifyURL string
		want       string
	}{
		{
			name:    "bare track ID",
			trackID: id,
			want:    id,
		},
		{
			name:    "bare track ID trimmed",
			trackID: "  " + id + "  ",
			want:    id,
		},
		{
			name:       "canonical track URL",
			spotifyURL: "https://open.spotify.com/track/" + id,
			want:       id,
		},
		{
			name:       "track URL with query string",
			spotifyURL: "https://open.spotify.com/track/" + id + "?si=abc123",
			want:       id,
		},
		{
			name:       "intl track URL",
			spotifyURL: "https://open.spotify.com/intl-fr/track/" + id,
			want:       id,
		},
		{
			name:       "track URI",
			spotifyURL: "spotify:track:" + id,
			want:       id,
		},
		{
			name:       "track ID wins over URL",
			trackID:    id,
			spotifyURL: "https://open.spotify.com/track/0000000000000000000000",
			want:       id,
		},
		{
			name:    "too short ID",
			trackID: "abc",
			want:    "",
		},
		{
			name:       "URL without track segment",
			spotifyURL: "https://open.spotify.com/album/" + id,
			want:       "",
		},
		{
			name: "nothing provided",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTrackID(tt.trackID, tt.spotifyURL); got != tt.want {
				t.Errorf("extractTrackID(%q, %q) = %q, want %q", tt.trackID, tt.spotifyURL, got, tt.want)
			}
		})
	}
}

func TestClampQueryInt(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"missing uses default", "", 50},
		{"within range", "limit=120", 120},
		{"below minimum", "limit=0", 1},
		{"negative", "limit=-3", 1},
		{"above maximum", "limit=9999", 200},
		{"not a number uses default", "limit=abc", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/swipes?"+tt.query, nil)
			if got := clampQueryInt(r, "limit", 50, 1, 200); got != tt.want {
				t.Errorf("clampQueryInt(%q) = %d, want %d", tt.query, got, tt.want)
			}
		})
	}
}

func TestOptional(t *testing.T) {
	if got := optional("  "); got != nil {
		t.Errorf("optional(blank) = %v, want nil", got)
	}
	if got := optional(" x "); got == nil || *got != "x" {
		t.Errorf("optional(\" x \") = %v, want x", got)
	}
}
