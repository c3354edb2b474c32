package web

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AmirS36/goosechase-music-discovery/internal/db"
	"github.com/AmirS36/goosechase-music-discovery/internal/resolve"
)

// trackIDPattern extracts a 22-character track ID from canonical catalog
// URLs ("/track/{id}", "/intl-xx/track/{id}") and URIs ("spotify:track:{id}").
var trackIDPattern = regexp.MustCompile(`spotify(?:\.com/(?:intl-[a-z]+/)?track/|:track:)([A-Za-z0-9]{22})`)

var bareTrackIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{22}$`)

// Store is the persistence surface the handlers need, satisfied by *db.DB.
type Store interface {
	CreateUser(ctx context.Context, username string) (*db.User, error)
	UserByUsername(ctx context.Context, username string) (*db.User, error)
	Track(ctx context.Context, id string) (*db.Track, error)
	UpsertTrack(ctx context.Context, track *db.Track) error
	AppendSwipe(ctx context.Context, swipe *db.Swipe) error
	RecentSwipes(ctx context.Context, userID uuid.UUID, direction *db.Direction, limit int) ([]db.SwipeWithTrack, error)
	TasteSnapshot(ctx context.Context, userID uuid.UUID) (*db.TasteSnapshot, error)
}

// Recommender produces resolved recommendations for a user.
type Recommender interface {
	Recommend(ctx context.Context, userID uuid.UUID, count int, moodHint string) ([]resolve.ResolvedTrack, error)
}

// MoodInferencer maps local conditions to a mood hint.
type MoodInferencer interface {
	Infer(ctx context.Context, optIn bool, lat, lon float64) string
}

// TastePipeline triggers taste updates after swipe writes.
type TastePipeline interface {
	OnLike(userID uuid.UUID)
	OnDislike(ctx context.Context, userID uuid.UUID)
}

// Handlers contains the JSON API handlers.
type Handlers struct {
	db          Store
	pipeline    TastePipeline
	recommender Recommender
	mood        MoodInferencer
	log         *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(database Store, pipeline TastePipeline, recommender Recommender, mood MoodInferencer, log *slog.Logger) *Handlers {
	return &Handlers{
		db:          database,
		pipeline:    pipeline,
		recommender: recommender,
		mood:        mood,
		log:         log,
	}
}

// Register creates a user (POST /api/register).
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return
	}

	user, err := h.db.CreateUser(r.Context(), username)
	if err != nil {
		if errors.Is(err, db.ErrUsernameTaken) {
			respondError(w, http.StatusConflict, "username already taken")
			return
		}
		h.serverError(w, r, "creating user", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":        user.ID,
		"username":  user.Username,
		"createdAt": user.CreatedAt,
	})
}

type swipeRequest struct {
	Username   string `json:"username"`
	TrackID    string `json:"trackId"`
	SpotifyURL string `json:"spotifyUrl"`
	Direction  string `json:"direction"`
	Title      string `json:"title"`
	Artist     string `json:"artist"`
	ImageURL   string `json:"imageUrl"`
	PreviewURL string `json:"previewUrl"`
}

// CreateSwipe appends one swipe and triggers the taste update
// (POST /api/swipes).
func (h *Handlers) CreateSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, ok := h.lookupUser(w, r, req.Username)
	if !ok {
		return
	}

	direction := db.Direction(strings.ToUpper(strings.TrimSpace(req.Direction)))
	if !direction.Valid() {
		respondError(w, http.StatusBadRequest, "direction must be LIKE or DISLIKE")
		return
	}

	trackID := extractTrackID(req.TrackID, req.SpotifyURL)
	if trackID == "" {
		respondError(w, http.StatusBadRequest, "trackId or spotifyUrl with a valid track ID is required")
		return
	}

	// The track row must exist before the swipe references it. Metadata is
	// upserted opportunistically; missing fields never erase known values.
	// A body with no title or artist can reference a known track but cannot
	// create one, so blank rows never reach the extraction prompt.
	track := &db.Track{
		ID:         trackID,
		Title:      strings.TrimSpace(req.Title),
		Artist:     strings.TrimSpace(req.Artist),
		ImageURL:   optional(req.ImageURL),
		PreviewURL: optional(req.PreviewURL),
		SpotifyURL: optional(req.SpotifyURL),
	}
	if track.Title == "" && track.Artist == "" {
		if _, err := h.db.Track(r.Context(), trackID); err != nil {
			if errors.Is(err, db.ErrNotFound) {
				respondError(w, http.StatusBadRequest, "title and artist are required for a new track")
				return
			}
			h.serverError(w, r, "looking up track", err)
			return
		}
	} else if err := h.db.UpsertTrack(r.Context(), track); err != nil {
		h.serverError(w, r, "upserting track", err)
		return
	}

	swipe := &db.Swipe{
		UserID:    user.ID,
		TrackID:   trackID,
		Direction: direction,
	}
	if err := h.db.AppendSwipe(r.Context(), swipe); err != nil {
		h.serverError(w, r, "appending swipe", err)
		return
	}

	if direction == db.DirectionLike {
		h.pipeline.OnLike(user.ID)
	} else {
		h.pipeline.OnDislike(r.Context(), user.ID)
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"id":                   swipe.ID,
		"trackId":              trackID,
		"direction":            direction,
		"createdAt":            swipe.CreatedAt,
		"tasteUpdateTriggered": true,
	})
}

// ListSwipes returns a user's recent swipes (GET /api/swipes).
func (h *Handlers) ListSwipes(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	var direction *db.Direction
	if raw := r.URL.Query().Get("direction"); raw != "" {
		d := db.Direction(strings.ToUpper(raw))
		if !d.Valid() {
			respondError(w, http.StatusBadRequest, "direction must be LIKE or DISLIKE")
			return
		}
		direction = &d
	}

	limit := clampQueryInt(r, "limit", 50, 1, 200)

	swipes, err := h.db.RecentSwipes(r.Context(), user.ID, direction, limit)
	if err != nil {
		h.serverError(w, r, "listing swipes", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"swipes": swipeViews(swipes)})
}

// ListLiked returns a user's recent likes (GET /api/swipes/liked).
func (h *Handlers) ListLiked(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	limit := clampQueryInt(r, "limit", 100, 1, 500)

	like := db.DirectionLike
	swipes, err := h.db.RecentSwipes(r.Context(), user.ID, &like, limit)
	if err != nil {
		h.serverError(w, r, "listing liked swipes", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"swipes": swipeViews(swipes)})
}

// GetTaste returns the user's taste snapshot (GET /api/taste).
func (h *Handlers) GetTaste(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	snap, err := h.db.TasteSnapshot(r.Context(), user.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondJSON(w, http.StatusOK, map[string]any{"assessment": nil})
			return
		}
		h.serverError(w, r, "loading taste snapshot", err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"assessment": tasteView(snap)})
}

// Discover returns resolved recommendations (GET /api/discover).
func (h *Handlers) Discover(w http.ResponseWriter, r *http.Request) {
	user, ok := h.lookupUser(w, r, r.URL.Query().Get("username"))
	if !ok {
		return
	}

	limit := clampQueryInt(r, "limit", 10, 1, 20)

	moodHint := h.moodHint(r)

	tracks, err := h.recommender.Recommend(r.Context(), user.ID, limit, moodHint)
	if err != nil {
		h.serverError(w, r, "recommending tracks", err)
		return
	}

	resp := map[string]any{"songs": tracks}
	if moodHint != "" {
		resp["moodHint"] = moodHint
	}
	respondJSON(w, http.StatusOK, resp)
}

// moodHint derives a weather mood hint from discover query parameters.
// Inference runs only when the caller opts in and both coordinates parse;
// an absent or malformed coordinate yields no hint.
func (h *Handlers) moodHint(r *http.Request) string {
	q := r.URL.Query()
	if q.Get("useWeather") != "true" && q.Get("useWeather") != "1" {
		return ""
	}
	lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		return ""
	}
	return h.mood.Infer(r.Context(), true, lat, lon)
}

// lookupUser resolves a username and writes the error response itself when
// the lookup fails.
func (h *Handlers) lookupUser(w http.ResponseWriter, r *http.Request, username string) (*db.User, bool) {
	username = strings.TrimSpace(username)
	if username == "" {
		respondError(w, http.StatusBadRequest, "username is required")
		return nil, false
	}

	user, err := h.db.UserByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(w, http.StatusNotFound, "user not found")
			return nil, false
		}
		h.serverError(w, r, "looking up user", err)
		return nil, false
	}
	return user, true
}

func (h *Handlers) serverError(w http.ResponseWriter, r *http.Request, action string, err error) {
	h.log.Error(action+" failed",
		slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// extractTrackID returns a 22-character track ID from an explicit ID or a
// canonical URL, or "" when neither yields one.
func extractTrackID(trackID, spotifyURL string) string {
	trackID = strings.TrimSpace(trackID)
	if bareTrackIDPattern.MatchString(trackID) {
		return trackID
	}
	if m := trackIDPattern.FindStringSubmatch(spotifyURL); m != nil {
		return m[1]
	}
	return ""
}

func clampQueryInt(r *http.Request, name string, def, min, max int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type swipeView struct {
	ID         int64     `json:"id"`
	TrackID    string    `json:"trackId"`
	Direction  string    `json:"direction"`
	Title      string    `json:"title"`
	Artist     string    `json:"artist"`
	ImageURL   *string   `json:"imageUrl"`
	PreviewURL *string   `json:"previewUrl"`
	SpotifyURL *string   `json:"spotifyUrl"`
	CreatedAt  time.Time `json:"createdAt"`
}

func swipeViews(swipes []db.SwipeWithTrack) []swipeView {
	views := make([]swipeView, 0, len(swipes))
	for _, s := range swipes {
		views = append(views, swipeView{
			ID:         s.ID,
			TrackID:    s.TrackID,
			Direction:  string(s.Direction),
			Title:      s.Track.Title,
			Artist:     s.Track.Artist,
			ImageURL:   s.Track.ImageURL,
			PreviewURL: s.Track.PreviewURL,
			SpotifyURL: s.Track.SpotifyURL,
			CreatedAt:  s.CreatedAt,
		})
	}
	return views
}

func tasteView(snap *db.TasteSnapshot) map[string]any {
	themes := snap.TopThemes
	if themes == nil {
		themes = []string{}
	}
	langs := snap.LangShares
	if langs == nil {
		langs = []db.LangShare{}
	}
	return map[string]any{
		"paragraph":     snap.Assessment,
		"sampleSize":    snap.SampleSize,
		"topThemes":     themes,
		"dominantMood":  snap.DominantMood,
		"dominantStyle": snap.DominantStyle,
		"grandStyle":    snap.GrandStyle,
		"grandAvg":      snap.GrandStyleAvg,
		"langPrefs":     langs,
		"createdAt":     snap.UpdatedAt,
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
