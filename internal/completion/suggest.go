package completion

import (
	"context"
	"encoding/json"
	"strings"
)

const starterPackSystemPrompt = `You are a music recommendation engine. The user has NO history yet.
Create a welcoming starter pack of real, existing songs across DISTINCT genres and regions.
Aim for breadth (e.g., pop, hip-hop/rap, R&B/soul, indie/alt, electronic/dance, rock/metal, jazz/funk, classical/neo-classical,
Latin/reggaeton/afrobeats, K-pop/J-pop, folk/country, Middle-Eastern/Israeli).
Mix eras (mostly modern, a few classics). Prefer tracks that typically have streaming previews.
Avoid novelty/overly obscure picks; choose representative, high-quality songs.
Return STRICT JSON ONLY:

{"songs":[{"title":"...","artist":"..."}, ...]}

No commentary, no extra fields, no duplicates.`

const personalizedSystemPrompt = `You are a music recommendation engine. Given a user's liked songs (title + artist), an optional taste summary, and an optional mood hint,
recommend real, existing songs that match the user's lyrical/mood/style vibe.
Return diverse but coherent picks (newer + a few classics ok). Avoid duplicates and avoid anything already in the likes.
Output STRICT JSON with this exact schema:

{"songs":[{"title":"...","artist":"..."}, ...]}

No commentary, no extra keys. Always real songs by real artists. Use global availability when possible.`

// Song is one suggested (title, artist) pair.
type Song struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// TasteSummary is the personalization payload sent with suggestion requests.
type TasteSummary struct {
	TopThemes     []string    `json:"topThemes,omitempty"`
	DominantMood  string      `json:"dominantMood,omitempty"`
	DominantStyle string      `json:"dominantStyle,omitempty"`
	GrandStyle    string      `json:"grandStyle,omitempty"`
	GrandStyleAvg *int        `json:"grandStyleAvg,omitempty"`
	LangShares    []LangShare `json:"langPrefs,omitempty"`
}

// SuggestionRequest is a personalized suggestion request.
type SuggestionRequest struct {
	Likes    []Song        `json:"likes"`
	Taste    *TasteSummary `json:"taste,omitempty"`
	MoodHint string        `json:"moodHint,omitempty"`
	Limit    int           `json:"limit"`
}

type songsResponse struct {
	Songs []Song `json:"songs"`
}

// SuggestStarterPack requests a cold-start, cross-genre batch with no
// personalization payload.
func (c *Client) SuggestStarterPack(ctx context.Context, limit int) ([]Song, error) {
	limit = clampLimit(limit)

	payload, _ := json.Marshal(map[string]int{"limit": limit})
	text, err := c.complete(ctx, starterPackSystemPrompt, string(payload), 0.7)
	if err != nil {
		return nil, err
	}
	return parseSongs(text, limit), nil
}

// SuggestSongs requests a personalized batch. Likes are capped to 50 entries
// before the request is sent.
func (c *Client) SuggestSongs(ctx context.Context, req SuggestionRequest) ([]Song, error) {
	req.Limit = clampLimit(req.Limit)
	if len(req.Likes) > 50 {
		req.Likes = req.Likes[:50]
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	text, err := c.complete(ctx, personalizedSystemPrompt, string(payload), 0.6)
	if err != nil {
		return nil, err
	}
	return parseSongs(text, req.Limit), nil
}

// parseSongs decodes a suggestion response, coercing anything malformed to an
// empty list. The engine may return fewer songs than requested.
func parseSongs(text string, limit int) []Song {
	jsonStr, err := extractJSON(text)
	if err != nil {
		return []Song{}
	}

	var parsed songsResponse
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return []Song{}
	}

	cleaned := make([]Song, 0, len(parsed.Songs))
	for _, s := range parsed.Songs {
		s.Title = strings.TrimSpace(s.Title)
		s.Artist = strings.TrimSpace(s.Artist)
		if s.Title == "" && s.Artist == "" {
			continue
		}
		cleaned = append(cleaned, s)
	}

	if len(cleaned) > limit {
		cleaned = cleaned[:limit]
	}
	return cleaned
}

func clampLimit(n int) int {
	if n < 1 {
		return 1
	}
	if n > 20 {
		return 20
	}
	return n
}
