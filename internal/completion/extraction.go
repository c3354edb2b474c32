package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const extractionSystemPrompt = `You extract lyrical attributes for songs and return STRICT JSON.
Return ONE JSON object where each key is the trackId and value is:
{
  "lyricalThemes": string[],
  "lyricalMood": string,
  "lyricalStyle": string,
  "lyricalGrand": string,
  "lyricalGrandPres": number,
  "lyricalLang": string
}
lyricalThemes are short tags like "love" or "nostalgia". lyricalGrand is
"Simple" or "Elevated". lyricalGrandPres is an integer 0..100. lyricalLang is
an ISO-639-1 code like "en" or "he". Only those keys. No commentary.`

// TrackInput identifies one track for batched extraction.
type TrackInput struct {
	TrackID string
	Title   string
	Artist  string
}

// LyricalExtraction holds the attributes extracted for one track.
type LyricalExtraction struct {
	Themes        []string
	Mood          string
	Style         string
	Grand         string
	GrandPresence int
	Language      string
}

type rawExtraction struct {
	Themes        []string `json:"lyricalThemes"`
	Mood          string   `json:"lyricalMood"`
	Style         string   `json:"lyricalStyle"`
	Grand         string   `json:"lyricalGrand"`
	GrandPresence float64  `json:"lyricalGrandPres"`
	Language      string   `json:"lyricalLang"`
}

// AnalyzeTracks analyzes up to one window of tracks in exactly one completion
// call and returns a map keyed by track ID. Tracks missing from the response
// are simply absent from the map, and an unparseable response body yields an
// empty map rather than an error.
func (c *Client) AnalyzeTracks(ctx context.Context, inputs []TrackInput) (map[string]LyricalExtraction, error) {
	if len(inputs) == 0 {
		return map[string]LyricalExtraction{}, nil
	}

	var sb strings.Builder
	for i, t := range inputs {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "#%d\ntrackId: %s\ntitle: %s\nartist: %s", i+1, t.TrackID, t.Title, t.Artist)
	}

	text, err := c.complete(ctx, extractionSystemPrompt, sb.String(), 0.2)
	if err != nil {
		return nil, err
	}

	// A response the model mangles beyond parsing counts as an empty
	// batch; the caller writes empty feature rows and moves on.
	jsonStr, err := extractJSON(text)
	if err != nil {
		return map[string]LyricalExtraction{}, nil
	}

	var parsed map[string]rawExtraction
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return map[string]LyricalExtraction{}, nil
	}

	out := make(map[string]LyricalExtraction, len(parsed))
	for trackID, v := range parsed {
		out[trackID] = normalizeExtraction(v)
	}
	return out, nil
}

// normalizeExtraction clamps and lowercases model output so downstream
// aggregation never sees out-of-range or mixed-case values.
func normalizeExtraction(v rawExtraction) LyricalExtraction {
	themes := make([]string, 0, len(v.Themes))
	for _, t := range v.Themes {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			themes = append(themes, t)
		}
	}

	pres := int(v.GrandPresence)
	if pres < 0 {
		pres = 0
	}
	if pres > 100 {
		pres = 100
	}

	lang := strings.ToLower(strings.TrimSpace(v.Language))
	if len(lang) > 2 {
		lang = lang[:2]
	}

	return LyricalExtraction{
		Themes:        themes,
		Mood:          strings.TrimSpace(v.Mood),
		Style:         strings.TrimSpace(v.Style),
		Grand:         strings.TrimSpace(v.Grand),
		GrandPresence: pres,
		Language:      lang,
	}
}
