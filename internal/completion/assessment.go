package completion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const assessmentSystemPrompt = `You are a music curator. Write a short, friendly, concrete assessment (4-6 sentences max) of a user's lyrical music taste based on structured inputs. Avoid fluff.`

// LangShare is one language's share of the user's liked tracks.
type LangShare struct {
	Lang  string  `json:"lang"`
	Share float64 `json:"share"`
}

// AssessmentInput carries the aggregate statistics the assessment is written from.
type AssessmentInput struct {
	Username      string      `json:"username"`
	SampleSize    int         `json:"sampleSize"`
	TopThemes     []string    `json:"topThemes"`
	DominantMood  string      `json:"dominantMood,omitempty"`
	DominantStyle string      `json:"dominantStyle,omitempty"`
	GrandStyle    string      `json:"grandStyle,omitempty"`
	GrandStyleAvg *int        `json:"grandStyleAvg,omitempty"`
	LangShares    []LangShare `json:"langPrefs"`
}

// WriteAssessment generates a short natural-language paragraph describing the
// user's lyrical taste. Failures are recoverable by the caller and never
// fatal to a rollup.
func (c *Client) WriteAssessment(ctx context.Context, input AssessmentInput) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("encoding assessment input: %w", err)
	}

	text, err := c.complete(ctx, assessmentSystemPrompt, string(payload), 0.5)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
