package weather

import (
	"context"
	"log/slog"
	"strings"
)

// Temperature override thresholds, degrees Celsius.
const (
	hotThreshold  = 28.0
	coldThreshold = 10.0
)

// Mood descriptors by condition family.
const (
	moodMelancholic = "melancholic chill"
	moodDramatic    = "dramatic intense"
	moodCozy        = "cozy warm"
	moodUpbeat      = "upbeat pop"
	moodMellow      = "mellow ambient"
	moodBalanced    = "balanced"
	moodSummer      = "summer upbeat"
)

// MoodForConditions maps a weather condition code and temperature to a mood
// descriptor. Codes follow the WMO scheme: 0-1 clear, 2-3 cloudy, 45/48 fog,
// 51-65 drizzle/rain, 66-77 freezing rain and snow, 80-82 showers,
// 85-86 snow showers, 95-99 thunderstorm.
func MoodForConditions(cond Conditions) string {
	var mood string
	switch {
	case cond.Code >= 95:
		mood = moodDramatic
	case (cond.Code >= 51 && cond.Code <= 65) || (cond.Code >= 80 && cond.Code <= 82):
		mood = moodMelancholic
	case (cond.Code >= 66 && cond.Code <= 77) || cond.Code == 85 || cond.Code == 86:
		mood = moodCozy
	case cond.Code <= 1:
		mood = moodUpbeat
	case cond.Code == 2 || cond.Code == 3 || cond.Code == 45 || cond.Code == 48:
		mood = moodMellow
	default:
		mood = moodBalanced
	}

	// Hot weather wins over the condition code outright.
	if cond.Temperature >= hotThreshold {
		return moodSummer
	}
	if cond.Temperature <= coldThreshold && !strings.Contains(mood, "cozy") {
		mood += " cozy"
	}
	return mood
}

// Inferencer produces optional mood hints for recommendation requests.
type Inferencer struct {
	client *Client
	log    *slog.Logger
}

// NewInferencer creates a mood inferencer. A nil client disables inference.
func NewInferencer(client *Client, log *slog.Logger) *Inferencer {
	return &Inferencer{client: client, log: log}
}

// Infer returns a mood hint for the coordinates, or "" when the user has not
// opted in, the coordinates are invalid, or the weather lookup fails. This
// path never blocks or fails the caller.
func (i *Inferencer) Infer(ctx context.Context, optIn bool, lat, lon float64) string {
	if !optIn || i.client == nil {
		return ""
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ""
	}

	cond, err := i.client.Current(ctx, lat, lon)
	if err != nil {
		i.log.Debug("weather lookup failed", slog.String("error", err.Error()))
		return ""
	}
	return MoodForConditions(*cond)
}
