package taste

import (
	"math"
	"sort"
	"strings"

	"github.com/AmirS36/goosechase-music-discovery/internal/db"
)

// Aggregation caps.
const (
	maxTopThemes  = 10
	maxLangShares = 5
)

// Aggregates holds the statistics derived from a user's active-like features.
type Aggregates struct {
	SampleSize    int
	TopThemes     []string
	DominantMood  *string
	DominantStyle *string
	GrandStyle    *string
	GrandStyleAvg *int
	LangShares    []db.LangShare
}

// Aggregate computes taste statistics over feature rows. All selection is
// deterministic: counts sort descending with ties broken by lexicographic
// order on the tag, so recomputing over the same rows yields identical output.
func Aggregate(features []db.LyricalFeature) Aggregates {
	themeCounts := make(map[string]int)
	moodCounts := make(map[string]int)
	styleCounts := make(map[string]int)
	grandCounts := make(map[string]int)
	langCounts := make(map[string]int)

	grandSum := 0
	grandSeen := 0

	for _, f := range features {
		for _, t := range f.Themes {
			key := strings.ToLower(strings.TrimSpace(t))
			if key != "" {
				themeCounts[key]++
			}
		}
		if f.Mood != nil && *f.Mood != "" {
			moodCounts[strings.ToLower(*f.Mood)]++
		}
		if f.Style != nil && *f.Style != "" {
			styleCounts[strings.ToLower(*f.Style)]++
		}
		if f.Grand != nil && *f.Grand != "" {
			grandCounts[strings.TrimSpace(*f.Grand)]++
		}
		if f.GrandPresence != nil {
			grandSum += *f.GrandPresence
			grandSeen++
		}
		if f.Language != nil && *f.Language != "" {
			langCounts[strings.ToLower(*f.Language)]++
		}
	}

	agg := Aggregates{
		SampleSize:    len(features),
		TopThemes:     topKeys(themeCounts, maxTopThemes),
		DominantMood:  plurality(moodCounts),
		DominantStyle: plurality(styleCounts),
		GrandStyle:    plurality(grandCounts),
		LangShares:    langShares(langCounts),
	}
	if grandSeen > 0 {
		avg := int(math.Round(float64(grandSum) / float64(grandSeen)))
		agg.GrandStyleAvg = &avg
	}
	return agg
}

// topKeys returns up to limit keys ordered by count descending, ties broken
// lexicographically.
func topKeys(counts map[string]int, limit int) []string {
	keys := sortedByCount(counts)
	if len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// plurality returns the most frequent key, or nil when counts is empty.
// Ties are broken by lexicographic order on the tag.
func plurality(counts map[string]int) *string {
	keys := sortedByCount(counts)
	if len(keys) == 0 {
		return nil
	}
	return &keys[0]
}

func sortedByCount(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}

// langShares converts language counts into fractional shares rounded to three
// decimals, descending by share with lexicographic tie-break, capped.
func langShares(counts map[string]int) []db.LangShare {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return []db.LangShare{}
	}

	keys := sortedByCount(counts)
	if len(keys) > maxLangShares {
		keys = keys[:maxLangShares]
	}

	shares := make([]db.LangShare, len(keys))
	for i, k := range keys {
		share := math.Round(float64(counts[k])/float64(total)*1000) / 1000
		shares[i] = db.LangShare{Lang: k, Share: share}
	}
	return shares
}
