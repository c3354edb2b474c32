package resolve

import "strings"

// Match tiers. Exact beats substring-contains beats no match; title and
// artist tiers weigh equally, and a playable preview adds a single point so
// it only ever breaks ties between equal text matches.
const (
	tierExact    = 2
	tierContains = 1
	tierNone     = 0

	tierWeight   = 3
	previewPoint = 1
)

func matchTier(query, candidate string) int {
	if query == "" || candidate == "" {
		return tierNone
	}
	if query == candidate {
		return tierExact
	}
	if strings.Contains(candidate, query) || strings.Contains(query, candidate) {
		return tierContains
	}
	return tierNone
}

// scoreCandidate scores a provider candidate against the normalized query.
func scoreCandidate(normTitle, normArtist string, c Candidate) int {
	score := tierWeight * matchTier(normTitle, normalize(c.Title))
	score += tierWeight * matchTier(normArtist, normalize(c.Artist))
	if c.PreviewURL != "" {
		score += previewPoint
	}
	return score
}

// pickBest selects the highest-scoring candidate. Ties prefer the candidate
// with a preview asset, then provider order.
func pickBest(normTitle, normArtist string, candidates []Candidate) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	bestIdx := -1
	bestScore := -1
	for i, c := range candidates {
		score := scoreCandidate(normTitle, normArtist, c)
		if score > bestScore {
			bestIdx, bestScore = i, score
			continue
		}
		if score == bestScore && candidates[bestIdx].PreviewURL == "" && c.PreviewURL != "" {
			bestIdx = i
		}
	}
	return candidates[bestIdx], true
}
