package resolve

import (
	"strings"
	"unicode"
)

// qualifierTokens are suffix qualifiers that carry no identity information.
var qualifierTokens = map[string]struct{}{
	"remaster":   {},
	"remastered": {},
	"edit":       {},
	"radio":      {},
	"single":     {},
	"live":       {},
	"version":    {},
	"mono":       {},
	"stereo":     {},
	"deluxe":     {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
}

// normalize cleans a title or artist for comparison: lowercase, parenthetical
// qualifiers and trailing dash qualifiers stripped, punctuation removed,
// whitespace collapsed.
func normalize(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(input))
	stripped := stripParentheticals(lowered)
	stripped = stripDashQualifier(stripped)
	cleaned := stripPunctuation(stripped)

	return strings.Join(strings.Fields(cleaned), " ")
}

// stripParentheticals removes "(...)" and "[...]" segments, e.g. "(feat. X)"
// or "(2011 Remaster)".
func stripParentheticals(input string) string {
	var out strings.Builder
	depth := 0
	for _, r := range input {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		default:
			if depth == 0 {
				out.WriteRune(r)
			}
		}
	}
	return out.String()
}

// stripDashQualifier removes trailing " - remaster", " - radio edit" style
// suffixes, repeatedly, as long as the suffix contains a qualifier token.
func stripDashQualifier(input string) string {
	trimmed := strings.TrimSpace(input)
	for {
		idx := strings.LastIndex(trimmed, " - ")
		if idx == -1 {
			return trimmed
		}
		suffix := trimmed[idx+3:]
		if !hasQualifierToken(suffix) {
			return trimmed
		}
		trimmed = strings.TrimSpace(trimmed[:idx])
	}
}

func hasQualifierToken(s string) bool {
	for _, token := range strings.Fields(stripPunctuation(strings.ToLower(s))) {
		if _, ok := qualifierTokens[token]; ok {
			return true
		}
	}
	return false
}

func stripPunctuation(input string) string {
	var out strings.Builder
	lastSpace := false
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out.WriteRune(r)
			lastSpace = false
			continue
		}
		if !lastSpace {
			out.WriteRune(' ')
			lastSpace = true
		}
	}
	return out.String()
}
