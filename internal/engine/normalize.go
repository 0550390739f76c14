package engine

import "strings"

// stopwords are filler tokens that carry no signal when comparing activity
// labels ("Checking & Casting Work" vs "Checking and Casting").
var stopwords = map[string]struct{}{
	"work":     {},
	"activity": {},
	"and":      {},
	"the":      {},
	"of":       {},
	"for":      {},
	"in":       {},
	"on":       {},
	"with":     {},
	"&":        {},
}

// Normalize canonicalizes a free-text activity label for comparison:
// lower-case, "&" to "and", slashes and hyphens to spaces, whitespace runs
// collapsed, trimmed. Pure and idempotent; empty input stays empty.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.ReplaceAll(text, "&", "and")
	text = strings.ReplaceAll(text, "/", " ")
	text = strings.ReplaceAll(text, "-", " ")
	// En/em dashes show up in tracker headers ("Upper Basement – Columns").
	text = strings.ReplaceAll(text, "–", " ")
	text = strings.ReplaceAll(text, "—", " ")
	return strings.Join(strings.Fields(text), " ")
}

// tokens splits a normalized string into comparison tokens, dropping
// stopwords and tokens too short to be meaningful.
func tokens(normalized string) []string {
	fields := strings.Fields(normalized)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= 2 {
			continue
		}
		if _, ok := stopwords[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}
