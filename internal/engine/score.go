package engine

import "strings"

// Score computes a similarity score in [0,1] between two activity labels.
// Inputs are normalized internally, so callers may pass raw cell text.
//
// Tiers, highest first:
//   - exact match: 1.0
//   - containment: 0.85-0.95, scaled by how much of the container the
//     contained string covers
//   - token overlap: |intersection| / min(|target|, |candidate|) over
//     stopword-filtered tokens, scaled by 0.8 to stay below containment
//
// Deterministic for identical inputs; not symmetric in the containment tier.
func Score(target, candidate string) float64 {
	target = Normalize(target)
	candidate = Normalize(candidate)
	if target == "" || candidate == "" {
		return 0
	}
	if target == candidate {
		return 1.0
	}

	if strings.Contains(candidate, target) {
		return 0.9 + 0.05*(float64(len(target))/float64(len(candidate)))
	}
	if strings.Contains(target, candidate) {
		return 0.85 + 0.05*(float64(len(candidate))/float64(len(target)))
	}

	return overlapRatio(target, candidate) * 0.8
}

// MatchesAnchor reports whether a bold section header qualifies as an anchor
// for the target label: exact, containment either way, or raw word overlap at
// or above threshold. Anchor headers often append detail the target omits
// ("Upper Basement - Column & Shear Wall"), so this is looser than Score.
func MatchesAnchor(target, candidate string, threshold float64) bool {
	target = Normalize(target)
	candidate = Normalize(candidate)
	if target == "" || candidate == "" {
		return false
	}
	if target == candidate || strings.Contains(candidate, target) || strings.Contains(target, candidate) {
		return true
	}
	return wordOverlap(target, candidate) >= threshold
}

// overlapRatio is the stopword-filtered token overlap used by Score.
func overlapRatio(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(ta))
	for _, t := range ta {
		set[t] = struct{}{}
	}
	common := 0
	seen := make(map[string]struct{}, len(tb))
	for _, t := range tb {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := set[t]; ok {
			common++
		}
	}
	minLen := len(ta)
	if len(tb) < minLen {
		minLen = len(tb)
	}
	return float64(common) / float64(minLen)
}

// wordOverlap is the unfiltered word overlap used for anchor acceptance.
func wordOverlap(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	common := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			common++
		}
	}
	minLen := len(wa)
	if len(wb) < minLen {
		minLen = len(wb)
	}
	return float64(common) / float64(minLen)
}

func wordSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		out[f] = struct{}{}
	}
	return out
}
