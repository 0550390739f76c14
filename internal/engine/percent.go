package engine

import (
	"log"
	"strconv"
	"strings"
)

// ParsePercent normalizes a raw completion cell of unknown shape into a
// 0-100 percentage. Trackers store the same field as a 0-1 fraction, a 0-100
// number, or a "55%" string depending on who authored the sheet.
//
//   - empty -> 0
//   - numeric in [0,1] -> value * 100
//   - numeric > 1 -> value as-is
//   - "%" suffix and surrounding whitespace are stripped before parsing
//   - unparsable -> 0, logged, never fatal
//
// The result is always clamped to [0,100].
func ParsePercent(raw string) float64 {
	s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		log.Printf("percent: unparsable value %q, treating as 0", raw)
		return 0
	}
	if v >= 0 && v <= 1 {
		v *= 100
	}
	return clampPercent(v)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
