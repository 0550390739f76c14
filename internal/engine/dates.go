package engine

import (
	"strings"
	"time"
)

// dateLayouts are tried in order against raw cell text. Trackers are
// authored day-first, so day-first layouts take priority after the
// unambiguous ISO form.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02-01-2006",
	"2-1-2006",
	"02/01/2006",
	"2/1/2006",
	"02-01-06",
	"02-Jan-06",
	"2-Jan-06",
	"02-Jan-2006",
	"2-Jan-2006",
	"01-02-06 15:04",
	"1/2/06 15:04",
}

// ParseCellDate parses a raw date cell. Excel hands dates over as formatted
// strings whose shape depends on the authoring sheet's number format, so a
// small set of known layouts is tried; anything else is reported unparsed.
func ParseCellDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
