package engine

import "sitereport/internal/model"

// Segment partitions tracker rows into contiguous sections, each anchored by
// a bold row with non-empty task text and ending at the next anchor
// (exclusive) or one past the last row. Rows before the first anchor belong
// to no section. Single forward scan; sections never overlap.
//
// Rows must be in ascending row order, as produced by NewTracker.
func Segment(rows []model.TrackerRow) []model.TrackerSection {
	var sections []model.TrackerSection
	maxRow := 0
	for _, r := range rows {
		if r.Row > maxRow {
			maxRow = r.Row
		}
		if !r.Bold || r.Task == "" {
			continue
		}
		if n := len(sections); n > 0 {
			sections[n-1].EndRow = r.Row
		}
		sections = append(sections, model.TrackerSection{
			AnchorRow:  r.Row,
			AnchorText: r.Task,
		})
	}
	if n := len(sections); n > 0 {
		sections[n-1].EndRow = maxRow + 1
	}
	return sections
}
