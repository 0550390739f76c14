package model

// TrackerRow is a read-only view over one row of a tracker sheet's task
// column, together with the raw cell texts the engine may need from the same
// row. Raw values stay strings until a parser normalizes them.
type TrackerRow struct {
	Row        int
	Task       string
	Bold       bool
	Percent    string
	FinishDate string
	FillColor  string
}

// TrackerSection is a contiguous row range [AnchorRow, EndRow) headed by a
// bold anchor row. Sections produced by Segment never overlap.
type TrackerSection struct {
	AnchorRow  int
	EndRow     int
	AnchorText string
}

// Contains reports whether the sheet row falls inside the section range.
func (s TrackerSection) Contains(row int) bool {
	return row >= s.AnchorRow && row < s.EndRow
}

// SectionFilter restricts which sections are eligible as hierarchy anchors.
// It generalizes per-project disambiguation rules (row ranges, marker text)
// into one caller-supplied hook.
type SectionFilter func(TrackerSection) bool

// MatchCandidate is a scored tracker row produced by hierarchy matching.
type MatchCandidate struct {
	Row         int
	Score       float64
	MatchedText string
}
