package engine

import (
	"sitereport/internal/model"
	"sitereport/internal/sheet"
)

// TrackerColumns names the 1-based columns of interest in a tracker sheet.
// Zero Percent/Finish columns mean the sheet does not carry that field.
type TrackerColumns struct {
	Task    int
	Percent int
	Finish  int
}

// DefaultTrackerColumns matches the common structure-tracker layout:
// task names in D, percent complete in G.
func DefaultTrackerColumns() TrackerColumns {
	return TrackerColumns{Task: 4, Percent: 7}
}

// Tracker is an immutable, pre-segmented view over one tracker sheet.
// Built fresh per sheet; safe for concurrent matching queries.
type Tracker struct {
	Rows     []model.TrackerRow
	Sections []model.TrackerSection

	byRow map[int]int // sheet row -> index into Rows
}

// NewTracker reads the task column of a sheet into tracker rows (data starts
// below the header row) and segments them by bold anchors. Blank task cells
// are kept so narrowed scans can honor stop-at-blank layouts.
func NewTracker(sh *sheet.Sheet, cols TrackerColumns) *Tracker {
	if cols.Task == 0 {
		cols = DefaultTrackerColumns()
	}

	tr := &Tracker{byRow: make(map[int]int)}
	for row := 2; row <= sh.MaxRow; row++ {
		task := sh.Cell(row, cols.Task)
		r := model.TrackerRow{
			Row:       row,
			Task:      task.Value,
			Bold:      task.Bold,
			FillColor: task.Fill,
		}
		if cols.Percent > 0 {
			r.Percent = sh.Cell(row, cols.Percent).Value
		}
		if cols.Finish > 0 {
			r.FinishDate = sh.Cell(row, cols.Finish).Value
		}
		tr.byRow[row] = len(tr.Rows)
		tr.Rows = append(tr.Rows, r)
	}

	tr.Sections = Segment(tr.Rows)
	return tr
}

// Row returns the tracker row at a sheet row number.
func (t *Tracker) Row(row int) (model.TrackerRow, bool) {
	i, ok := t.byRow[row]
	if !ok {
		return model.TrackerRow{}, false
	}
	return t.Rows[i], true
}
