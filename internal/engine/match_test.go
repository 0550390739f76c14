package engine_test

import (
	"testing"

	"sitereport/internal/engine"
	"sitereport/internal/model"
)

func TestMatchHierarchyExtractsPercent(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{
		{row: 2, task: "Upper Basement – Column & Shear Wall", bold: true},
		{row: 3, task: "Shuttering", pct: "1"},
		{row: 4, task: "Checking and Casting", pct: "0.55"},
		{row: 6, task: "Lower Basement", bold: true},
		{row: 7, task: "Checking and Casting", pct: "0.10"},
	})

	target := model.TargetActivity{
		Parent: "Upper Basement",
		Child:  "Checking & Casting Work",
	}
	cand := engine.Match(target, tr, engine.DefaultMatchOptions())
	if cand == nil {
		t.Fatal("expected a match, got nil")
	}
	if cand.Row != 4 {
		t.Fatalf("matched row %d, want 4", cand.Row)
	}
	row, _ := tr.Row(cand.Row)
	if got := engine.ParsePercent(row.Percent); got != 55.0 {
		t.Errorf("extracted percentage %v, want 55.0", got)
	}
}

func TestMatchEmptyChildSkipsSearch(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{
		{row: 2, task: "Upper Basement", bold: true},
		{row: 3, task: "Anything", pct: "0.9"},
	})
	if cand := engine.Match(model.TargetActivity{Parent: "Upper Basement"}, tr, engine.DefaultMatchOptions()); cand != nil {
		t.Fatalf("empty child must not match, got row %d", cand.Row)
	}
}

func TestMatchFlatScanWithoutParent(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{
		{row: 2, task: "Header", bold: true},
		{row: 3, task: "Pathway Area & Planter", pct: "0.62"},
	})
	cand := engine.Match(model.TargetActivity{Child: "Pathway Area and Planter"}, tr, engine.DefaultMatchOptions())
	if cand == nil || cand.Row != 3 {
		t.Fatalf("flat scan failed: %+v", cand)
	}
}

func TestMatchSubParentNarrowsRange(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{
		{row: 2, task: "Tower 4", bold: true},
		{row: 3, task: "Brickwork", pct: "0.30"},
		{row: 4, task: "Fifth Floor Slab", bold: true},
		{row: 5, task: "Brickwork", pct: "0.80"},
		{row: 7, task: "Tower 5", bold: true},
		{row: 8, task: "Brickwork", pct: "0.10"},
	})

	target := model.TargetActivity{
		Parent:    "Tower 4",
		SubParent: "Fifth Floor Slab",
		Child:     "Brickwork",
	}
	cand := engine.Match(target, tr, engine.DefaultMatchOptions())
	if cand == nil {
		t.Fatal("expected a match")
	}
	if cand.Row != 5 {
		t.Fatalf("matched row %d, want 5 (inside sub-parent range)", cand.Row)
	}
}

func TestMatchSectionFilterDisambiguates(t *testing.T) {
	rows := []trackerRowSpec{
		{row: 10, task: "Lower Basement Zone A", bold: true},
		{row: 11, task: "Raft Casting", pct: "0.25"},
		{row: 36, task: "Lower Basement Zone B", bold: true},
		{row: 37, task: "Raft Casting", pct: "0.75"},
	}
	target := model.TargetActivity{Parent: "Lower Basement", Child: "Raft Casting"}

	tr := buildTracker(t, rows)

	// Without a filter the earlier section wins.
	cand := engine.Match(target, tr, engine.DefaultMatchOptions())
	if cand == nil || cand.Row != 11 {
		t.Fatalf("unfiltered match = %+v, want row 11", cand)
	}

	opts := engine.DefaultMatchOptions()
	opts.SectionFilter = func(s model.TrackerSection) bool { return s.AnchorRow >= 36 }
	cand = engine.Match(target, tr, opts)
	if cand == nil || cand.Row != 37 {
		t.Fatalf("filtered match = %+v, want row 37", cand)
	}
}

func TestMatchFallsBackToFlatScan(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{
		{row: 2, task: "Completely Different Section", bold: true},
		{row: 3, task: "Gypsum board false ceiling", pct: "0.40"},
	})
	target := model.TargetActivity{
		Parent: "Tower 9",
		Child:  "Gypsum board false ceiling",
	}
	cand := engine.Match(target, tr, engine.DefaultMatchOptions())
	if cand == nil || cand.Row != 3 {
		t.Fatalf("fallback flat scan = %+v, want row 3", cand)
	}
}

func TestMatchNeverPanicsOnEmptyTracker(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{{row: 2, task: ""}})
	if cand := engine.Match(model.TargetActivity{Parent: "X", Child: "Y"}, tr, engine.DefaultMatchOptions()); cand != nil {
		t.Fatalf("expected nil on empty tracker, got %+v", cand)
	}
}

func TestMatchTieBreaksToEarliestRow(t *testing.T) {
	tr := buildTracker(t, []trackerRowSpec{
		{row: 2, task: "Section", bold: true},
		{row: 3, task: "Paint 1st Coat", pct: "0.20"},
		{row: 4, task: "Paint 1st Coat", pct: "0.90"},
	})
	cand := engine.Match(model.TargetActivity{Child: "Paint 1st Coat"}, tr, engine.DefaultMatchOptions())
	if cand == nil || cand.Row != 3 {
		t.Fatalf("tie break = %+v, want earliest row 3", cand)
	}
}
