package engine_test

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sitereport/internal/engine"
	"sitereport/internal/sheet"
)

type tintedCellSpec struct {
	ref  string
	date string
	fill string
}

func buildTintedSheet(t *testing.T, cells []tintedCellSpec) *sheet.Sheet {
	t.Helper()

	f := excelize.NewFile()
	name := f.GetSheetName(f.GetActiveSheetIndex())

	for _, c := range cells {
		if err := f.SetCellValue(name, c.ref, c.date); err != nil {
			t.Fatalf("SetCellValue %s failed: %v", c.ref, err)
		}
		if c.fill != "" {
			style, err := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{c.fill}},
			})
			if err != nil {
				t.Fatalf("NewStyle failed: %v", err)
			}
			if err := f.SetCellStyle(name, c.ref, c.ref, style); err != nil {
				t.Fatalf("SetCellStyle %s failed: %v", c.ref, err)
			}
		}
	}

	wb, err := sheet.FromExcelize(f)
	if err != nil {
		t.Fatalf("FromExcelize failed: %v", err)
	}
	sh, ok := wb.Sheet(name)
	if !ok {
		t.Fatalf("sheet %q missing", name)
	}
	return sh
}

func TestCountTintedDates(t *testing.T) {
	sh := buildTintedSheet(t, []tintedCellSpec{
		{ref: "D6", date: "15-07-2025", fill: "92D050"},  // July + tint: counts
		{ref: "H9", date: "20-06-2025", fill: "92D050"},  // June: wrong month
		{ref: "D8", date: "10-07-2025", fill: "FFFF00"},  // July but wrong tint
		{ref: "H5", date: "01-07-2025"},                  // July, no fill
		{ref: "D20", date: "02-07-2025", fill: "92D050"}, // outside row range
	})

	got := engine.CountTintedDates(sh, []string{"D", "H"}, 5, 12, 2025, time.July, "#92D050")
	if got != 1 {
		t.Fatalf("CountTintedDates=%d, want 1", got)
	}
}

func TestCountTintedDatesAlphaPrefixedTint(t *testing.T) {
	sh := buildTintedSheet(t, []tintedCellSpec{
		{ref: "D5", date: "05-07-2025", fill: "92D050"},
	})
	// Original trackers carry the tint as ARGB ("FF92D050").
	if got := engine.CountTintedDates(sh, []string{"D"}, 5, 5, 2025, time.July, "FF92D050"); got != 1 {
		t.Fatalf("ARGB tint: got %d, want 1", got)
	}
}

func TestCountTintedDatesSkipsUnparsable(t *testing.T) {
	sh := buildTintedSheet(t, []tintedCellSpec{
		{ref: "D5", date: "TBD", fill: "92D050"},
		{ref: "D6", date: "31-07-2025", fill: "92D050"},
	})
	if got := engine.CountTintedDates(sh, []string{"D"}, 5, 6, 2025, time.July, "92D050"); got != 1 {
		t.Fatalf("unparsable cell should be skipped: got %d, want 1", got)
	}
}

func TestDetectTrackerYear(t *testing.T) {
	sh := buildTintedSheet(t, []tintedCellSpec{
		{ref: "D5", date: "15-07-2024"},
		{ref: "D6", date: "15-08-2025"},
	})
	if got := engine.DetectTrackerYear(sh, []string{"D"}, 5, 6); got != 2025 {
		t.Fatalf("DetectTrackerYear=%d, want 2025", got)
	}
}
