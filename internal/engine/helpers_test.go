package engine_test

import (
	"fmt"
	"testing"

	"github.com/xuri/excelize/v2"

	"sitereport/internal/engine"
	"sitereport/internal/sheet"
)

type trackerRowSpec struct {
	row  int
	task string
	bold bool
	pct  string
}

// buildTrackerSheet writes task names into column D and percent values into
// column G of a real workbook, marks the requested rows bold, and returns the
// immutable sheet view.
func buildTrackerSheet(t *testing.T, rows []trackerRowSpec) *sheet.Sheet {
	t.Helper()

	f := excelize.NewFile()
	name := f.GetSheetName(f.GetActiveSheetIndex())

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		t.Fatalf("NewStyle failed: %v", err)
	}

	for _, r := range rows {
		taskCell := fmt.Sprintf("D%d", r.row)
		if err := f.SetCellValue(name, taskCell, r.task); err != nil {
			t.Fatalf("SetCellValue %s failed: %v", taskCell, err)
		}
		if r.bold {
			if err := f.SetCellStyle(name, taskCell, taskCell, boldStyle); err != nil {
				t.Fatalf("SetCellStyle %s failed: %v", taskCell, err)
			}
		}
		if r.pct != "" {
			if err := f.SetCellValue(name, fmt.Sprintf("G%d", r.row), r.pct); err != nil {
				t.Fatalf("SetCellValue G%d failed: %v", r.row, err)
			}
		}
	}

	wb, err := sheet.FromExcelize(f)
	if err != nil {
		t.Fatalf("FromExcelize failed: %v", err)
	}
	sh, ok := wb.Sheet(name)
	if !ok {
		t.Fatalf("sheet %q missing after load", name)
	}
	return sh
}

func buildTracker(t *testing.T, rows []trackerRowSpec) *engine.Tracker {
	t.Helper()
	return engine.NewTracker(buildTrackerSheet(t, rows), engine.DefaultTrackerColumns())
}
