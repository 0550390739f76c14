package engine

import (
	"log"
	"time"

	"github.com/xuri/excelize/v2"

	"sitereport/internal/sheet"
)

// CountTintedDates scans the intersection of the given columns and row range
// for cells holding a date in the target year/month whose solid fill matches
// the completion tint. Pour and slab-casting trackers mark completed work
// this way instead of keeping a percent field.
//
// A date in the right month with the wrong tint does not count, and neither
// does the right tint with a date in another month. Unparsable cells are
// skipped, never fatal.
func CountTintedDates(sh *sheet.Sheet, columns []string, rowStart, rowEnd int, year int, month time.Month, tint string) int {
	want := sheet.NormalizeColor(tint)
	count := 0
	for _, col := range columns {
		colNum, err := excelize.ColumnNameToNumber(col)
		if err != nil {
			log.Printf("tint count: bad column %q: %v", col, err)
			continue
		}
		for row := rowStart; row <= rowEnd; row++ {
			cell := sh.Cell(row, colNum)
			if cell.Value == "" {
				continue
			}
			d, ok := ParseCellDate(cell.Value)
			if !ok {
				continue
			}
			if d.Year() == year && d.Month() == month && cell.Fill == want {
				count++
			}
		}
	}
	return count
}

// DetectTrackerYear infers the year a tracker's dated range was authored for
// by taking the latest year present in the range. Used when a layout does not
// pin the year explicitly.
func DetectTrackerYear(sh *sheet.Sheet, columns []string, rowStart, rowEnd int) int {
	best := 0
	for _, col := range columns {
		colNum, err := excelize.ColumnNameToNumber(col)
		if err != nil {
			continue
		}
		for row := rowStart; row <= rowEnd; row++ {
			if d, ok := ParseCellDate(sh.Cell(row, colNum).Value); ok && d.Year() > best {
				best = d.Year()
			}
		}
	}
	if best == 0 {
		return time.Now().Year()
	}
	return best
}
