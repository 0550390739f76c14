// Package exporter renders progress records into the styled milestone
// report workbook.
package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"sitereport/internal/model"
)

// Section is one titled block of the report, closed by a total delay row.
type Section struct {
	Title      string
	TotalLabel string
	Records    []model.ProgressRecord
}

// Report is the full workbook content.
type Report struct {
	Title       string
	SheetName   string
	Months      []string
	GeneratedAt time.Time
	Sections    []Section
}

type styles struct {
	title      int
	date       int
	sectionBar int
	header     int
	bodyLeft   int
	bodyCenter int
	total      int
	totalLeft  int
}

// Build renders the report into a new workbook.
func Build(rep Report) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := rep.SheetName
	if sheetName == "" {
		sheetName = "Milestone Report"
	}
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		return nil, err
	}

	cols := columns(rep.Months)
	nCols := len(cols)
	lastCol, _ := excelize.ColumnNumberToName(nCols)

	generated := rep.GeneratedAt
	if generated.IsZero() {
		generated = time.Now()
	}

	// Title and date rows span the full table width.
	f.SetCellValue(sheetName, "A1", rep.Title)
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellStyle(sheetName, "A1", lastCol+"1", st.title)

	f.SetCellValue(sheetName, "A2", "Report Generated on: "+generated.Format("02-01-2006"))
	f.MergeCell(sheetName, "A2", lastCol+"2")
	f.SetCellStyle(sheetName, "A2", lastCol+"2", st.date)

	row := 4
	for _, sec := range rep.Sections {
		row = writeSection(f, sheetName, sec, rep.Months, cols, st, row)
	}

	setColumnWidths(f, sheetName, cols, rep.Months, rep.Sections)
	for r := 1; r < row; r++ {
		f.SetRowHeight(sheetName, r, 22)
	}

	return f, nil
}

// Write renders the report and streams the workbook to w.
func Write(w io.Writer, rep Report) error {
	f, err := Build(rep)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Write(w)
}

func columns(months []string) []string {
	last := ""
	if len(months) > 0 {
		last = months[len(months)-1]
	}
	cols := []string{"Milestone", "Block", "Activity", "Target Till " + last}
	for _, m := range months {
		cols = append(cols, "% Work Done against Target-Till "+m)
	}
	cols = append(cols, "Weightage", "Weighted Delay against Targets")
	for _, m := range months {
		cols = append(cols, "Target achieved in "+m)
	}
	return append(cols, "Remarks")
}

func writeSection(f *excelize.File, sheetName string, sec Section, months, cols []string, st styles, row int) int {
	nCols := len(cols)
	lastCol, _ := excelize.ColumnNumberToName(nCols)

	// Section title bar.
	start := fmt.Sprintf("A%d", row)
	f.SetCellValue(sheetName, start, sec.Title)
	f.MergeCell(sheetName, start, fmt.Sprintf("%s%d", lastCol, row))
	f.SetCellStyle(sheetName, start, fmt.Sprintf("%s%d", lastCol, row), st.sectionBar)
	row++

	for i, h := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		f.SetCellValue(sheetName, cell, h)
	}
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("%s%d", lastCol, row), st.header)
	row++

	totalDelay := 0.0
	for _, rec := range sec.Records {
		vals := recordRow(rec, months)
		for i, v := range vals {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			f.SetCellValue(sheetName, cell, v)
		}
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), st.bodyLeft)
		f.SetCellStyle(sheetName, fmt.Sprintf("D%d", row), fmt.Sprintf("%s%d", lastCol, row), st.bodyCenter)
		totalDelay += rec.WeightedPercent
		row++
	}

	// Total delay row, yellow, with the sum under the weighted column.
	weightedCol := 4 + len(months) + 2
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), sec.TotalLabel)
	totalCell, _ := excelize.CoordinatesToCellName(weightedCol, row)
	f.SetCellValue(sheetName, totalCell, percentText(round2(totalDelay)))
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), st.totalLeft)
	f.SetCellStyle(sheetName, fmt.Sprintf("B%d", row), fmt.Sprintf("%s%d", lastCol, row), st.total)
	row++

	return row + 1
}

func recordRow(rec model.ProgressRecord, months []string) []string {
	vals := []string{rec.MilestoneID, rec.Block, rec.Activity, rec.TargetDescription}
	for _, m := range months {
		if pct, ok := rec.PercentByMonth[m]; ok {
			vals = append(vals, percentText(pct))
		} else {
			vals = append(vals, "")
		}
	}
	vals = append(vals, fmt.Sprintf("%v", rec.Weightage), percentText(rec.WeightedPercent))
	for _, m := range months {
		vals = append(vals, rec.AchievedByMonth[m])
	}
	return append(vals, remarks(rec))
}

func remarks(rec model.ProgressRecord) string {
	switch rec.Status {
	case model.StatusNoMatch:
		return "No tracker match, needs review"
	case model.StatusNoData:
		return "Tracker sheet missing"
	case model.StatusOverridden:
		return "Manual override"
	case model.StatusNotApplicable:
		return "No activity planned"
	default:
		return ""
	}
}

func percentText(v float64) string {
	return fmt.Sprintf("%v%%", v)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

func newStyles(f *excelize.File) (styles, error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}
	left := &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true}
	grey := excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1}
	yellow := excelize.Fill{Type: "pattern", Color: []string{"#FFFF00"}, Pattern: 1}

	var st styles
	var err error
	if st.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14}, Fill: grey, Alignment: center,
	}); err != nil {
		return st, err
	}
	if st.date, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 10, Color: "666666"}, Alignment: center,
	}); err != nil {
		return st, err
	}
	if st.sectionBar, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: grey, Alignment: center, Border: border,
	}); err != nil {
		return st, err
	}
	if st.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Alignment: center, Border: border,
	}); err != nil {
		return st, err
	}
	if st.bodyLeft, err = f.NewStyle(&excelize.Style{Alignment: left, Border: border}); err != nil {
		return st, err
	}
	if st.bodyCenter, err = f.NewStyle(&excelize.Style{Alignment: center, Border: border}); err != nil {
		return st, err
	}
	if st.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: yellow, Alignment: center, Border: border,
	}); err != nil {
		return st, err
	}
	if st.totalLeft, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true}, Fill: yellow, Alignment: left, Border: border,
	}); err != nil {
		return st, err
	}
	return st, nil
}

func setColumnWidths(f *excelize.File, sheetName string, cols, months []string, sections []Section) {
	for i, h := range cols {
		maxLen := len(h)
		for _, sec := range sections {
			for _, rec := range sec.Records {
				row := recordRow(rec, months)
				if i < len(row) && len(row[i]) > maxLen {
					maxLen = len(row[i])
				}
			}
		}
		width := float64(maxLen + 4)
		if width > 60 {
			width = 60
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, name, name, width)
	}
}
