package sheet

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is the engine-facing view of a spreadsheet cell. Formatting that the
// trackers use as a semantic signal (bold = section header, solid fill =
// completion tint) is surfaced here so no other package touches styles.
type Cell struct {
	Value string
	Bold  bool
	// Fill is the solid-fill color as normalized RGB hex ("92D050"),
	// empty when the cell has no solid fill.
	Fill string
}

// Sheet is an immutable in-memory grid of one worksheet. Safe for concurrent
// reads; nothing is mutated after Load returns.
type Sheet struct {
	Name   string
	MaxRow int
	MaxCol int

	rows [][]Cell
}

// Workbook is a read-only set of sheets materialized from workbook bytes.
type Workbook struct {
	order  []string
	sheets map[string]*Sheet
}

// Load reads workbook bytes into an immutable Workbook. The excelize file is
// closed before returning; callers never see the underlying object model.
func Load(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return FromExcelize(f)
}

// FromExcelize materializes an already-open excelize file. Used by Load and
// by tests that build workbooks in memory.
func FromExcelize(f *excelize.File) (*Workbook, error) {
	wb := &Workbook{sheets: make(map[string]*Sheet)}

	// Style lookups repeat heavily across a sheet; resolve each style ID once.
	styleCache := make(map[int]cellStyle)

	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}

		sh := &Sheet{Name: name, MaxRow: len(rows)}
		sh.rows = make([][]Cell, len(rows))
		for i, raw := range rows {
			if len(raw) > sh.MaxCol {
				sh.MaxCol = len(raw)
			}
			cells := make([]Cell, len(raw))
			for j, v := range raw {
				c := Cell{Value: strings.TrimSpace(v)}
				axis, err := excelize.CoordinatesToCellName(j+1, i+1)
				if err == nil {
					styleID, err := f.GetCellStyle(name, axis)
					if err == nil {
						info, ok := styleCache[styleID]
						if !ok {
							info = resolveStyle(f, styleID)
							styleCache[styleID] = info
						}
						c.Bold = info.bold
						c.Fill = info.fill
					}
				}
				cells[j] = c
			}
			sh.rows[i] = cells
		}

		wb.order = append(wb.order, name)
		wb.sheets[name] = sh
	}

	return wb, nil
}

type cellStyle struct {
	bold bool
	fill string
}

func resolveStyle(f *excelize.File, styleID int) (info cellStyle) {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return info
	}
	if style.Font != nil {
		info.bold = style.Font.Bold
	}
	// Pattern 1 is a solid fill; anything else is not a completion tint.
	if style.Fill.Type == "pattern" && style.Fill.Pattern == 1 && len(style.Fill.Color) > 0 {
		info.fill = NormalizeColor(style.Fill.Color[0])
	}
	return info
}

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string {
	out := make([]string, len(w.order))
	copy(out, w.order)
	return out
}

// Sheet looks up a sheet by exact name.
func (w *Workbook) Sheet(name string) (*Sheet, bool) {
	sh, ok := w.sheets[name]
	return sh, ok
}

// Cell returns the cell at 1-based (row, col); a zero Cell when out of range.
func (s *Sheet) Cell(row, col int) Cell {
	if row < 1 || row > len(s.rows) {
		return Cell{}
	}
	r := s.rows[row-1]
	if col < 1 || col > len(r) {
		return Cell{}
	}
	return r[col-1]
}

// CellAt returns the cell at an A1-style reference ("D5").
func (s *Sheet) CellAt(ref string) Cell {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return Cell{}
	}
	return s.Cell(row, col)
}

// NormalizeColor canonicalizes a fill color for comparison: upper-case hex,
// no "#" prefix, ARGB alpha stripped. "#92d050", "92D050" and "FF92D050" all
// normalize to "92D050".
func NormalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(c), "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	return c
}
