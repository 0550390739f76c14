// Package kra extracts planned targets from KRA workbooks: hierarchical
// activity stacks per block/month, and fixed-cell quantity targets for
// count-based milestones.
package kra

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"sitereport/internal/model"
	"sitereport/internal/sheet"
)

// BlockRef is a block/tower header located in the KRA sheet.
type BlockRef struct {
	Name string
	Row  int
}

// FindBlocks scans one column for block headers carrying any of the
// configured prefixes ("Tower", "NTA-"). Generic one-word headers and
// duplicates are skipped.
func FindBlocks(sh *sheet.Sheet, column int, prefixes []string) []BlockRef {
	var out []BlockRef
	seen := make(map[string]struct{})
	for row := 1; row <= sh.MaxRow; row++ {
		val := sh.Cell(row, column).Value
		if val == "" {
			continue
		}
		if !hasAnyPrefix(val, prefixes) {
			continue
		}
		// "Tower" alone is a column header, not a block.
		if isBarePrefix(val, prefixes) {
			continue
		}
		if _, dup := seen[val]; dup {
			continue
		}
		seen[val] = struct{}{}
		out = append(out, BlockRef{Name: val, Row: row})
		log.Printf("kra: found block %q at row %d", val, row)
	}
	return out
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isBarePrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.TrimSpace(s) == strings.TrimSpace(p) {
			return true
		}
	}
	return false
}

// ExtractBlockTargets reads the activity stack under a block header for each
// month column and folds it into a target hierarchy. Month names, the block's
// own name, and the literal "Activity" header are not activities.
func ExtractBlockTargets(sh *sheet.Sheet, block BlockRef, months []string, monthCols map[string]int, scanDepth int) []model.TargetActivity {
	if scanDepth <= 0 {
		scanDepth = 8
	}
	monthSet := make(map[string]struct{}, len(months))
	for _, m := range months {
		monthSet[m] = struct{}{}
	}

	var out []model.TargetActivity
	for _, month := range months {
		col, ok := monthCols[month]
		if !ok {
			continue
		}
		var labels []string
		for offset := 0; offset < scanDepth; offset++ {
			row := block.Row + offset
			if row > sh.MaxRow {
				break
			}
			val := sh.Cell(row, col).Value
			if val == "" {
				continue
			}
			if _, isMonth := monthSet[val]; isMonth || val == block.Name || val == "Activity" {
				continue
			}
			labels = append(labels, val)
		}
		if len(labels) == 0 {
			log.Printf("kra: %s / %s: no activities found", block.Name, month)
			continue
		}

		t := ParseHierarchy(labels)
		t.MilestoneID = block.Name
		t.Block = block.Name
		t.Month = month
		out = append(out, t)
	}
	return out
}

// ParseHierarchy folds an ordered label stack into the three-level target
// hierarchy: one label is a bare child, two are parent+child, three or more
// take the first three as parent, sub-parent, child.
func ParseHierarchy(labels []string) model.TargetActivity {
	cleaned := make([]string, 0, len(labels))
	for _, l := range labels {
		if l = strings.TrimSpace(l); l != "" {
			cleaned = append(cleaned, l)
		}
	}

	switch len(cleaned) {
	case 0:
		return model.TargetActivity{}
	case 1:
		return model.TargetActivity{Child: cleaned[0], TargetDisplay: cleaned[0]}
	case 2:
		return model.TargetActivity{Parent: cleaned[0], Child: cleaned[1], TargetDisplay: cleaned[0]}
	default:
		return model.TargetActivity{
			Parent:        cleaned[0],
			SubParent:     cleaned[1],
			Child:         cleaned[2],
			TargetDisplay: cleaned[0] + " - " + cleaned[1],
		}
	}
}

var firstIntRe = regexp.MustCompile(`\d+`)

// ExtractNumber reads the first integer in a target cell; "-" and empty mean
// zero ("4 Slabs", "-", "3 pours planned").
func ExtractNumber(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "-" {
		return 0
	}
	m := firstIntRe.FindString(raw)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return float64(n)
}

// CellRef addresses one month's quantity target in the KRA sheet.
type CellRef struct {
	Cell string
	Unit string
}

// ReadTargetCells reads an activity's per-month quantity targets from fixed
// KRA cells, returning the quantities and the activity's unit label.
func ReadTargetCells(sh *sheet.Sheet, byMonth map[string]CellRef) (map[string]float64, string) {
	targets := make(map[string]float64, len(byMonth))
	unit := ""
	for month, ref := range byMonth {
		targets[month] = ExtractNumber(sh.CellAt(ref.Cell).Value)
		if ref.Unit != "" {
			unit = ref.Unit
		}
	}
	return targets, unit
}
