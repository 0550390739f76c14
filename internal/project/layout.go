// Package project holds the data-driven layout schema that replaces the
// per-project script forks: every project-specific row/column table, sheet
// map, tint, and override lives in one TOML file per project.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"sitereport/internal/model"
)

// Layout is the full per-project configuration.
type Layout struct {
	Name   string   `toml:"name"`
	Title  string   `toml:"title"`
	Months []string `toml:"months"`

	KRA     KRASpec     `toml:"kra"`
	Tracker TrackerSpec `toml:"tracker"`

	// Overrides fixes a block's percentage without matching; keyed by
	// milestone ID or block name.
	Overrides map[string]float64 `toml:"overrides"`

	// Milestones declares count-based milestones (tinted ranges, finish-date
	// counting) and per-milestone matching constraints. Hierarchy-mode
	// projects that derive all milestones from the KRA sheet may leave this
	// empty.
	Milestones []MilestoneSpec `toml:"milestones"`
}

// KRASpec locates the target definitions in the KRA workbook.
type KRASpec struct {
	ObjectKey     string         `toml:"object_key"`
	Sheet         string         `toml:"sheet"`
	BlockColumn   int            `toml:"block_column"`
	BlockPrefixes []string       `toml:"block_prefixes"`
	MonthColumns  map[string]int `toml:"month_columns"`
	ScanDepth     int            `toml:"scan_depth"`
}

// TrackerSpec locates the as-built tracker workbook and its columns.
type TrackerSpec struct {
	ObjectKey     string            `toml:"object_key"`
	TaskColumn    int               `toml:"task_column"`
	PercentColumn int               `toml:"percent_column"`
	FinishColumn  int               `toml:"finish_column"`
	SheetMap      map[string]string `toml:"sheet_map"`
}

// MilestoneSpec declares one explicitly configured milestone.
type MilestoneSpec struct {
	ID       string `toml:"id"`
	Block    string `toml:"block"`
	Activity string `toml:"activity"`
	Unit     string `toml:"unit"`

	// Mode is "tinted-count", "date-count", or "hierarchy".
	Mode string `toml:"mode"`

	// Sheet is the tracker sheet holding this milestone's data.
	Sheet string `toml:"sheet"`

	// Tinted-count fields: the dated cell range and the completion tint.
	Columns  []string `toml:"columns"`
	RowStart int      `toml:"row_start"`
	RowEnd   int      `toml:"row_end"`
	Tint     string   `toml:"tint"`
	Year     int      `toml:"year"`

	// Date-count fields: the tracker spellings of this activity.
	Aliases []string `toml:"aliases"`

	// TargetCells maps month to the fixed KRA cell carrying its quantity.
	TargetCells map[string]TargetCell `toml:"target_cells"`

	// Anchor constraints, turned into a section filter for matching.
	AnchorMinRow int    `toml:"anchor_min_row"`
	AnchorMaxRow int    `toml:"anchor_max_row"`
	Marker       string `toml:"marker"`
}

// TargetCell addresses one month's quantity target in the KRA sheet.
type TargetCell struct {
	Cell string `toml:"cell"`
	Unit string `toml:"unit"`
}

// Milestone modes.
const (
	ModeHierarchy   = "hierarchy"
	ModeTintedCount = "tinted-count"
	ModeDateCount   = "date-count"
)

// SectionFilter builds the anchor predicate declared by the milestone's
// row-range and marker fields; nil when no constraint is declared.
func (m MilestoneSpec) SectionFilter() model.SectionFilter {
	if m.AnchorMinRow == 0 && m.AnchorMaxRow == 0 && m.Marker == "" {
		return nil
	}
	minRow, maxRow, marker := m.AnchorMinRow, m.AnchorMaxRow, strings.ToLower(m.Marker)
	return func(s model.TrackerSection) bool {
		if minRow > 0 && s.AnchorRow < minRow {
			return false
		}
		if maxRow > 0 && s.AnchorRow > maxRow {
			return false
		}
		if marker != "" && !strings.Contains(strings.ToLower(s.AnchorText), marker) {
			return false
		}
		return true
	}
}

// Validate checks the fields every mode needs.
func (l *Layout) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("layout: name is required")
	}
	if len(l.Months) == 0 {
		return fmt.Errorf("layout %s: months is required", l.Name)
	}
	for i, m := range l.Milestones {
		switch m.Mode {
		case "", ModeHierarchy:
		case ModeTintedCount:
			if len(m.Columns) == 0 || m.RowEnd < m.RowStart || m.Tint == "" {
				return fmt.Errorf("layout %s: milestone %d: tinted-count needs columns, row range and tint", l.Name, i)
			}
		case ModeDateCount:
			if len(m.Aliases) == 0 {
				return fmt.Errorf("layout %s: milestone %d: date-count needs aliases", l.Name, i)
			}
		default:
			return fmt.Errorf("layout %s: milestone %d: unknown mode %q", l.Name, i, m.Mode)
		}
	}
	return nil
}

// Parse decodes and validates a single layout document.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := toml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// Registry holds all loaded project layouts.
type Registry struct {
	layouts map[string]*Layout
}

// LoadDir loads every *.toml layout in a directory.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read layout dir: %w", err)
	}

	r := &Registry{layouts: make(map[string]*Layout)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", e.Name(), err)
		}
		l, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("layout %s: %w", e.Name(), err)
		}
		if _, dup := r.layouts[l.Name]; dup {
			return nil, fmt.Errorf("duplicate layout name %q", l.Name)
		}
		r.layouts[l.Name] = l
	}
	return r, nil
}

// Get looks a layout up by project name.
func (r *Registry) Get(name string) (*Layout, bool) {
	l, ok := r.layouts[name]
	return l, ok
}

// Names returns the loaded project names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.layouts))
	for n := range r.layouts {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
