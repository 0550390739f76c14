package engine

import (
	"sort"

	"sitereport/internal/model"
)

// MatchOptions tunes one hierarchy-matching query. Thresholds that differ
// between call sites (anchor vs child) live here instead of per-project code.
type MatchOptions struct {
	// ChildThreshold is the minimum Score for a child row to be accepted.
	ChildThreshold float64
	// AnchorThreshold is the minimum word-overlap for a bold header to
	// qualify as a parent or sub-parent anchor.
	AnchorThreshold float64
	// SectionFilter, when set, is evaluated before a section may become a
	// parent candidate. Disambiguates sibling areas with near-identical
	// labels (row-range or marker rules supplied by the caller).
	SectionFilter model.SectionFilter
	// StopAtBlank ends a narrowed in-section scan at the first blank task
	// cell; some tracker layouts terminate a logical block that way.
	StopAtBlank bool
}

// DefaultMatchOptions returns the thresholds shared by all projects:
// 0.8 for child rows, 0.6 word-overlap for hierarchy anchors.
func DefaultMatchOptions() MatchOptions {
	return MatchOptions{ChildThreshold: 0.8, AnchorThreshold: 0.6}
}

func (o MatchOptions) withDefaults() MatchOptions {
	if o.ChildThreshold == 0 {
		o.ChildThreshold = 0.8
	}
	if o.AnchorThreshold == 0 {
		o.AnchorThreshold = 0.6
	}
	return o
}

// Match locates the tracker row corresponding to a target activity. It never
// fails: a target that cannot be matched yields nil, and the caller decides
// how to report the absence.
//
// Search order: parent-anchored sections (narrowed by sub-parent when
// present), then a flat scan over the whole sheet as fallback. Ties are
// broken by the earliest row, so results are deterministic.
func Match(target model.TargetActivity, tr *Tracker, opts MatchOptions) *model.MatchCandidate {
	opts = opts.withDefaults()

	if Normalize(target.Child) == "" {
		return nil
	}

	if !target.HasHierarchy() {
		return bestChild(tr.Rows, target.Child, opts, false)
	}

	parents := parentCandidates(target.Parent, tr.Sections, opts)
	if len(parents) == 0 {
		return bestChild(tr.Rows, target.Child, opts, false)
	}

	// Anchor rows of all parent candidates, for bounding sub-parent lookups
	// at the next sibling parent.
	parentRows := make([]int, len(parents))
	for i, p := range parents {
		parentRows[i] = p.AnchorRow
	}
	sort.Ints(parentRows)

	for _, section := range parents {
		if target.SubParent != "" {
			if sub, ok := findSubParent(target, tr.Sections, section, parentRows, opts); ok {
				if c := bestChild(rowsInRange(tr, sub.AnchorRow+1, sub.EndRow), target.Child, opts, opts.StopAtBlank); c != nil {
					return c
				}
			}
		}
		if c := bestChild(rowsInRange(tr, section.AnchorRow+1, section.EndRow), target.Child, opts, opts.StopAtBlank); c != nil {
			return c
		}
	}

	// Hierarchy search exhausted; fall back to a flat scan.
	return bestChild(tr.Rows, target.Child, opts, false)
}

// parentCandidates returns the sections whose anchors qualify for the target
// parent, best score first, earlier row first on equal scores.
func parentCandidates(parent string, sections []model.TrackerSection, opts MatchOptions) []model.TrackerSection {
	type scored struct {
		section model.TrackerSection
		score   float64
	}
	var out []scored
	for _, s := range sections {
		if opts.SectionFilter != nil && !opts.SectionFilter(s) {
			continue
		}
		if !MatchesAnchor(parent, s.AnchorText, opts.AnchorThreshold) {
			continue
		}
		out = append(out, scored{section: s, score: Score(parent, s.AnchorText)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		return out[i].section.AnchorRow < out[j].section.AnchorRow
	})
	result := make([]model.TrackerSection, len(out))
	for i, s := range out {
		result[i] = s.section
	}
	return result
}

// findSubParent looks for a sub-parent anchor in the sections following the
// parent section, stopping at the next sibling parent anchor.
func findSubParent(target model.TargetActivity, sections []model.TrackerSection, parent model.TrackerSection, parentRows []int, opts MatchOptions) (model.TrackerSection, bool) {
	bound := nextParentRow(parentRows, parent.AnchorRow)
	for _, s := range sections {
		if s.AnchorRow <= parent.AnchorRow {
			continue
		}
		if bound > 0 && s.AnchorRow >= bound {
			break
		}
		if MatchesAnchor(target.SubParent, s.AnchorText, opts.AnchorThreshold) {
			return s, true
		}
	}
	return model.TrackerSection{}, false
}

// nextParentRow returns the smallest parent anchor row greater than row,
// or 0 when the parent is the last one.
func nextParentRow(parentRows []int, row int) int {
	for _, r := range parentRows {
		if r > row {
			return r
		}
	}
	return 0
}

// bestChild scans non-bold rows for the highest-scoring child match at or
// above the child threshold. A strictly-greater comparison keeps the earliest
// row on ties.
func bestChild(rows []model.TrackerRow, child string, opts MatchOptions, stopAtBlank bool) *model.MatchCandidate {
	var best *model.MatchCandidate
	for _, r := range rows {
		if r.Task == "" {
			if stopAtBlank {
				break
			}
			continue
		}
		if r.Bold {
			continue
		}
		s := Score(child, r.Task)
		if s < opts.ChildThreshold {
			continue
		}
		if best == nil || s > best.Score {
			best = &model.MatchCandidate{Row: r.Row, Score: s, MatchedText: r.Task}
		}
	}
	return best
}

// rowsInRange returns the tracker rows with sheet row in [start, end).
func rowsInRange(tr *Tracker, start, end int) []model.TrackerRow {
	var out []model.TrackerRow
	for _, r := range tr.Rows {
		if r.Row >= start && r.Row < end {
			out = append(out, r)
		}
	}
	return out
}
