package engine

import (
	"errors"
	"log"

	"sitereport/internal/model"
	"sitereport/internal/sheet"
)

// Options parameterizes one progress computation. Everything the original
// per-project scripts kept as package globals (reporting month, sheet maps,
// hardcoded percentages) is an explicit field here.
type Options struct {
	// Months is the canonical month order of the reporting window.
	Months []string
	// ReportingMonth is the month tracker data exists for; percentages are
	// computed for it and earlier months only.
	ReportingMonth string
	// Columns locates the task/percent columns in the tracker sheets.
	Columns TrackerColumns
	// SheetMap maps a target's block name to its tracker sheet; blocks
	// missing from the map use their own name.
	SheetMap map[string]string
	// Overrides supplies fixed percentages keyed by milestone ID (checked
	// first) or block name, bypassing matching entirely.
	Overrides map[string]float64
	// Match holds the shared matching thresholds.
	Match MatchOptions
	// SectionFilters restricts hierarchy anchors per milestone ID.
	SectionFilters map[string]model.SectionFilter
}

// ErrNoTargets is returned when the target list itself is empty; unlike
// per-activity failures this is structural and aborts the computation.
var ErrNoTargets = errors.New("engine: no target activities")

// ComputeProgress matches each milestone's reporting-month target against
// the tracker workbook and returns one ProgressRecord per milestone, in
// first-seen target order.
//
// Per-milestone failures (missing sheet, no match, unparsable cells) degrade
// to a flagged 0% record and never abort the run.
func ComputeProgress(targets []model.TargetActivity, wb *sheet.Workbook, opts Options) ([]model.ProgressRecord, error) {
	if len(targets) == 0 {
		return nil, ErrNoTargets
	}

	// One record per milestone; the reporting month's target drives matching.
	order := make([]string, 0)
	byMilestone := make(map[string][]model.TargetActivity)
	for _, t := range targets {
		if _, seen := byMilestone[t.MilestoneID]; !seen {
			order = append(order, t.MilestoneID)
		}
		byMilestone[t.MilestoneID] = append(byMilestone[t.MilestoneID], t)
	}

	weightage := Weightage(len(order))
	trackers := make(map[string]*Tracker)

	records := make([]model.ProgressRecord, 0, len(order))
	for _, id := range order {
		records = append(records, computeMilestone(id, byMilestone[id], wb, trackers, weightage, opts))
	}
	return records, nil
}

func computeMilestone(id string, targets []model.TargetActivity, wb *sheet.Workbook, trackers map[string]*Tracker, weightage float64, opts Options) model.ProgressRecord {
	target := reportingTarget(targets, opts.ReportingMonth)

	rec := model.ProgressRecord{
		MilestoneID:       id,
		Block:             target.Block,
		Activity:          target.Child,
		TargetDescription: target.TargetDisplay,
		PercentByMonth:    make(map[string]float64),
		AchievedByMonth:   make(map[string]string),
		Weightage:         weightage,
	}

	finish := func(pct float64, status model.MatchStatus) model.ProgressRecord {
		rec.Status = status
		rec.PercentByMonth[opts.ReportingMonth] = clampPercent(pct)
		rec.WeightedPercent = round2(clampPercent(pct) * weightage / 100)
		return rec
	}

	if pct, ok := lookupOverride(opts.Overrides, id, target.Block); ok {
		log.Printf("engine: %s: using override %.1f%%", id, pct)
		return finish(pct, model.StatusOverridden)
	}

	if Normalize(target.Child) == "" {
		log.Printf("engine: %s: no child activity, marking not applicable", id)
		return finish(0, model.StatusNotApplicable)
	}

	sheetName := target.Block
	if mapped, ok := opts.SheetMap[target.Block]; ok {
		sheetName = mapped
	}
	sh, ok := wb.Sheet(sheetName)
	if !ok {
		log.Printf("engine: %s: tracker sheet %q not found, available: %v", id, sheetName, wb.SheetNames())
		return finish(0, model.StatusNoData)
	}

	tr, ok := trackers[sheetName]
	if !ok {
		tr = NewTracker(sh, opts.Columns)
		trackers[sheetName] = tr
	}

	matchOpts := opts.Match.withDefaults()
	if f, ok := opts.SectionFilters[id]; ok {
		matchOpts.SectionFilter = f
	}

	cand := Match(target, tr, matchOpts)
	if cand == nil {
		log.Printf("engine: %s: no tracker row matched %q, flagging for review", id, target.Child)
		return finish(0, model.StatusNoMatch)
	}

	rec.MatchedRow = cand.Row
	rec.MatchScore = cand.Score
	rec.MatchedText = cand.MatchedText

	row, _ := tr.Row(cand.Row)
	return finish(ParsePercent(row.Percent), model.StatusMatched)
}

// reportingTarget picks the milestone's target for the reporting month,
// falling back to the first target so labels are still populated.
func reportingTarget(targets []model.TargetActivity, month string) model.TargetActivity {
	for _, t := range targets {
		if t.Month == month {
			return t
		}
	}
	return targets[0]
}

func lookupOverride(overrides map[string]float64, id, block string) (float64, bool) {
	if pct, ok := overrides[id]; ok {
		return pct, true
	}
	pct, ok := overrides[block]
	return pct, ok
}
