// Package service orchestrates report generation: fetch the source
// workbooks, extract targets, compute progress, render the report, and log
// the run.
package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"time"

	"sitereport/internal/engine"
	"sitereport/internal/exporter"
	"sitereport/internal/kra"
	"sitereport/internal/model"
	"sitereport/internal/project"
	"sitereport/internal/sheet"
	"sitereport/internal/storage"
	"sitereport/internal/store"
)

// Runner generates milestone reports for configured projects.
type Runner struct {
	fetcher   storage.Fetcher
	layouts   *project.Registry
	store     *store.Store
	exportDir string
}

// NewRunner wires a report runner.
func NewRunner(fetcher storage.Fetcher, layouts *project.Registry, st *store.Store, exportDir string) *Runner {
	return &Runner{fetcher: fetcher, layouts: layouts, store: st, exportDir: exportDir}
}

// Layouts exposes the project registry.
func (r *Runner) Layouts() *project.Registry {
	return r.layouts
}

// Store exposes the run log.
func (r *Runner) Store() *store.Store {
	return r.store
}

// RunResult is the outcome of one report generation.
type RunResult struct {
	RunID      string                 `json:"run_id"`
	Project    string                 `json:"project"`
	Records    []model.ProgressRecord `json:"records"`
	Unmatched  int                    `json:"unmatched"`
	OutputPath string                 `json:"output_path"`
}

// Generate produces the milestone report for one project. An empty
// reportingMonth defaults to the last month of the project's window.
func (r *Runner) Generate(ctx context.Context, projectName, reportingMonth string) (*RunResult, error) {
	layout, ok := r.layouts.Get(projectName)
	if !ok {
		return nil, fmt.Errorf("service: unknown project %q", projectName)
	}
	if reportingMonth == "" {
		reportingMonth = layout.Months[len(layout.Months)-1]
	}
	if !containsMonth(layout.Months, reportingMonth) {
		return nil, fmt.Errorf("service: month %q not in window %v", reportingMonth, layout.Months)
	}

	runID, err := r.store.CreateRun(projectName, reportingMonth)
	if err != nil {
		return nil, err
	}

	res, err := r.generate(ctx, runID, layout, reportingMonth)
	if err != nil {
		if ferr := r.store.FailRun(runID, err.Error()); ferr != nil {
			log.Printf("service: failed to record run failure: %v", ferr)
		}
		return nil, err
	}
	return res, nil
}

func (r *Runner) generate(ctx context.Context, runID string, layout *project.Layout, reportingMonth string) (*RunResult, error) {
	tracker, err := r.fetchWorkbook(ctx, layout.Tracker.ObjectKey)
	if err != nil {
		return nil, err
	}

	var kraSheet *sheet.Sheet
	if layout.KRA.ObjectKey != "" {
		kraWB, err := r.fetchWorkbook(ctx, layout.KRA.ObjectKey)
		if err != nil {
			return nil, err
		}
		kraSheet, err = pickSheet(kraWB, layout.KRA.Sheet)
		if err != nil {
			return nil, err
		}
	}

	var records []model.ProgressRecord

	if kraSheet != nil && len(layout.KRA.BlockPrefixes) > 0 {
		recs, err := r.hierarchyRecords(layout, kraSheet, tracker, reportingMonth)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}

	for i, spec := range layout.Milestones {
		switch spec.Mode {
		case project.ModeTintedCount, project.ModeDateCount:
			rec, err := r.countRecord(layout, spec, kraSheet, tracker, reportingMonth)
			if err != nil {
				return nil, fmt.Errorf("milestone %d (%s): %w", i, spec.ID, err)
			}
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return nil, engine.ErrNoTargets
	}
	rebalance(records, reportingMonth)

	outputPath, err := r.export(layout, reportingMonth, records)
	if err != nil {
		return nil, err
	}

	unmatched := 0
	for _, rec := range records {
		if rec.Status == model.StatusNoMatch {
			unmatched++
		}
	}
	if err := r.store.CompleteRun(runID, len(records), unmatched, outputPath); err != nil {
		return nil, err
	}

	return &RunResult{
		RunID:      runID,
		Project:    layout.Name,
		Records:    records,
		Unmatched:  unmatched,
		OutputPath: outputPath,
	}, nil
}

func (r *Runner) fetchWorkbook(ctx context.Context, key string) (*sheet.Workbook, error) {
	if key == "" {
		return nil, fmt.Errorf("service: workbook object key not configured")
	}
	data, err := r.fetcher.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	wb, err := sheet.Load(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("service: load %s: %w", key, err)
	}
	return wb, nil
}

// hierarchyRecords walks the KRA block headers, extracts each block's
// activity hierarchy, and matches it against the tracker.
func (r *Runner) hierarchyRecords(layout *project.Layout, kraSheet *sheet.Sheet, tracker *sheet.Workbook, reportingMonth string) ([]model.ProgressRecord, error) {
	blocks := kra.FindBlocks(kraSheet, layout.KRA.BlockColumn, layout.KRA.BlockPrefixes)

	var targets []model.TargetActivity
	for _, b := range blocks {
		targets = append(targets, kra.ExtractBlockTargets(kraSheet, b,
			layout.Months, layout.KRA.MonthColumns, layout.KRA.ScanDepth)...)
	}

	filters := make(map[string]model.SectionFilter)
	for _, spec := range layout.Milestones {
		if spec.Mode != "" && spec.Mode != project.ModeHierarchy {
			continue
		}
		if f := spec.SectionFilter(); f != nil {
			key := spec.ID
			if key == "" {
				key = spec.Block
			}
			filters[key] = f
		}
	}

	opts := engine.Options{
		Months:         layout.Months,
		ReportingMonth: reportingMonth,
		Columns: engine.TrackerColumns{
			Task:    layout.Tracker.TaskColumn,
			Percent: layout.Tracker.PercentColumn,
			Finish:  layout.Tracker.FinishColumn,
		},
		SheetMap:       layout.Tracker.SheetMap,
		Overrides:      layout.Overrides,
		SectionFilters: filters,
	}
	return engine.ComputeProgress(targets, tracker, opts)
}

// countRecord computes one quantity-counted milestone: planned quantities
// come from fixed KRA cells, completed quantities from tinted date cells or
// finish-date rows.
func (r *Runner) countRecord(layout *project.Layout, spec project.MilestoneSpec, kraSheet *sheet.Sheet, tracker *sheet.Workbook, reportingMonth string) (model.ProgressRecord, error) {
	var rec model.ProgressRecord

	sh, ok := tracker.Sheet(spec.Sheet)
	if !ok {
		return rec, fmt.Errorf("tracker sheet %q not found", spec.Sheet)
	}

	targets := make(map[string]float64, len(spec.TargetCells))
	unit := spec.Unit
	if kraSheet != nil && len(spec.TargetCells) > 0 {
		refs := make(map[string]kra.CellRef, len(spec.TargetCells))
		for m, tc := range spec.TargetCells {
			refs[m] = kra.CellRef{Cell: tc.Cell, Unit: tc.Unit}
		}
		var cellUnit string
		targets, cellUnit = kra.ReadTargetCells(kraSheet, refs)
		if unit == "" {
			unit = cellUnit
		}
	}

	completed := make(map[string]float64, len(layout.Months))
	for _, m := range layout.Months {
		month, err := monthByName(m)
		if err != nil {
			return rec, err
		}
		switch spec.Mode {
		case project.ModeTintedCount:
			year := spec.Year
			if year == 0 {
				year = engine.DetectTrackerYear(sh, spec.Columns, spec.RowStart, spec.RowEnd)
			}
			completed[m] = float64(engine.CountTintedDates(sh, spec.Columns, spec.RowStart, spec.RowEnd, year, month, spec.Tint))
		case project.ModeDateCount:
			tr := engine.NewTracker(sh, engine.TrackerColumns{
				Task:    layout.Tracker.TaskColumn,
				Percent: layout.Tracker.PercentColumn,
				Finish:  layout.Tracker.FinishColumn,
			})
			year := spec.Year
			if year == 0 {
				year = time.Now().Year()
			}
			completed[m] = float64(engine.CountFinishDates(tr, spec.Aliases, year, month))
		}
		if m == reportingMonth {
			break
		}
	}

	rec = engine.AggregateMilestone(spec.ID, spec.Block, spec.Activity, unit,
		layout.Months, reportingMonth, completed, targets, 100)
	return rec, nil
}

// rebalance recomputes weightage as an equal split across all milestones in
// the final record set; hierarchy and counted milestones are weighted
// together.
func rebalance(records []model.ProgressRecord, reportingMonth string) {
	w := engine.Weightage(len(records))
	for i := range records {
		records[i].Weightage = w
		pct := records[i].PercentByMonth[reportingMonth]
		records[i].WeightedPercent = math.Round(pct*w) / 100
	}
}

// export groups records by block and writes the styled report workbook.
func (r *Runner) export(layout *project.Layout, reportingMonth string, records []model.ProgressRecord) (string, error) {
	var order []string
	byBlock := make(map[string][]model.ProgressRecord)
	for _, rec := range records {
		if _, seen := byBlock[rec.Block]; !seen {
			order = append(order, rec.Block)
		}
		byBlock[rec.Block] = append(byBlock[rec.Block], rec)
	}

	title := layout.Title
	if title == "" {
		title = layout.Name + " Milestones Report"
	}
	rep := exporter.Report{
		Title:       title,
		SheetName:   "Milestone Report",
		Months:      layout.Months,
		GeneratedAt: time.Now(),
	}
	for _, block := range order {
		rep.Sections = append(rep.Sections, exporter.Section{
			Title:      block + " Progress Against Milestones",
			TotalLabel: "Total Delay " + block,
			Records:    byBlock[block],
		})
	}

	if err := os.MkdirAll(r.exportDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s_Milestone_Report_%s_%s.xlsx",
		layout.Name, reportingMonth, time.Now().Format("2006-01-02"))
	outputPath := filepath.Join(r.exportDir, filename)

	f, err := os.Create(outputPath)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := exporter.Write(f, rep); err != nil {
		return "", err
	}
	return outputPath, nil
}

// pickSheet returns the named sheet, or the workbook's first sheet when no
// name is configured.
func pickSheet(wb *sheet.Workbook, name string) (*sheet.Sheet, error) {
	if name == "" {
		names := wb.SheetNames()
		if len(names) == 0 {
			return nil, fmt.Errorf("service: workbook has no sheets")
		}
		name = names[0]
	}
	sh, ok := wb.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("service: sheet %q not found", name)
	}
	return sh, nil
}

func containsMonth(months []string, m string) bool {
	for _, x := range months {
		if x == m {
			return true
		}
	}
	return false
}

func monthByName(name string) (time.Month, error) {
	t, err := time.Parse("January", name)
	if err != nil {
		return 0, fmt.Errorf("service: bad month %q", name)
	}
	return t.Month(), nil
}
