package exporter_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"sitereport/internal/exporter"
	"sitereport/internal/model"
)

func sampleReport() exporter.Report {
	return exporter.Report{
		Title:       "Veridia Milestones Report",
		SheetName:   "Veridia Milestones",
		Months:      []string{"June", "July", "August"},
		GeneratedAt: time.Date(2025, 8, 24, 0, 0, 0, 0, time.UTC),
		Sections: []exporter.Section{
			{
				Title:      "Tower 6 Structure Progress Against Milestones",
				TotalLabel: "Total Delay Tower 6 Structure",
				Records: []model.ProgressRecord{
					{
						MilestoneID:       "Milestone-01",
						Block:             "Tower 6",
						Activity:          "Slab Casting",
						TargetDescription: "12 Slabs (4 Slabs-June, 4 Slabs-July & 4 Slabs-August)",
						PercentByMonth:    map[string]float64{"June": 50, "July": 62.5},
						AchievedByMonth: map[string]string{
							"June": "2 Slabs out of 4 planned",
							"July": "3 Slabs out of 4 planned",
						},
						Weightage:       100,
						WeightedPercent: 62.5,
						Status:          model.StatusMatched,
					},
					{
						MilestoneID:     "Milestone-02",
						Block:           "Tower 7",
						Activity:        "Lift Machine Room Waterproofing",
						PercentByMonth:  map[string]float64{},
						AchievedByMonth: map[string]string{},
						Weightage:       100,
						Status:          model.StatusNoMatch,
					},
				},
			},
		},
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	if err := exporter.Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	const sheet = "Veridia Milestones"
	get := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue %s failed: %v", cell, err)
		}
		return v
	}

	if got := get("A1"); got != "Veridia Milestones Report" {
		t.Errorf("A1 = %q", got)
	}
	if got := get("A2"); got != "Report Generated on: 24-08-2025" {
		t.Errorf("A2 = %q", got)
	}

	// Row 4 is the section bar, row 5 the header, row 6 the first record.
	if got := get("A4"); got != "Tower 6 Structure Progress Against Milestones" {
		t.Errorf("A4 = %q", got)
	}
	if got := get("A5"); got != "Milestone" {
		t.Errorf("A5 = %q", got)
	}
	if got := get("D5"); got != "Target Till August" {
		t.Errorf("D5 = %q", got)
	}
	if got := get("E5"); got != "% Work Done against Target-Till June" {
		t.Errorf("E5 = %q", got)
	}

	if got := get("C6"); got != "Slab Casting" {
		t.Errorf("C6 = %q", got)
	}
	if got := get("E6"); got != "50%" {
		t.Errorf("E6 = %q", got)
	}
	if got := get("F6"); got != "62.5%" {
		t.Errorf("F6 = %q", got)
	}
	if got := get("G6"); got != "" {
		t.Errorf("G6 = %q, August has no data yet", got)
	}
	if got := get("H6"); got != "100" {
		t.Errorf("weightage H6 = %q", got)
	}
	if got := get("I6"); got != "62.5%" {
		t.Errorf("weighted I6 = %q", got)
	}
	if got := get("J6"); got != "2 Slabs out of 4 planned" {
		t.Errorf("J6 = %q", got)
	}

	if got := get("M7"); got != "No tracker match, needs review" {
		t.Errorf("remarks M7 = %q", got)
	}

	// Row 8 is the total delay row: sum of weighted percents.
	if got := get("A8"); got != "Total Delay Tower 6 Structure" {
		t.Errorf("A8 = %q", got)
	}
	if got := get("I8"); got != "62.5%" {
		t.Errorf("I8 = %q", got)
	}
}

func TestColumnLayout(t *testing.T) {
	var buf bytes.Buffer
	rep := sampleReport()
	rep.Months = []string{"June"}
	rep.Sections[0].Records = rep.Sections[0].Records[:1]
	if err := exporter.Write(&buf, rep); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	defer f.Close()

	// One month: 4 fixed + 1 pct + 2 + 1 achieved + remarks = 9 columns.
	got, err := f.GetCellValue("Veridia Milestones", "I5")
	if err != nil {
		t.Fatalf("GetCellValue failed: %v", err)
	}
	if got != "Remarks" {
		t.Errorf("I5 = %q, want Remarks", got)
	}
}
