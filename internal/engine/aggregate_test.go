package engine_test

import (
	"testing"

	"sitereport/internal/engine"
)

var months = []string{"June", "July", "August"}

func TestWeightage(t *testing.T) {
	cases := []struct {
		n    int
		want float64
	}{
		{1, 100},
		{4, 25},
		{3, 33.33},
		{0, 0},
	}
	for _, c := range cases {
		if got := engine.Weightage(c.n); got != c.want {
			t.Errorf("Weightage(%d)=%v, want %v", c.n, got, c.want)
		}
	}
}

func TestCumulativePercent(t *testing.T) {
	completed := map[string]float64{"June": 2, "July": 3}
	targets := map[string]float64{"June": 4, "July": 4, "August": 4}

	if got := engine.CumulativePercent(months, "June", completed, targets); got != 50 {
		t.Errorf("June=%v, want 50", got)
	}
	// (2+3)/(4+4) = 62.5
	if got := engine.CumulativePercent(months, "July", completed, targets); got != 62.5 {
		t.Errorf("July=%v, want 62.5", got)
	}
}

func TestCumulativePercentCapsAtHundred(t *testing.T) {
	completed := map[string]float64{"June": 9}
	targets := map[string]float64{"June": 4}
	if got := engine.CumulativePercent(months, "June", completed, targets); got != 100 {
		t.Errorf("overachievement=%v, want capped 100", got)
	}
}

func TestCumulativePercentZeroTargetIsMet(t *testing.T) {
	// Nothing required in either month: both report 100.
	completed := map[string]float64{}
	targets := map[string]float64{"June": 0, "July": 0}
	for _, m := range []string{"June", "July"} {
		if got := engine.CumulativePercent(months, m, completed, targets); got != 100 {
			t.Errorf("%s with zero cumulative target = %v, want 100", m, got)
		}
	}
}

func TestAggregateMilestone(t *testing.T) {
	completed := map[string]float64{"June": 2}
	targets := map[string]float64{"June": 4, "July": 4, "August": 4}

	rec := engine.AggregateMilestone("Milestone-01", "Tower 6", "Slab Casting", "Slabs",
		months, "June", completed, targets, 25)

	if got := rec.PercentByMonth["June"]; got != 50 {
		t.Errorf("June percent=%v, want 50", got)
	}
	if _, ok := rec.PercentByMonth["July"]; ok {
		t.Error("July is after the reporting month and must be absent")
	}
	if rec.WeightedPercent != 12.5 {
		t.Errorf("WeightedPercent=%v, want 12.5", rec.WeightedPercent)
	}
	if got := rec.AchievedByMonth["June"]; got != "2 Slabs out of 4 planned" {
		t.Errorf("AchievedByMonth[June]=%q", got)
	}
	want := "12 Slabs (4 Slabs-June, 4 Slabs-July & 4 Slabs-August)"
	if rec.TargetDescription != want {
		t.Errorf("TargetDescription=%q, want %q", rec.TargetDescription, want)
	}
}

func TestAggregateMilestoneZeroMonthNamesFuturePlan(t *testing.T) {
	completed := map[string]float64{}
	targets := map[string]float64{"June": 0, "July": 6, "August": 2}

	rec := engine.AggregateMilestone("Milestone-02", "Tower 5", "Paint 1st Coat", "Modules",
		months, "June", completed, targets, 25)

	if got := rec.AchievedByMonth["June"]; got != "Planned for July and August" {
		t.Errorf("AchievedByMonth[June]=%q, want future-plan text", got)
	}
	// Zero cumulative target through June counts as met.
	if got := rec.PercentByMonth["June"]; got != 100 {
		t.Errorf("June percent=%v, want 100", got)
	}
}

func TestTargetDescriptionEmptyWhenNothingPlanned(t *testing.T) {
	if got := engine.TargetDescription("Pours", months, map[string]float64{}); got != "" {
		t.Errorf("TargetDescription=%q, want empty", got)
	}
}
