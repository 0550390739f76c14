package engine

import (
	"fmt"
	"math"
	"strings"

	"sitereport/internal/model"
)

// Weightage is the share attributed to each of n tracked activities when
// combining them into a milestone percentage. Equal split, two decimals.
func Weightage(n int) float64 {
	if n <= 0 {
		return 0
	}
	return round2(100 / float64(n))
}

// CumulativePercent computes the percent of planned work completed up to and
// including month, in canonical month order: min(100, 100*cumDone/cumTarget).
// A zero cumulative target means nothing was required, which counts as fully
// met (100).
func CumulativePercent(months []string, month string, completed, targets map[string]float64) float64 {
	var cumDone, cumTarget float64
	for _, m := range months {
		cumDone += completed[m]
		cumTarget += targets[m]
		if m == month {
			break
		}
	}
	if cumTarget == 0 {
		return 100
	}
	return math.Min(round2(100*cumDone/cumTarget), 100)
}

// AggregateMilestone folds per-month completed/target quantities for one
// activity into a ProgressRecord. Percentages are populated for every month
// up to and including reportingMonth; later months stay absent so the report
// renders them blank rather than as zero.
func AggregateMilestone(milestoneID, block, activity, unit string, months []string, reportingMonth string, completed, targets map[string]float64, weightage float64) model.ProgressRecord {
	rec := model.ProgressRecord{
		MilestoneID:       milestoneID,
		Block:             block,
		Activity:          activity,
		TargetDescription: TargetDescription(unit, months, targets),
		PercentByMonth:    make(map[string]float64),
		AchievedByMonth:   make(map[string]string),
		Weightage:         weightage,
		Status:            model.StatusMatched,
	}

	for i, m := range months {
		rec.PercentByMonth[m] = CumulativePercent(months, m, completed, targets)
		rec.AchievedByMonth[m] = achievedText(unit, months, i, completed, targets)
		if m == reportingMonth {
			break
		}
	}

	if pct, ok := rec.PercentByMonth[reportingMonth]; ok {
		rec.WeightedPercent = round2(pct * weightage / 100)
	}
	return rec
}

// TargetDescription renders the total planned quantity with its per-month
// split: "12 Slabs (4 Slabs-June, 4 Slabs-July & 4 Slabs-August)".
func TargetDescription(unit string, months []string, targets map[string]float64) string {
	var total float64
	parts := make([]string, 0, len(months))
	for _, m := range months {
		total += targets[m]
		parts = append(parts, fmt.Sprintf("%d %s-%s", int(targets[m]), unit, m))
	}
	if total == 0 {
		return ""
	}
	var split string
	if len(parts) > 1 {
		split = strings.Join(parts[:len(parts)-1], ", ") + " & " + parts[len(parts)-1]
	} else if len(parts) == 1 {
		split = parts[0]
	}
	return fmt.Sprintf("%d %s (%s)", int(total), unit, split)
}

// achievedText renders the month's achievement line. When the month itself
// carried no target, it names the upcoming month(s) the work is planned for.
func achievedText(unit string, months []string, idx int, completed, targets map[string]float64) string {
	m := months[idx]
	if targets[m] == 0 {
		var future []string
		for _, fm := range months[idx+1:] {
			if targets[fm] > 0 {
				future = append(future, fm)
			}
		}
		switch len(future) {
		case 0:
			// Nothing planned later either; report the literal zero.
		case 1:
			return "Planned for " + future[0]
		default:
			return "Planned for " + strings.Join(future[:len(future)-1], ", ") + " and " + future[len(future)-1]
		}
	}
	return fmt.Sprintf("%d %s out of %d planned", int(completed[m]), unit, int(targets[m]))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
