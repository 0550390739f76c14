package engine

import "time"

// CountFinishDates counts tracker rows whose task text matches one of the
// activity's known aliases and whose finish date falls in the target
// year/month. Finishing trackers log one row per flat/module, so the count is
// the number of units completed that month.
//
// Alias comparison is by normalized equality; trackers abbreviate the same
// activity inconsistently ("EL-Second Fix", "EL Second Fix").
func CountFinishDates(tr *Tracker, aliases []string, year int, month time.Month) int {
	want := make(map[string]struct{}, len(aliases))
	for _, a := range aliases {
		if n := Normalize(a); n != "" {
			want[n] = struct{}{}
		}
	}
	if len(want) == 0 {
		return 0
	}

	count := 0
	for _, r := range tr.Rows {
		if r.Task == "" || r.FinishDate == "" {
			continue
		}
		if _, ok := want[Normalize(r.Task)]; !ok {
			continue
		}
		if d, ok := ParseCellDate(r.FinishDate); ok && d.Year() == year && d.Month() == month {
			count++
		}
	}
	return count
}
