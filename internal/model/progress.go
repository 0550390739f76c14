package model

// MatchStatus describes how a milestone's percentage was obtained.
type MatchStatus string

const (
	// StatusMatched means a tracker row was found at or above threshold.
	StatusMatched MatchStatus = "matched"
	// StatusNoMatch means the search exhausted all candidates below
	// threshold; the 0% result needs human review and is distinct from an
	// explicitly tracked 0%.
	StatusNoMatch MatchStatus = "no_match"
	// StatusNoData means the tracker sheet itself was missing.
	StatusNoData MatchStatus = "no_data"
	// StatusOverridden means the caller supplied a fixed percentage.
	StatusOverridden MatchStatus = "overridden"
	// StatusNotApplicable means the target had no child activity, so no
	// search was attempted.
	StatusNotApplicable MatchStatus = "not_applicable"
)

// ProgressRecord is one output row of a report run: the progress of a single
// milestone against its targets. Consumed by the report writer.
type ProgressRecord struct {
	MilestoneID       string
	Block             string
	Activity          string
	TargetDescription string

	// PercentByMonth holds cumulative percent-complete per reported month.
	// Months outside the reporting window are absent, not zero.
	PercentByMonth map[string]float64

	Weightage       float64
	WeightedPercent float64

	// AchievedByMonth holds the human-readable "N units out of M planned"
	// (or "Planned for <months>") text per reported month.
	AchievedByMonth map[string]string

	Status      MatchStatus
	MatchedRow  int
	MatchScore  float64
	MatchedText string
}
