package model

// TargetActivity is one planned work item for a block and month, read from
// the KRA target sheet. Parent and SubParent may be empty for single-activity
// targets. Instances are immutable once extracted.
type TargetActivity struct {
	MilestoneID string
	Block       string
	Month       string
	Parent      string
	SubParent   string
	Child       string
	Unit        string

	// TargetDisplay is the human-readable target label shown in the report
	// ("Parent - Sub-Parent" for full hierarchies, the child itself otherwise).
	TargetDisplay string
}

// HasHierarchy reports whether the target carries a parent to anchor
// section-level matching on.
func (t TargetActivity) HasHierarchy() bool {
	return t.Parent != ""
}

// MonthlyTarget is a planned quantity for one activity in one month,
// read from a fixed KRA cell (count-based milestones).
type MonthlyTarget struct {
	Month string
	Value float64
	Unit  string
}
