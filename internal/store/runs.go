package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// Run statuses.
const (
	RunRunning   = "running"
	RunCompleted = "completed"
	RunFailed    = "failed"
)

// ReportRun is one report generation attempt.
type ReportRun struct {
	ID             string `json:"id"`
	Project        string `json:"project"`
	ReportingMonth string `json:"reporting_month"`
	Status         string `json:"status"`
	Milestones     int    `json:"milestones"`
	Unmatched      int    `json:"unmatched"`
	OutputPath     string `json:"output_path"`
	ErrorMessage   string `json:"error_message,omitempty"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at,omitempty"`
}

// CreateRun records the start of a run and returns its id.
func (s *Store) CreateRun(project, reportingMonth string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.Exec(`
		INSERT INTO report_runs (id, project, reporting_month, status)
		VALUES (?, ?, ?, ?)
	`, id, project, reportingMonth, RunRunning)
	if err != nil {
		return "", fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks a run finished with its result counts and output file.
func (s *Store) CompleteRun(id string, milestones, unmatched int, outputPath string) error {
	_, err := s.db.Exec(`
		UPDATE report_runs SET
			status = ?,
			milestones = ?,
			unmatched = ?,
			output_path = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, RunCompleted, milestones, unmatched, outputPath, id)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// FailRun marks a run failed with its error message.
func (s *Store) FailRun(id, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE report_runs SET
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, RunFailed, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to fail run: %w", err)
	}
	return nil
}

const runColumns = `
	id, project, reporting_month, status, milestones, unmatched,
	output_path, error_message, started_at,
	COALESCE(completed_at, '')
`

func scanRun(row interface{ Scan(...any) error }) (*ReportRun, error) {
	var r ReportRun
	err := row.Scan(&r.ID, &r.Project, &r.ReportingMonth, &r.Status,
		&r.Milestones, &r.Unmatched, &r.OutputPath, &r.ErrorMessage,
		&r.StartedAt, &r.CompletedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRun looks a run up by id; nil when not found.
func (s *Store) GetRun(id string) (*ReportRun, error) {
	r, err := scanRun(s.db.QueryRow(
		`SELECT `+runColumns+` FROM report_runs WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(limit int) ([]*ReportRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT `+runColumns+` FROM report_runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var out []*ReportRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
