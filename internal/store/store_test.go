package store_test

import (
	"path/filepath"
	"testing"

	"sitereport/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "sitereport.db"))
	if err != nil {
		t.Fatalf("store.New failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateRun("eden", "June")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}

	r, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if r == nil || r.Status != store.RunRunning || r.Project != "eden" {
		t.Fatalf("fresh run = %+v", r)
	}

	if err := s.CompleteRun(id, 7, 2, "exports/eden-june.xlsx"); err != nil {
		t.Fatalf("CompleteRun failed: %v", err)
	}
	r, err = s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if r.Status != store.RunCompleted || r.Milestones != 7 || r.Unmatched != 2 {
		t.Errorf("completed run = %+v", r)
	}
	if r.OutputPath != "exports/eden-june.xlsx" || r.CompletedAt == "" {
		t.Errorf("completed run = %+v", r)
	}
}

func TestFailRun(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateRun("veridia", "July")
	if err != nil {
		t.Fatalf("CreateRun failed: %v", err)
	}
	if err := s.FailRun(id, "tracker workbook not found"); err != nil {
		t.Fatalf("FailRun failed: %v", err)
	}
	r, err := s.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if r.Status != store.RunFailed || r.ErrorMessage != "tracker workbook not found" {
		t.Errorf("failed run = %+v", r)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := newTestStore(t)
	r, err := s.GetRun("nope")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if r != nil {
		t.Errorf("got %+v, want nil", r)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, p := range []string{"eden", "veridia", "eligo"} {
		if _, err := s.CreateRun(p, "June"); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}
	runs, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}
