package importer

import (
	"time"

	"github.com/agentstation/utc"

	"github.com/agentstation/taxonomy-import/pkg/reconciler"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// Summary reports one import run.
type Summary struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	SubjectID string `json:"subject_id" yaml:"subject_id"`
	DryRun    bool   `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`

	RowsRead    int `json:"rows_read" yaml:"rows_read"`
	RowsSkipped int `json:"rows_skipped" yaml:"rows_skipped"`
	Entities    int `json:"entities" yaml:"entities"`

	Reconcile reconciler.Stats `json:"reconcile" yaml:"reconcile"`

	Deleted        int `json:"deleted" yaml:"deleted"`
	DeleteFailures int `json:"delete_failures" yaml:"delete_failures"`

	StartedAt  utc.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt utc.Time      `json:"finished_at" yaml:"finished_at"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
}

// Created returns the number of nodes created across kinds.
func (s *Summary) Created() int {
	return total(s.Reconcile.Created)
}

// Updated returns the number of nodes updated across kinds.
func (s *Summary) Updated() int {
	return total(s.Reconcile.Updated)
}

// Failed reports whether any non-fatal step failed.
func (s *Summary) Failed() bool {
	return s.Reconcile.Warnings > 0 || s.DeleteFailures > 0
}

func total(m map[taxonomy.Kind]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func (s *Summary) finish(run *reconciler.Run) {
	if run != nil {
		s.Reconcile = run.Stats()
	}
	s.FinishedAt = utc.Now()
	s.Duration = s.FinishedAt.Sub(s.StartedAt)
}
