// Package ledger persists classification runs and assignments in a small
// per-directory database. It is the authoritative idempotency marker: the
// naming engine consults it before re-tagging, independent of whatever the
// filename happens to look like.
package ledger

import (
	"context"
	"time"

	"github.com/arch-aerial/patrol-cli/internal/model"
)

// DBName is the ledger filename inside the working directory.
const DBName = ".patrol-ledger.db"

// Run is one recorded classification pass.
type Run struct {
	ID         string           `json:"id"`
	Client     string           `json:"client"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	Summary    model.RunSummary `json:"summary"`
}

// Ledger records runs and per-photo assignments for one working directory.
type Ledger interface {
	BeginRun(ctx context.Context, client string) (string, error)
	FinishRun(ctx context.Context, runID string, summary model.RunSummary) error
	RecordAssignment(ctx context.Context, runID string, a model.Assignment) error

	// WasTagged reports whether the name was recorded as a final filename by
	// any earlier run.
	WasTagged(ctx context.Context, finalName string) (bool, error)

	ListRuns(ctx context.Context, limit int) ([]Run, error)
	ListAssignments(ctx context.Context, runID string) ([]model.Assignment, error)

	Migrate(ctx context.Context) error
	Close() error
}
