// Package repository provides database abstraction for persisted pagerank
// runs and their rank vectors.
package repository

import (
	"context"

	"github.com/pagerank-bench/pkg/model"
)

// RunRepository defines the interface for persisting and querying solver
// runs. A run is created pending, transitions to running when a worker
// picks it up, and ends completed or failed with timing and rank results
// attached.
type RunRepository interface {
	// CreateRun inserts a new pending run record.
	CreateRun(ctx context.Context, run *model.Run) error

	// GetRunByUUID retrieves a run by its UUID.
	GetRunByUUID(ctx context.Context, runUUID string) (*model.Run, error)

	// GetPendingRuns retrieves runs that have not yet been claimed by a
	// worker, most recently created first.
	GetPendingRuns(ctx context.Context, limit int) ([]*model.Run, error)

	// ListRunsByGraph retrieves runs for a given graph name, most recent
	// first, for comparing variants/options on the same input.
	ListRunsByGraph(ctx context.Context, graphName string, limit int) ([]*model.Run, error)

	// ListRecentRuns retrieves the most recently created runs across all
	// graphs, most recent first.
	ListRecentRuns(ctx context.Context, limit int) ([]*model.Run, error)

	// ClaimRun locks a pending run for processing, transitioning it to
	// running. Returns false without error if another worker already
	// claimed it.
	ClaimRun(ctx context.Context, runUUID string) (bool, error)

	// CompleteRun records a finished solve's results against a run and
	// marks it completed.
	CompleteRun(ctx context.Context, runUUID string, res *model.Run) error

	// FailRun marks a run failed with a human-readable reason.
	FailRun(ctx context.Context, runUUID string, reason string) error
}
