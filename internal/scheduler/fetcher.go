package scheduler

import (
	"context"

	"github.com/pagerank-bench/internal/repository"
	"github.com/pagerank-bench/pkg/model"
)

// RepositoryTaskFetcher implements a reconciliation fetch path over
// RunRepository, independent of the source-based event loop. It backs up
// the aggregator in case a poller missed a run or a worker crashed mid
// claim.
type RepositoryTaskFetcher struct {
	runRepo repository.RunRepository
}

// NewRepositoryTaskFetcher creates a new RepositoryTaskFetcher.
func NewRepositoryTaskFetcher(runRepo repository.RunRepository) *RepositoryTaskFetcher {
	return &RepositoryTaskFetcher{runRepo: runRepo}
}

// FetchPendingRuns returns pending runs to be processed.
func (f *RepositoryTaskFetcher) FetchPendingRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	return f.runRepo.GetPendingRuns(ctx, limit)
}

// ClaimRun attempts to claim a run for processing.
func (f *RepositoryTaskFetcher) ClaimRun(ctx context.Context, runUUID string) (bool, error) {
	return f.runRepo.ClaimRun(ctx, runUUID)
}
