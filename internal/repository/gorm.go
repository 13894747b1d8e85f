package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pagerank-bench/pkg/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// CreateRun inserts a new pending run record.
func (r *GormRunRepository) CreateRun(ctx context.Context, run *model.Run) error {
	var record PagerankRun
	if err := record.FromModel(run); err != nil {
		return fmt.Errorf("failed to marshal run options: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	run.ID = record.ID
	return nil
}

// GetRunByUUID retrieves a run by its UUID.
func (r *GormRunRepository) GetRunByUUID(ctx context.Context, runUUID string) (*model.Run, error) {
	var record PagerankRun

	err := r.db.WithContext(ctx).Where("run_id = ?", runUUID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run not found: %s", runUUID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return record.ToModel()
}

// GetPendingRuns retrieves runs that have not yet been claimed by a worker.
func (r *GormRunRepository) GetPendingRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	var records []PagerankRun

	err := r.db.WithContext(ctx).
		Where("status = ?", model.RunStatusPending).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query pending runs: %w", err)
	}

	return toModels(records)
}

// ListRunsByGraph retrieves runs for a given graph name, most recent first.
func (r *GormRunRepository) ListRunsByGraph(ctx context.Context, graphName string, limit int) ([]*model.Run, error) {
	var records []PagerankRun

	err := r.db.WithContext(ctx).
		Where("graph_name = ?", graphName).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for graph %s: %w", graphName, err)
	}

	return toModels(records)
}

// ListRecentRuns retrieves the most recently created runs across all
// graphs, for the webui's run listing.
func (r *GormRunRepository) ListRecentRuns(ctx context.Context, limit int) ([]*model.Run, error) {
	var records []PagerankRun

	err := r.db.WithContext(ctx).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}

	return toModels(records)
}

// ClaimRun locks a pending run for processing, transitioning it to running.
func (r *GormRunRepository) ClaimRun(ctx context.Context, runUUID string) (bool, error) {
	claimed := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record PagerankRun

		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("run_id = ? AND status = ?", runUUID, model.RunStatusPending).
			First(&record).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		now := time.Now()
		err = tx.Model(&PagerankRun{}).
			Where("run_id = ?", runUUID).
			Updates(map[string]interface{}{
				"status":     model.RunStatusRunning,
				"begin_time": now,
			}).Error
		if err != nil {
			return err
		}

		claimed = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to claim run: %w", err)
	}

	return claimed, nil
}

// CompleteRun records a finished solve's results against a run and marks
// it completed.
func (r *GormRunRepository) CompleteRun(ctx context.Context, runUUID string, res *model.Run) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":            model.RunStatusCompleted,
		"variant":           res.Variant,
		"iterations":        res.Iterations,
		"time_ms":           res.TimeMs,
		"corrected_time_ms": res.CorrectedTimeMs,
		"graph_order":       res.GraphOrder,
		"ranks_file":        res.RanksFile,
		"end_time":          now,
	}

	result := r.db.WithContext(ctx).
		Model(&PagerankRun{}).
		Where("run_id = ?", runUUID).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to complete run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %s", runUUID)
	}

	return nil
}

// FailRun marks a run failed with a human-readable reason.
func (r *GormRunRepository) FailRun(ctx context.Context, runUUID string, reason string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&PagerankRun{}).
		Where("run_id = ?", runUUID).
		Updates(map[string]interface{}{
			"status":      model.RunStatusFailed,
			"status_info": reason,
			"end_time":    now,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to fail run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("run not found: %s", runUUID)
	}

	return nil
}

func toModels(records []PagerankRun) ([]*model.Run, error) {
	runs := make([]*model.Run, len(records))
	for i := range records {
		run, err := records[i].ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to decode run options: %w", err)
		}
		runs[i] = run
	}
	return runs, nil
}
