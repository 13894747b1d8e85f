package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pagerank-bench/pkg/model"
)

// newMockMySQL opens a GORM session over a sqlmock connection so query
// shapes can be asserted without a running MySQL server. Default
// transactions are skipped so each repository call maps to a single
// statement expectation.
func newMockMySQL(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func pendingRunRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "run_id", "graph_name", "graph_order", "options", "status",
		"status_info", "variant", "iterations", "time_ms", "corrected_time_ms",
		"ranks_file", "create_time", "begin_time", "end_time",
	}).AddRow(
		int64(7), "uuid-7", "web-Stanford.mtx", 0,
		[]byte(`{"variant":"barrierfree","damping":0.85,"workers":4}`),
		model.RunStatusPending, "", "barrierfree", 0, 0.0, 0.0,
		"", time.Now(), nil, nil,
	)
}

func TestGormRunRepository_GetPendingRuns_MySQL(t *testing.T) {
	db, mock := newMockMySQL(t)
	repo := NewGormRunRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `pagerank_run` WHERE status = ").
		WithArgs(model.RunStatusPending).
		WillReturnRows(pendingRunRows())

	runs, err := repo.GetPendingRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "uuid-7", runs[0].RunUUID)
	assert.Equal(t, "barrierfree", runs[0].Options.Variant)
	assert.Equal(t, 0.85, runs[0].Options.Damping)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRunRepository_CompleteRun_MySQL(t *testing.T) {
	db, mock := newMockMySQL(t)
	repo := NewGormRunRepository(db)

	mock.ExpectExec("UPDATE `pagerank_run` SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	res := &model.Run{
		Variant:         "basic-ordered",
		Iterations:      42,
		TimeMs:          12.5,
		CorrectedTimeMs: 11.9,
		GraphOrder:      281903,
		RanksFile:       "runs/uuid-7/ranks.json",
	}
	err := repo.CompleteRun(context.Background(), "uuid-7", res)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRunRepository_FailRun_NotFound_MySQL(t *testing.T) {
	db, mock := newMockMySQL(t)
	repo := NewGormRunRepository(db)

	mock.ExpectExec("UPDATE `pagerank_run` SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.FailRun(context.Background(), "missing", "graph download failed")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}
