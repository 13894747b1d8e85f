// Package model defines the core data structures shared across the
// pagerank CLI, scheduler, and repository layers.
package model

import (
	"strconv"
	"time"

	"github.com/pagerank-bench/internal/pagerank"
)

// RunStatus represents the lifecycle state of a sweep run.
type RunStatus int

const (
	RunStatusPending   RunStatus = 0
	RunStatusRunning   RunStatus = 1
	RunStatusCompleted RunStatus = 2
	RunStatusFailed    RunStatus = 3
)

// String returns the string representation of RunStatus.
func (s RunStatus) String() string {
	switch s {
	case RunStatusPending:
		return "pending"
	case RunStatusRunning:
		return "running"
	case RunStatusCompleted:
		return "completed"
	case RunStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunOptions mirrors pagerank.Options in a form that round-trips cleanly
// through JSON for persistence and CLI flags.
type RunOptions struct {
	Repeat        int     `json:"repeat"`
	ToleranceNorm string  `json:"tolerance_norm"`
	Tolerance     float64 `json:"tolerance"`
	Damping       float64 `json:"damping"`
	MaxIterations int     `json:"max_iterations"`
	Workers       int     `json:"workers"`
	Variant       string  `json:"variant"`
	Async         bool    `json:"async"`
	Dead          bool    `json:"dead"`
}

// ToPagerankOptions converts RunOptions into the solver's Options type.
func (o RunOptions) ToPagerankOptions() pagerank.Options {
	opts := pagerank.DefaultOptions()
	if o.Repeat > 0 {
		opts.Repeat = o.Repeat
	}
	if o.Tolerance > 0 {
		opts.Tolerance = o.Tolerance
	}
	if o.Damping > 0 {
		opts.Damping = o.Damping
	}
	if o.MaxIterations > 0 {
		opts.MaxIterations = o.MaxIterations
	}
	if o.Workers > 0 {
		opts.Workers = o.Workers
	}
	opts.Async = o.Async
	opts.Dead = o.Dead
	switch o.ToleranceNorm {
	case "l1":
		opts.ToleranceNorm = pagerank.NormL1
	case "l2":
		opts.ToleranceNorm = pagerank.NormL2
	default:
		opts.ToleranceNorm = pagerank.NormLInf
	}
	switch o.Variant {
	case "barrierfree":
		opts.Variant = pagerank.VariantBarrierFree
	case "monolithic":
		opts.Variant = pagerank.VariantMonolithic
	default:
		opts.Variant = pagerank.VariantBasic
	}
	return opts
}

// Run represents one persisted PageRank solve: its input graph, the
// options it ran with, and the timing/iteration results it produced.
type Run struct {
	ID              int64          `json:"id" db:"id"`
	RunUUID         string         `json:"run_id" db:"run_id"`
	GraphName       string         `json:"graph_name" db:"graph_name"`
	GraphOrder      int            `json:"graph_order" db:"graph_order"`
	Options         RunOptions     `json:"options" db:"options"`
	Status          RunStatus      `json:"status" db:"status"`
	StatusInfo      string         `json:"status_info" db:"status_info"`
	Variant         string         `json:"variant" db:"variant"`
	Iterations      int            `json:"iterations" db:"iterations"`
	TimeMs          float64        `json:"time_ms" db:"time_ms"`
	CorrectedTimeMs float64        `json:"corrected_time_ms" db:"corrected_time_ms"`
	RanksFile       string         `json:"ranks_file" db:"ranks_file"`
	CreateTime      time.Time      `json:"create_time" db:"create_time"`
	BeginTime       *time.Time     `json:"begin_time" db:"begin_time"`
	EndTime         *time.Time     `json:"end_time" db:"end_time"`
}

// NewRun creates a new pending Run record.
func NewRun(runUUID, graphName string, opts RunOptions) *Run {
	return &Run{
		RunUUID:    runUUID,
		GraphName:  graphName,
		Options:    opts,
		Status:     RunStatusPending,
		Variant:    opts.Variant,
		CreateTime: time.Now(),
	}
}

// ApplyResult copies a completed solver Result into the run record.
func (r *Run) ApplyResult(res *pagerank.Result) {
	r.Variant = res.Variant
	r.Iterations = res.Iterations
	r.TimeMs = res.TimeMs
	r.CorrectedTimeMs = res.CorrectedTimeMs
	r.GraphOrder = len(res.Ranks)
}

// IsHighPriority reports whether a run is cheap enough to jump the queue
// ahead of larger sweep points: single-repeat, single-worker runs finish
// fast and shouldn't wait behind a large parallel sweep.
func (r *Run) IsHighPriority() bool {
	return r.Options.Workers <= 1 && r.Options.Repeat <= 1
}

// RankVector is the JSON-serializable export of a completed solve's
// rank vector, keyed by original vertex id.
type RankVector struct {
	RunUUID string             `json:"run_id"`
	Variant string             `json:"variant"`
	Ranks   map[string]float64 `json:"ranks"`
}

// NewRankVector builds a RankVector from a solver Result.
func NewRankVector(runUUID string, res *pagerank.Result) RankVector {
	ranks := make(map[string]float64, len(res.Ranks))
	for i, key := range res.Keys {
		ranks[formatKey(key)] = res.Ranks[i]
	}
	return RankVector{RunUUID: runUUID, Variant: res.Variant, Ranks: ranks}
}

func formatKey(key int64) string {
	return strconv.FormatInt(key, 10)
}
