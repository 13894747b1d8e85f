package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/pagerank-bench/pkg/model"
)

// PagerankRun represents the pagerank_run table: one row per solver
// invocation, tracking its options, lifecycle, and results.
type PagerankRun struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement"`
	RunUUID         string          `gorm:"column:run_id;type:varchar(64);uniqueIndex"`
	GraphName       string          `gorm:"column:graph_name;type:varchar(512);index"`
	GraphOrder      int             `gorm:"column:graph_order"`
	Options         JSONField       `gorm:"column:options;type:json"`
	Status          model.RunStatus `gorm:"column:status"`
	StatusInfo      string          `gorm:"column:status_info;type:text"`
	Variant         string          `gorm:"column:variant;type:varchar(32)"`
	Iterations      int             `gorm:"column:iterations"`
	TimeMs          float64         `gorm:"column:time_ms"`
	CorrectedTimeMs float64         `gorm:"column:corrected_time_ms"`
	RanksFile       string          `gorm:"column:ranks_file;type:varchar(512)"`
	CreateTime      time.Time       `gorm:"column:create_time;autoCreateTime"`
	BeginTime       *time.Time      `gorm:"column:begin_time"`
	EndTime         *time.Time      `gorm:"column:end_time"`
}

// TableName returns the table name for PagerankRun.
func (PagerankRun) TableName() string {
	return "pagerank_run"
}

// FromModel populates a PagerankRun row from a model.Run.
func (p *PagerankRun) FromModel(r *model.Run) error {
	optsJSON, err := json.Marshal(r.Options)
	if err != nil {
		return err
	}

	p.RunUUID = r.RunUUID
	p.GraphName = r.GraphName
	p.GraphOrder = r.GraphOrder
	p.Options = JSONField(optsJSON)
	p.Status = r.Status
	p.StatusInfo = r.StatusInfo
	p.Variant = r.Variant
	p.Iterations = r.Iterations
	p.TimeMs = r.TimeMs
	p.CorrectedTimeMs = r.CorrectedTimeMs
	p.RanksFile = r.RanksFile
	p.BeginTime = r.BeginTime
	p.EndTime = r.EndTime
	return nil
}

// ToModel converts a PagerankRun row to a model.Run.
func (p *PagerankRun) ToModel() (*model.Run, error) {
	run := &model.Run{
		ID:              p.ID,
		RunUUID:         p.RunUUID,
		GraphName:       p.GraphName,
		GraphOrder:      p.GraphOrder,
		Status:          p.Status,
		StatusInfo:      p.StatusInfo,
		Variant:         p.Variant,
		Iterations:      p.Iterations,
		TimeMs:          p.TimeMs,
		CorrectedTimeMs: p.CorrectedTimeMs,
		RanksFile:       p.RanksFile,
		CreateTime:      p.CreateTime,
		BeginTime:       p.BeginTime,
		EndTime:         p.EndTime,
	}

	if p.Options != nil {
		if err := json.Unmarshal(p.Options, &run.Options); err != nil {
			return nil, err
		}
	}

	return run, nil
}

// JSONField is a custom type for handling JSON columns in GORM, shared by
// every model that round-trips structured data through a single column.
type JSONField []byte

// Value implements driver.Valuer interface.
func (j JSONField) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return []byte(j), nil
}

// Scan implements sql.Scanner interface.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		*j = append((*j)[0:0], v...)
		return nil
	case string:
		*j = []byte(v)
		return nil
	default:
		return errors.New("unsupported type for JSONField")
	}
}

// MarshalJSON implements json.Marshaler interface.
func (j JSONField) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

// UnmarshalJSON implements json.Unmarshaler interface.
func (j *JSONField) UnmarshalJSON(data []byte) error {
	if data == nil || string(data) == "null" {
		*j = nil
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}
