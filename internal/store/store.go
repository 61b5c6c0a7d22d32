package store

import (
	"context"

	"github.com/me/schedcheck/pkg/model"
)

// TaskSetRecord is a stored task set plus its cached analysis results.
// Schedulable is a verdict from exhaustive checking (recorded by external
// tooling); Sufficient is the cached G-EDF sufficient test result. Either
// may be nil when the corresponding analysis has not run yet.
type TaskSetRecord struct {
	ID                int64
	Schedulable       *bool
	Sufficient        *bool
	SystemUtilization float64
	Size              int
	Tasks             model.TaskSet
}

// TaskSetFilter narrows ListTaskSets and CountInUtilizationRange.
// Nil fields match everything.
type TaskSetFilter struct {
	Schedulable *bool
	Sufficient  *bool
}

// Metadata records the experiment parameters a database was generated
// with, stored once per database as a JSON blob.
type Metadata struct {
	SpeedList   []float64 `json:"speed_list"`
	PeriodBound [2]int64  `json:"period_bound"`
	NumTask     int       `json:"num_task"`
}

// Store is the persistence boundary for experiment data. The engine never
// writes through it; batch drivers read task sets and record verdicts.
type Store interface {
	InsertTask(ctx context.Context, task model.Task) error
	InsertTaskSet(ctx context.Context, ts model.TaskSet, schedulable, sufficient *bool, systemUtilization float64) (int64, error)
	GetTaskSet(ctx context.Context, id int64) (*TaskSetRecord, error)
	ListTaskSets(ctx context.Context, filter TaskSetFilter) ([]*TaskSetRecord, error)
	UpdateSufficient(ctx context.Context, id int64, sufficient bool) error
	CountInUtilizationRange(ctx context.Context, lo, hi float64, filter TaskSetFilter) (int, error)

	SaveMetadata(ctx context.Context, md Metadata) error
	GetMetadata(ctx context.Context) (*Metadata, error)

	Clear(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}
