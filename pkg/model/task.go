// Package model defines the task and platform value objects shared by the
// schedulability engine, the store, and the generator. All types are plain
// immutable values: constructed once, consumed read-only, never mutated.
package model

import (
	"math"

	"github.com/google/uuid"
)

// TaskKind identifies the recurrence model of a task.
type TaskKind string

const (
	// TaskKindPeriodic releases an instance every Period time units.
	TaskKindPeriodic TaskKind = "periodic"
)

// Task is a recurring real-time task characterized by its worst-case
// execution time, relative deadline, and period. The deadline may be
// smaller than, equal to, or larger than the period.
type Task struct {
	ID       string   `json:"id"`
	Kind     TaskKind `json:"kind"`
	WCET     float64  `json:"wcet"`
	Deadline float64  `json:"deadline"`
	Period   float64  `json:"period"`
}

// NewPeriodicTask creates a periodic task with a fresh ID.
func NewPeriodicTask(wcet, deadline, period float64) Task {
	return Task{
		ID:       "task_" + uuid.New().String(),
		Kind:     TaskKindPeriodic,
		WCET:     wcet,
		Deadline: deadline,
		Period:   period,
	}
}

// Utilization returns WCET / Period.
func (t Task) Utilization() float64 {
	return t.WCET / t.Period
}

// Density returns WCET / min(Deadline, Period), which bounds the task's
// instantaneous capacity requirement.
func (t Task) Density() float64 {
	return t.WCET / math.Min(t.Deadline, t.Period)
}

// Implicit reports whether the task's deadline equals its period.
func (t Task) Implicit() bool {
	return t.Deadline == t.Period
}

// Validate checks the model invariants. A task whose WCET exceeds its
// deadline or period is trivially unschedulable and must be rejected
// before analysis, not silently processed.
func (t Task) Validate() error {
	switch {
	case t.WCET < 0:
		return NewInvalidInput("task %s: wcet %v is negative", t.ID, t.WCET)
	case t.Deadline <= 0:
		return NewInvalidInput("task %s: deadline %v is not positive", t.ID, t.Deadline)
	case t.Period <= 0:
		return NewInvalidInput("task %s: period %v is not positive", t.ID, t.Period)
	case t.WCET > t.Deadline:
		return NewInvalidInput("task %s: wcet %v exceeds deadline %v", t.ID, t.WCET, t.Deadline)
	case t.WCET > t.Period:
		return NewInvalidInput("task %s: wcet %v exceeds period %v", t.ID, t.WCET, t.Period)
	}
	return nil
}

// TaskSet is a collection of tasks analyzed together. Order carries no
// meaning for the analysis.
type TaskSet []Task

// Validate checks that the set is non-empty and every member satisfies
// the task invariants.
func (ts TaskSet) Validate() error {
	if len(ts) == 0 {
		return NewInvalidInput("task set is empty")
	}
	for _, t := range ts {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Implicit reports whether every task's deadline equals its period.
func (ts TaskSet) Implicit() bool {
	for _, t := range ts {
		if !t.Implicit() {
			return false
		}
	}
	return true
}

// TotalUtilization returns the sum of member utilizations.
func (ts TaskSet) TotalUtilization() float64 {
	var sum float64
	for _, t := range ts {
		sum += t.Utilization()
	}
	return sum
}
