// Package sched implements the schedulability analysis engine: the demand
// bound function, the load estimator, and the G-EDF sufficient test for
// heterogeneous multiprocessors. Every entry point is a pure function over
// read-only inputs; nothing here logs, blocks, or retains state.
package sched

import (
	"math"

	"github.com/me/schedcheck/pkg/model"
)

// DBF returns the maximum cumulative execution demand the task can impose
// within any time interval of length deltaT: the number of complete
// instances whose deadline falls inside the window, times the WCET.
// deltaT must be non-negative.
func DBF(task model.Task, deltaT float64) (float64, error) {
	if deltaT < 0 {
		return 0, model.NewInvalidInput("DBF: interval length %v is negative", deltaT)
	}
	return dbf(task, deltaT), nil
}

// dbf is the unchecked kernel shared with the load scan, which only ever
// evaluates it at deltaT >= 1. math.Floor is deliberate: integer division
// would truncate toward zero and overcount when deltaT < deadline.
func dbf(task model.Task, deltaT float64) float64 {
	n := math.Floor((deltaT-task.Deadline)/task.Period) + 1
	if n <= 0 {
		return 0
	}
	return n * task.WCET
}

// demandAt sums the demand bound of every task at interval length deltaT.
func demandAt(ts model.TaskSet, deltaT float64) float64 {
	var sum float64
	for _, task := range ts {
		sum += dbf(task, deltaT)
	}
	return sum
}
