package sched

import (
	"math"

	"github.com/me/schedcheck/pkg/model"
)

// HyperPeriod returns the least common multiple of the ceiling-rounded
// task periods. It bounds the horizon over which worst-case demand must
// be checked and is recomputed per call; it is never cached across task
// sets. Non-positive periods and int64 overflow surface as INVALID_INPUT.
func HyperPeriod(ts model.TaskSet) (int64, error) {
	if len(ts) == 0 {
		return 0, model.NewInvalidInput("task set is empty")
	}
	h := int64(1)
	for _, task := range ts {
		if task.Period <= 0 {
			return 0, model.NewInvalidInput("task %s: period %v is not positive", task.ID, task.Period)
		}
		p := int64(math.Ceil(task.Period))
		next, ok := lcm(h, p)
		if !ok {
			return 0, model.NewInvalidInput("hyper-period overflows int64; reduce task periods")
		}
		h = next
	}
	return h, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// lcm reports ok == false when the product a/gcd * b does not fit int64.
func lcm(a, b int64) (int64, bool) {
	q := a / gcd(a, b)
	if q > math.MaxInt64/b {
		return 0, false
	}
	return q * b, true
}
