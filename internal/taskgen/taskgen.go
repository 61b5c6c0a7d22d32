// Package taskgen produces random periodic task sets for schedulability
// experiments. Utilizations come from the UUniFast recurrence, periods are
// integers drawn uniformly from a configured bound, and deadlines are
// implicit (equal to the period).
package taskgen

import (
	"math"
	"math/rand/v2"

	"github.com/me/schedcheck/pkg/model"
)

// Config describes the experiment a generator draws task sets for.
type Config struct {
	// NumTasks is the number of tasks per generated set.
	NumTasks int

	// SystemUtilization is the target total utilization each set sums to.
	SystemUtilization float64

	// PeriodBound is the inclusive [lo, hi] range integer periods are
	// drawn from.
	PeriodBound [2]int64
}

func (c Config) validate() error {
	if c.NumTasks < 1 {
		return model.NewInvalidInput("taskgen: NumTasks %d < 1", c.NumTasks)
	}
	if c.SystemUtilization <= 0 {
		return model.NewInvalidInput("taskgen: target utilization %v is not positive", c.SystemUtilization)
	}
	if c.SystemUtilization > float64(c.NumTasks) {
		return model.NewInvalidInput(
			"taskgen: target utilization %v unreachable with %d tasks of utilization <= 1",
			c.SystemUtilization, c.NumTasks)
	}
	if c.PeriodBound[0] < 1 || c.PeriodBound[1] < c.PeriodBound[0] {
		return model.NewInvalidInput("taskgen: bad period bound %v", c.PeriodBound)
	}
	return nil
}

// Generator draws task sets deterministically from a seeded source.
type Generator struct {
	cfg Config
	rng *rand.Rand
}

// New creates a generator. The seed fixes the random stream, so two
// generators with identical config and seed produce identical sets.
func New(cfg Config, seed uint64) (*Generator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(seed, seed)),
	}, nil
}

// TaskSet draws one task set summing to the target utilization. Vectors
// containing a per-task utilization above 1 are redrawn, since such a
// task would violate the wcet <= period invariant. A target equal to the
// task count has exactly one feasible vector (all ones) and is built
// directly instead of drawn.
func (g *Generator) TaskSet() model.TaskSet {
	var utils []float64
	if g.cfg.SystemUtilization == float64(g.cfg.NumTasks) {
		utils = make([]float64, g.cfg.NumTasks)
		for i := range utils {
			utils[i] = 1
		}
	} else {
		utils = g.uuniFast()
		for !feasible(utils) {
			utils = g.uuniFast()
		}
	}

	ts := make(model.TaskSet, 0, g.cfg.NumTasks)
	for _, u := range utils {
		period := float64(g.periodIn(g.cfg.PeriodBound))
		ts = append(ts, model.NewPeriodicTask(u*period, period, period))
	}
	return ts
}

// uuniFast splits the target utilization uniformly over the n-1 simplex.
func (g *Generator) uuniFast() []float64 {
	n := g.cfg.NumTasks
	utils := make([]float64, 0, n)

	remaining := g.cfg.SystemUtilization
	for i := 1; i < n; i++ {
		next := remaining * math.Pow(g.rng.Float64(), 1/float64(n-i))
		utils = append(utils, remaining-next)
		remaining = next
	}
	return append(utils, remaining)
}

func (g *Generator) periodIn(bound [2]int64) int64 {
	return bound[0] + g.rng.Int64N(bound[1]-bound[0]+1)
}

func feasible(utils []float64) bool {
	for _, u := range utils {
		if u > 1 {
			return false
		}
	}
	return true
}
