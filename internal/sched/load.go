package sched

import (
	"context"
	"math"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/me/schedcheck/pkg/model"
)

// DefaultSamplingRate is the sampling step as a fraction of the
// hyper-period used when LoadOptions.SamplingRate is unset.
const DefaultSamplingRate = 1e-5

// LoadOptions tune the sampled load scan. The zero value is usable.
type LoadOptions struct {
	// SamplingRate controls the scan step: step = ceil(hyperPeriod * rate),
	// never below 1. Smaller rates trade runtime for a tighter bound.
	SamplingRate float64

	// Progress, if set, is invoked once per evaluated sample.
	Progress Progress

	// Parallel, when > 1, spreads the sampling grid across that many
	// workers with a final max-reduce. The grid is identical to the
	// sequential scan, so the result is too. 0 or 1 means sequential;
	// a negative value uses GOMAXPROCS workers.
	Parallel int
}

func (o LoadOptions) rate() float64 {
	if o.SamplingRate <= 0 {
		return DefaultSamplingRate
	}
	return o.SamplingRate
}

func (o LoadOptions) progress() Progress {
	if o.Progress == nil {
		return nopProgress{}
	}
	return o.Progress
}

// Load returns an upper bound on the fraction of processing capacity the
// task set can demand over any interval within one hyper-period.
//
// With implicitDeadline set (valid only when every deadline equals its
// period) the supremum of sum(DBF)/Δt is attained at Δt = hyperPeriod and
// is computed there exactly, in a single evaluation.
//
// Otherwise Δt is scanned across [1, hyperPeriod] at the configured
// sampling step, taking the running maximum. The scan is a one-sided
// approximation: it can under-estimate the true supremum, but by no more
// than one sampling step's worth of grid resolution. Callers needing a
// dense scan must pick a SamplingRate small enough that the step is 1.
//
// An empty task set or a non-positive period fails with INVALID_INPUT.
func Load(ctx context.Context, ts model.TaskSet, implicitDeadline bool, opts LoadOptions) (float64, error) {
	hyperPeriod, err := HyperPeriod(ts)
	if err != nil {
		return 0, err
	}

	if implicitDeadline {
		deltaT := float64(hyperPeriod)
		return demandAt(ts, deltaT) / deltaT, nil
	}

	step := int64(math.Ceil(float64(hyperPeriod) * opts.rate()))
	if step < 1 {
		step = 1
	}
	total := (hyperPeriod-1)/step + 1

	if workers := opts.workers(); workers > 1 && total >= int64(workers) {
		return scanParallel(ctx, ts, step, total, workers, opts.progress())
	}
	return scanSequential(ctx, ts, hyperPeriod, step, total, opts.progress())
}

func (o LoadOptions) workers() int {
	switch {
	case o.Parallel < 0:
		return runtime.GOMAXPROCS(0)
	case o.Parallel > 1:
		return o.Parallel
	}
	return 1
}

func scanSequential(ctx context.Context, ts model.TaskSet, hyperPeriod, step, total int64, prog Progress) (float64, error) {
	var load float64
	var done int64
	for deltaT := int64(1); deltaT <= hyperPeriod; deltaT += step {
		if done%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
		}
		if ratio := demandAt(ts, float64(deltaT)) / float64(deltaT); ratio > load {
			load = ratio
		}
		done++
		prog.Step(done, total)
	}
	return load, nil
}

// scanParallel walks the same grid as scanSequential, chunked by sample
// index so every worker touches disjoint points and the reduced maximum
// is identical to the sequential result.
func scanParallel(ctx context.Context, ts model.TaskSet, step, total int64, workers int, prog Progress) (float64, error) {
	maxima := make([]float64, workers)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	chunk := (total + int64(workers) - 1) / int64(workers)
	for w := 0; w < workers; w++ {
		lo := int64(w) * chunk
		hi := min(lo+chunk, total)
		g.Go(func() error {
			var local float64
			for i := lo; i < hi; i++ {
				if (i-lo)%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				deltaT := float64(1 + i*step)
				if ratio := demandAt(ts, deltaT) / deltaT; ratio > local {
					local = ratio
				}
				prog.Step(done.Add(1), total)
			}
			maxima[w] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var load float64
	for _, m := range maxima {
		if m > load {
			load = m
		}
	}
	return load, nil
}
