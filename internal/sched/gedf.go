package sched

import (
	"context"
	"slices"

	"github.com/me/schedcheck/pkg/model"
)

// schedEpsilon is the tolerance applied to the final accept/reject
// inequality. All intermediate quantities are float64; a documented
// epsilon at the single deciding comparison keeps verdicts stable for
// task sets that land exactly on the threshold.
const schedEpsilon = 1e-9

// SufficientTest decides whether the task set is guaranteed schedulable
// under Global-EDF on the given heterogeneous multiprocessor platform.
//
// The test is one-sided: true is a schedulability certificate, false
// means inconclusive or unschedulable, never a proof of the latter.
// It is defined only for platforms with at least two cores; single-core
// calls fail with UNSUPPORTED_PLATFORM. Task sets violating the model
// invariants (e.g. WCET exceeding a deadline) fail with INVALID_INPUT
// before any arithmetic. When no processor-count threshold exists for
// the platform/task combination the test fails with ARITHMETIC_DOMAIN.
//
// Repeated calls with identical inputs are deterministic; only the
// sampled load path varies with opts.SamplingRate.
func SufficientTest(ctx context.Context, ts model.TaskSet, platform model.Platform, opts LoadOptions) (bool, error) {
	if err := ts.Validate(); err != nil {
		return false, err
	}
	if err := platform.Validate(); err != nil {
		return false, err
	}
	if !platform.MultiCore() {
		return false, model.NewUnsupportedPlatform(
			"G-EDF sufficient test requires at least 2 cores, platform has %d", len(platform.Speeds))
	}

	// The capacity-loss formulas read "slower cores at the tail"; sort a
	// copy so hand-built platforms cannot violate that silently.
	speeds := slices.Clone(platform.Speeds)
	slices.SortFunc(speeds, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})

	var varphiMax float64
	for _, task := range ts {
		if d := task.Density(); d > varphiMax {
			varphiMax = d
		}
	}

	// suffix[i] = sum of speeds[i:].
	suffix := make([]float64, len(speeds)+1)
	for i := len(speeds) - 1; i >= 0; i-- {
		suffix[i] = suffix[i+1] + speeds[i]
	}

	// Worst-case capacity lost to interleaving across every adjacent
	// split of the speed list.
	var lambdaPi float64
	for i := 0; i < len(speeds)-1; i++ {
		if r := suffix[i+1] / speeds[i]; r > lambdaPi {
			lambdaPi = r
		}
	}

	mu := platform.SM - lambdaPi*varphiMax

	// v: largest processor count whose remaining aggregate speed can no
	// longer cover mu.
	v := 0
	for i := range speeds {
		if suffix[i] < mu {
			v = i + 1
		}
	}
	if v == 0 {
		return false, model.NewArithmeticDomain(
			"no processor-count threshold: every speed suffix covers mu=%v", mu)
	}

	load, err := Load(ctx, ts, ts.Implicit(), opts)
	if err != nil {
		return false, err
	}

	return mu-float64(v)*varphiMax >= load-schedEpsilon, nil
}
