package model

import (
	"slices"
)

// Platform describes a heterogeneous multiprocessor: one relative speed
// per core, fastest first, plus the aggregate capacity SM. The analysis
// formulas assume Speeds is sorted descending; NewPlatform enforces that,
// and the engine re-sorts defensively for platforms built by hand.
type Platform struct {
	Speeds []float64 `json:"speed_list"`
	SM     float64   `json:"s_m"`
}

// NewPlatform builds a platform from per-core speeds. The slice is
// copied and sorted descending; SM is the sum of speeds.
func NewPlatform(speeds []float64) (Platform, error) {
	if len(speeds) == 0 {
		return Platform{}, NewInvalidInput("platform has no cores")
	}
	sorted := slices.Clone(speeds)
	var sum float64
	for _, s := range sorted {
		if s <= 0 {
			return Platform{}, NewInvalidInput("core speed %v is not positive", s)
		}
		sum += s
	}
	slices.SortFunc(sorted, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}
		return 0
	})
	return Platform{Speeds: sorted, SM: sum}, nil
}

// Validate checks the platform invariants: at least one core, every
// speed positive.
func (p Platform) Validate() error {
	if len(p.Speeds) == 0 {
		return NewInvalidInput("platform has no cores")
	}
	for _, s := range p.Speeds {
		if s <= 0 {
			return NewInvalidInput("core speed %v is not positive", s)
		}
	}
	return nil
}

// MultiCore reports whether the platform has at least two cores. The
// G-EDF sufficient test is defined only on multicore platforms.
func (p Platform) MultiCore() bool {
	return len(p.Speeds) >= 2
}
