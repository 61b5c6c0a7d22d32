package sched

// Progress observes the sampled load scan, one call per evaluated sample.
// It is purely observational: implementations must not assume any effect
// on the computed result. When the scan runs in parallel, Step is called
// from multiple goroutines and implementations must be safe for that.
type Progress interface {
	Step(done, total int64)
}

// ProgressFunc adapts a function to the Progress interface.
type ProgressFunc func(done, total int64)

func (f ProgressFunc) Step(done, total int64) { f(done, total) }

type nopProgress struct{}

func (nopProgress) Step(int64, int64) {}
