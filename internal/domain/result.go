package domain

import "time"

// SuiteResult is the outcome of one named suite reported by a worker
type SuiteResult struct {
	Name     string
	Worker   int           // Index of the bucket that reported the suite
	Duration time.Duration // Accumulated duration snapshot
	Passes   int
	Failures int
	Pending  int
}

// Tests returns the number of tests counted for the suite.
// The runner's own "tests" field is not trusted; it is derived from the counts.
func (s SuiteResult) Tests() int {
	return s.Passes + s.Failures + s.Pending
}

// RunSummary is the merged result of all workers of a managed run
type RunSummary struct {
	suites  map[string]SuiteResult
	order   []string
	workers []time.Duration
}

// NewRunSummary creates an empty summary for the given number of workers
func NewRunSummary(workers int) *RunSummary {
	return &RunSummary{
		suites:  make(map[string]SuiteResult),
		workers: make([]time.Duration, workers),
	}
}

// Put stores a suite result, replacing any suite with the same name.
// A replaced suite keeps its original position.
func (s *RunSummary) Put(result SuiteResult) (replaced bool) {
	_, replaced = s.suites[result.Name]
	if !replaced {
		s.order = append(s.order, result.Name)
	}
	s.suites[result.Name] = result
	return replaced
}

// Get returns the suite with the given name
func (s *RunSummary) Get(name string) (SuiteResult, bool) {
	result, ok := s.suites[name]
	return result, ok
}

// Suites returns all suites in insertion order
func (s *RunSummary) Suites() []SuiteResult {
	out := make([]SuiteResult, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.suites[name])
	}
	return out
}

// Len returns the number of suites
func (s *RunSummary) Len() int {
	return len(s.order)
}

// SetWorkerDuration records the total suite time observed on one worker
func (s *RunSummary) SetWorkerDuration(worker int, d time.Duration) {
	if worker >= 0 && worker < len(s.workers) {
		s.workers[worker] = d
	}
}

// WorkerDurations returns the per-worker totals in bucket order
func (s *RunSummary) WorkerDurations() []time.Duration {
	out := make([]time.Duration, len(s.workers))
	copy(out, s.workers)
	return out
}

// Totals returns the sums over all suites
func (s *RunSummary) Totals() Totals {
	var t Totals
	for _, name := range s.order {
		suite := s.suites[name]
		t.Tests += suite.Tests()
		t.Passes += suite.Passes
		t.Failures += suite.Failures
		t.Pending += suite.Pending
		t.Duration += suite.Duration
	}
	return t
}

// Totals holds the derived counters of a RunSummary
type Totals struct {
	Tests    int
	Passes   int
	Failures int
	Pending  int
	Duration time.Duration
}
