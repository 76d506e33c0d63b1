package protocol

import (
	"time"

	"cypar/internal/domain"
)

// Accumulator folds the events of one worker into suite results.
// It is owned by a single worker and must not be shared.
type Accumulator struct {
	worker   int
	perSuite bool
	total    time.Duration // running total of pass durations
	mark     time.Duration // total at the previous suite end
	suites   map[string]domain.SuiteResult
	order    []string
	failures []domain.TestFailure
}

// NewAccumulator creates the accumulator of worker. When perSuite is false a
// suite records the worker's running total at its end, otherwise only the
// time elapsed since the previous suite ended.
func NewAccumulator(worker int, perSuite bool) *Accumulator {
	return &Accumulator{
		worker:   worker,
		perSuite: perSuite,
		suites:   make(map[string]domain.SuiteResult),
	}
}

// Apply updates the accumulator with one event
func (a *Accumulator) Apply(e Event) {
	switch e.Kind {
	case KindPass:
		if e.Pass != nil {
			a.total += e.Pass.Duration
		}
	case KindFail:
		if e.Fail != nil {
			a.failures = append(a.failures, domain.TestFailure{
				Title:     e.Fail.Title,
				FullTitle: e.Fail.FullTitle,
				Error:     e.Fail.Err,
				Stack:     e.Fail.Stack,
				Worker:    a.worker,
			})
		}
	case KindSuiteEnd:
		a.endSuite(e.Suite)
	}
}

func (a *Accumulator) endSuite(s *SuiteEnd) {
	if s == nil || s.Title == nil || *s.Title == "" {
		return
	}

	duration := a.total
	if a.perSuite {
		duration = a.total - a.mark
	}
	a.mark = a.total

	name := *s.Title
	if _, seen := a.suites[name]; !seen {
		a.order = append(a.order, name)
	}
	a.suites[name] = domain.SuiteResult{
		Name:     name,
		Worker:   a.worker,
		Duration: duration,
		Passes:   s.Passes,
		Failures: s.Failures,
		Pending:  s.Pending,
	}
}

// Total returns the running total of pass durations
func (a *Accumulator) Total() time.Duration {
	return a.total
}

// Result returns the worker's suites in the order they ended and its failures
func (a *Accumulator) Result() WorkerResult {
	suites := make([]domain.SuiteResult, 0, len(a.order))
	for _, name := range a.order {
		suites = append(suites, a.suites[name])
	}
	failures := make([]domain.TestFailure, len(a.failures))
	copy(failures, a.failures)
	return WorkerResult{Worker: a.worker, Suites: suites, Failures: failures}
}

// WorkerResult is everything decoded from one worker's stream
type WorkerResult struct {
	Worker   int
	Suites   []domain.SuiteResult
	Failures []domain.TestFailure
	Skipped  int // lines that could not be decoded
}
