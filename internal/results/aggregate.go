// Package results merges worker results into a run summary and derives the
// next weight table from it.
package results

import (
	"time"

	"cypar/internal/config"
	"cypar/internal/domain"
	"cypar/internal/logging"
	"cypar/internal/protocol"
)

// Aggregate merges the suites of all workers in bucket order.
// With the overwrite policy a suite reported by several workers keeps the
// values of the last worker; with merge the counts and durations are summed.
// Worker durations are the sums of each worker's own suite durations.
func Aggregate(results []protocol.WorkerResult, policy string, logger *logging.Logger) *domain.RunSummary {
	if logger == nil {
		logger = logging.NopLogger()
	}
	summary := domain.NewRunSummary(len(results))

	for i, result := range results {
		var workerTotal time.Duration
		for _, suite := range result.Suites {
			workerTotal += suite.Duration

			previous, exists := summary.Get(suite.Name)
			if exists {
				logger.Debug("suite reported by several workers",
					"suite", suite.Name,
					"first_worker", previous.Worker,
					"worker", suite.Worker,
					"policy", policy)
				if policy == config.CollisionMerge {
					suite = merge(previous, suite)
				}
			}
			summary.Put(suite)
		}
		summary.SetWorkerDuration(i, workerTotal)
	}
	return summary
}

func merge(a, b domain.SuiteResult) domain.SuiteResult {
	return domain.SuiteResult{
		Name:     b.Name,
		Worker:   b.Worker,
		Duration: a.Duration + b.Duration,
		Passes:   a.Passes + b.Passes,
		Failures: a.Failures + b.Failures,
		Pending:  a.Pending + b.Pending,
	}
}

// Failures collects the failed tests of all workers in bucket order
func Failures(results []protocol.WorkerResult) []domain.TestFailure {
	var out []domain.TestFailure
	for _, result := range results {
		out = append(out, result.Failures...)
	}
	return out
}
