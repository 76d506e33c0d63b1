package results

import (
	"math"

	"cypar/internal/domain"
	"cypar/internal/weights"
)

// WeightScale is the average weight of a suite in a freshly computed table
const WeightScale = 10

// ComputeWeights turns the measured suite durations into the next weight
// table: weight = floor(duration / total * suites * WeightScale).
// When no time was measured every suite gets WeightScale.
func ComputeWeights(summary *domain.RunSummary) *weights.Table {
	table := weights.NewTable()
	suites := summary.Suites()
	total := summary.Totals().Duration
	budget := float64(len(suites) * WeightScale)

	for _, suite := range suites {
		weight := float64(WeightScale)
		if total > 0 {
			weight = math.Floor(float64(suite.Duration) / float64(total) * budget)
		}
		table.Set(suite.Name, weights.Record{Time: suite.Duration, Weight: weight})
	}
	return table
}
