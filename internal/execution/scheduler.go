package execution

import (
	"sort"

	"cypar/internal/config"
	"cypar/internal/domain"
)

// Scheduler distributes specs across workers
type Scheduler interface {
	Schedule(items []domain.SpecItem, workerCount int) []domain.Bucket
}

// NewScheduler returns the scheduler for a configured strategy
func NewScheduler(strategy string) Scheduler {
	if strategy == config.StrategyRoundRobin {
		return NewRoundRobinScheduler()
	}
	return NewWeightedScheduler()
}

// EffectiveWorkers returns the number of buckets used for itemCount specs.
// A request larger than the spec count is halved once and only once, so the
// result may still exceed itemCount.
func EffectiveWorkers(requested, itemCount int) int {
	if requested <= 0 {
		requested = 1
	}
	if requested > itemCount {
		requested /= 2
	}
	return requested
}

// WeightedScheduler packs specs with the longest-processing-time-first rule:
// heaviest spec first, each into the currently lightest bucket.
type WeightedScheduler struct{}

// NewWeightedScheduler creates a new WeightedScheduler
func NewWeightedScheduler() *WeightedScheduler {
	return &WeightedScheduler{}
}

// Schedule returns exactly EffectiveWorkers(workerCount, len(items)) buckets.
// Equal weights keep discovery order and ties between buckets go to the
// lowest index, so the result is deterministic.
func (s *WeightedScheduler) Schedule(items []domain.SpecItem, workerCount int) []domain.Bucket {
	sorted := make([]domain.SpecItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	buckets := make([]domain.Bucket, EffectiveWorkers(workerCount, len(items)))
	if len(buckets) == 0 {
		return buckets
	}
	for _, item := range sorted {
		buckets[lightest(buckets)].Add(item)
	}
	return buckets
}

// lightest returns the index of the bucket with the smallest total weight
func lightest(buckets []domain.Bucket) int {
	best := 0
	for i := 1; i < len(buckets); i++ {
		if buckets[i].TotalWeight < buckets[best].TotalWeight {
			best = i
		}
	}
	return best
}

// RoundRobinScheduler distributes specs evenly across workers, ignoring weights
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule distributes specs evenly across workers using round-robin
func (s *RoundRobinScheduler) Schedule(items []domain.SpecItem, workerCount int) []domain.Bucket {
	buckets := make([]domain.Bucket, EffectiveWorkers(workerCount, len(items)))
	if len(buckets) == 0 {
		return buckets
	}
	for i, item := range items {
		buckets[i%len(buckets)].Add(item)
	}
	return buckets
}
