package execution

import (
	"time"

	"cypar/internal/domain"
	"cypar/internal/protocol"
)

// Executor runs scheduled buckets and returns one result per bucket
type Executor interface {
	Execute(buckets []domain.Bucket) ([]protocol.WorkerResult, time.Duration, error)
}

// Reporter receives live progress. Events of different workers arrive
// concurrently, so implementations must be safe for concurrent use.
type Reporter interface {
	Event(worker int, e protocol.Event)
	Diagnostic(worker int, line string)
	Finish()
}

type nopReporter struct{}

func (nopReporter) Event(int, protocol.Event) {}
func (nopReporter) Diagnostic(int, string)    {}
func (nopReporter) Finish()                   {}
