package execution

import (
	"bufio"
	"io"
	"sync"
	"time"

	"cypar/internal/config"
	"cypar/internal/domain"
	"cypar/internal/logging"
	"cypar/internal/protocol"

	"github.com/sourcegraph/conc"
)

var _ Executor = (*WorkerPool)(nil)

// WorkerPool runs one worker process per bucket and joins all of them
type WorkerPool struct {
	config   *config.Config
	launcher Launcher
	reporter Reporter
	logger   *logging.Logger
	stdout   io.Writer // passthrough destination
	stderr   io.Writer // passthrough destination for worker stderr
}

// NewWorkerPool creates a new WorkerPool. In passthrough mode worker stdout
// and stderr are copied to stdout and stderr instead of being decoded.
func NewWorkerPool(cfg *config.Config, launcher Launcher, stdout, stderr io.Writer, logger *logging.Logger) *WorkerPool {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &WorkerPool{
		config:   cfg,
		launcher: launcher,
		reporter: nopReporter{},
		logger:   logger,
		stdout:   &syncWriter{w: stdout},
		stderr:   &syncWriter{w: stderr},
	}
}

// SetReporter sets the live progress reporter for the worker pool
func (wp *WorkerPool) SetReporter(reporter Reporter) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	wp.reporter = reporter
}

// Execute starts all workers at once and returns after every one of them has
// exited. Results are indexed by bucket regardless of completion order.
// Workers are never cancelled and their exit status does not affect results.
func (wp *WorkerPool) Execute(buckets []domain.Bucket) ([]protocol.WorkerResult, time.Duration, error) {
	results := make([]protocol.WorkerResult, len(buckets))
	startTime := time.Now()

	var wg conc.WaitGroup
	for i, bucket := range buckets {
		wg.Go(func() {
			results[i] = wp.runWorker(i, bucket)
		})
	}
	wg.Wait()

	wp.reporter.Finish()
	return results, time.Since(startTime), nil
}

func (wp *WorkerPool) runWorker(id int, bucket domain.Bucket) protocol.WorkerResult {
	log := wp.logger.WithWorker(id)
	acc := protocol.NewAccumulator(id, wp.config.DurationMode == config.DurationPerSuite)

	if len(bucket.Items) == 0 {
		log.Debug("bucket is empty, worker not started")
		return acc.Result()
	}

	proc, err := wp.launcher.Launch(id, bucket.Paths())
	if err != nil {
		log.Error("worker failed to start", "error", err)
		return acc.Result()
	}
	log.Debug("worker started", "specs", len(bucket.Items), "weight", bucket.TotalWeight)

	var diag sync.WaitGroup
	diag.Add(1)
	go func() {
		defer diag.Done()
		wp.forwardStderr(id, proc.Stderr())
	}()

	var skipped int
	if wp.config.Passthrough() {
		if _, err := io.Copy(wp.stdout, proc.Stdout()); err != nil {
			log.Warn("worker output copy failed", "error", err)
		}
	} else {
		skipped, err = protocol.Stream(proc.Stdout(), func(e protocol.Event) {
			acc.Apply(e)
			wp.reporter.Event(id, e)
		})
		if err != nil {
			log.Warn("worker output ended early", "error", err)
			_, _ = io.Copy(io.Discard, proc.Stdout())
		}
	}
	diag.Wait()

	if err := proc.Wait(); err != nil {
		log.Debug("worker exited", "duration", acc.Total(), "error", err)
	} else {
		log.Debug("worker exited", "duration", acc.Total())
	}

	result := acc.Result()
	result.Skipped = skipped
	return result
}

// forwardStderr passes stderr through for diagnostics. Passthrough mode
// copies it verbatim; managed mode hands it to the reporter line by line.
func (wp *WorkerPool) forwardStderr(id int, r io.Reader) {
	if wp.config.Passthrough() {
		if _, err := io.Copy(wp.stderr, r); err != nil {
			wp.logger.WithWorker(id).Warn("worker stderr copy failed", "error", err)
		}
		return
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		wp.reporter.Diagnostic(id, scanner.Text())
	}
	// Keep draining so the child never blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

// syncWriter serializes writes from concurrent workers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return len(p), nil
	}
	return s.w.Write(p)
}
