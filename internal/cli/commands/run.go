package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cypar/internal/config"
	"cypar/internal/domain"
	"cypar/internal/execution"
	"cypar/internal/logging"
	"cypar/internal/results"
	"cypar/internal/storage"
	"cypar/internal/ui"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RunCommand handles the run command
type RunCommand struct {
	session *Session

	// Collaborators built from the configuration when nil
	launcher    execution.Launcher
	reporter    execution.Reporter
	weightStore storage.WeightStore
	resultStore storage.ResultStore
	stdout      io.Writer
	stderr      io.Writer
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(session *Session) *RunCommand {
	return &RunCommand{
		session: session,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	return rc.Run(cmd.Context())
}

// Run discovers, schedules and executes the specs, then reports the results
// and feeds the measured durations back into the weight store.
func (rc *RunCommand) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := rc.session.Config
	if err := cfg.RequireScript(); err != nil {
		return err
	}

	runID := uuid.NewString()
	log := rc.session.Logger.WithRun(runID)

	// Discover specs
	specs, err := discoverSpecs(cfg)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		fmt.Fprintln(rc.stdout, color.YellowString("No specs to execute"))
		return nil
	}
	fmt.Fprintf(rc.stdout, "%d test suite(s) found.\n", len(specs))
	log.Debug("specs discovered", "specs", len(specs), "dir", cfg.GetSpecsPath())

	// Load weights
	store, err := rc.openWeightStore()
	if err != nil {
		return err
	}
	defer closeStore(store)
	table, err := store.Load(ctx)
	if err != nil {
		if !domain.IsWarning(err) {
			return err
		}
		if errors.Is(err, domain.ErrWeightsMissing) {
			fmt.Fprintf(rc.stdout, "Weight file not found in path: %s\n", store.Location())
		} else {
			fmt.Fprintln(rc.stderr, color.YellowString("%v", err))
		}
		log.Warn("using default weights", "error", err)
	}

	items := make([]domain.SpecItem, len(specs))
	for i, spec := range specs {
		items[i] = domain.SpecItem{Path: spec, Weight: table.Lookup(spec)}
	}

	// Schedule
	buckets := execution.NewScheduler(cfg.Strategy).Schedule(items, cfg.Threads)
	for i, b := range buckets {
		log.Debug("bucket scheduled", "worker", i, "specs", len(b.Items), "weight", b.TotalWeight)
	}

	// Execute
	launcher := rc.launcher
	if launcher == nil {
		launcher = execution.NewRunner(cfg)
	}
	pool := execution.NewWorkerPool(cfg, launcher, rc.stdout, rc.stderr, log)
	if !cfg.Passthrough() {
		pool.SetReporter(rc.progressReporter(cfg, log))
	}

	log.Debug("workers running", "workers", len(buckets))
	workerResults, elapsed, err := pool.Execute(buckets)
	if err != nil {
		return err
	}
	log.Debug("all workers joined", "elapsed", elapsed)

	if cfg.Passthrough() {
		return nil
	}

	// Aggregate and report
	summary := results.Aggregate(workerResults, cfg.Collision, log)
	totals := summary.Totals()
	log.Debug("results aggregated", "suites", summary.Len(), "tests", totals.Tests, "failures", totals.Failures)

	formatter := ui.NewFormatter(cfg, nil, rc.stdout)
	formatter.PrintThreadTimes(summary)
	formatter.PrintSummary(summary)

	output := &domain.RunOutput{
		Meta: domain.RunMeta{
			RunID:           runID,
			Specs:           len(specs),
			Workers:         len(buckets),
			Suites:          summary.Len(),
			Tests:           totals.Tests,
			Passes:          totals.Passes,
			Failures:        totals.Failures,
			Pending:         totals.Pending,
			Duration:        ui.FormatDuration(elapsed),
			DurationSeconds: elapsed.Seconds(),
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
		},
		Details: results.Failures(workerResults),
	}
	if err := rc.openResultStore().Save(ctx, output); err != nil {
		log.Warn("failed to save run results", "error", err)
	}

	// Feed durations back
	if totals.Failures == 0 || cfg.UpdateWeightsOnFailure {
		if err := store.Save(ctx, results.ComputeWeights(summary)); err != nil {
			return err
		}
		fmt.Fprintf(rc.stdout, "Generated weights in %s.\n", store.Location())
		log.Debug("weights persisted", "location", store.Location())
	}

	if totals.Failures > 0 {
		fmt.Fprintln(rc.stderr, color.RedString("%d test failure(s)", totals.Failures))
		return &domain.ExitError{Code: 1, Err: fmt.Errorf("%d %w", totals.Failures, domain.ErrTestsFailed)}
	}
	return nil
}

func (rc *RunCommand) openWeightStore() (storage.WeightStore, error) {
	if rc.weightStore != nil {
		return rc.weightStore, nil
	}
	return storage.NewWeightStore(rc.session.Config)
}

func (rc *RunCommand) openResultStore() storage.ResultStore {
	if rc.resultStore != nil {
		return rc.resultStore
	}
	return storage.NewResultStore(rc.session.Config)
}

func (rc *RunCommand) progressReporter(cfg *config.Config, log *logging.Logger) execution.Reporter {
	if rc.reporter != nil {
		return rc.reporter
	}
	return ui.NewProgressReporter(cfg.Progress, os.Stdout, log)
}
