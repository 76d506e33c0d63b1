package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"cypar/internal/config"
	"cypar/internal/execution"
	"cypar/internal/logging"
	"cypar/internal/protocol"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// NewProgressReporter returns the live reporter for mode. In auto mode the
// bar is used only when stdout is a terminal.
func NewProgressReporter(mode string, stdout *os.File, logger *logging.Logger) execution.Reporter {
	switch mode {
	case config.ProgressBar:
		return NewBarReporter(stdout, os.Stderr, logger)
	case config.ProgressLines:
		return NewLineReporter(stdout, stdout)
	}
	if term.IsTerminal(int(stdout.Fd())) {
		return NewBarReporter(stdout, os.Stderr, logger)
	}
	return NewLineReporter(stdout, stdout)
}

// LineReporter prints one line per finished test
type LineReporter struct {
	mu   sync.Mutex
	out  io.Writer
	diag io.Writer
}

// NewLineReporter creates a LineReporter. Worker stderr goes to diag.
func NewLineReporter(out, diag io.Writer) *LineReporter {
	return &LineReporter{out: out, diag: diag}
}

// Event prints a pass or failure line
func (r *LineReporter) Event(_ int, e protocol.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Kind {
	case protocol.KindPass:
		fmt.Fprintf(r.out, "%s%s (%dms)\n", color.GreenString("✔ "), e.Pass.Title, e.Pass.Duration.Milliseconds())
	case protocol.KindFail:
		printFailure(r.out, e.Fail)
	}
}

// Diagnostic prints a stderr line of a worker
func (r *LineReporter) Diagnostic(_ int, line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.diag, color.RedString("%s", line))
}

// Finish is a no-op for the LineReporter
func (r *LineReporter) Finish() {}

func printFailure(w io.Writer, f *protocol.Fail) {
	fmt.Fprintf(w, "%s%s ( - ms)\n", color.RedString("✖ "), f.Title)
	if f.Err != "" {
		fmt.Fprintln(w, color.RedString("%s", f.Err))
	}
	if f.Stack != "" {
		fmt.Fprintln(w, color.RedString("%s", strings.TrimRight(f.Stack, "\n")))
	}
}

// BarReporter shows a spinner with pass/fail counts. Failures and worker
// stderr are printed above it.
type BarReporter struct {
	mu       sync.Mutex
	bar      *progressbar.ProgressBar
	out      io.Writer
	logger   *logging.Logger
	passes   int
	failures int
}

// NewBarReporter creates a BarReporter drawing on barWriter and printing
// failures to out.
func NewBarReporter(out, barWriter io.Writer, logger *logging.Logger) *BarReporter {
	if logger == nil {
		logger = logging.NopLogger()
	}
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWriter(barWriter),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionClearOnFinish(),
	)
	return &BarReporter{bar: bar, out: out, logger: logger}
}

func describe(passes, failures int) string {
	return color.CyanString("Running specs: ") +
		color.GreenString("[passed: %d", passes) +
		" | " +
		color.RedString("failed: %d]", failures)
}

// Event updates the counters and prints failures above the bar
func (r *BarReporter) Event(_ int, e protocol.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch e.Kind {
	case protocol.KindPass:
		r.passes++
	case protocol.KindFail:
		r.failures++
		_ = r.bar.Clear()
		printFailure(r.out, e.Fail)
	default:
		return
	}
	r.bar.Describe(describe(r.passes, r.failures))
	_ = r.bar.Add(1)
}

// Diagnostic prints a stderr line of a worker above the bar
func (r *BarReporter) Diagnostic(worker int, line string) {
	r.logger.WithWorker(worker).Debug("worker stderr", "line", line)

	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Clear()
	fmt.Fprintln(r.out, color.RedString("%s", line))
}

// Finish removes the bar
func (r *BarReporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	_ = r.bar.Finish()
}

func (r *BarReporter) counts() (passes, failures int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes, r.failures
}
