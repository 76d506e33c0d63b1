package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"cypar/internal/config"
	"cypar/internal/discovery"
	"cypar/internal/domain"
	"cypar/internal/weights"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Output formats of the weights command
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

var (
	summaryWidths = []int{50, 8, 7, 9, 9, 9}
	summaryHeader = []string{"Spec", "Time", "Tests", "Passing", "Failing", "Pending"}
	weightsWidths = []int{50, 10, 8}
	weightsHeader = []string{"Spec", "Time", "Weight"}
)

// FormatDuration rounds d up to whole seconds and renders it as "1m 5s" or "5s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int64((d + time.Second - 1) / time.Second)
	minutes := seconds / 60

	var res string
	if minutes > 0 {
		res = fmt.Sprintf("%dm ", minutes)
	}
	return res + fmt.Sprintf("%ds", seconds%60)
}

// Formatter formats and displays output
type Formatter struct {
	config *config.Config
	parser *discovery.Parser
	out    io.Writer
}

// NewFormatter creates a new Formatter writing to out
func NewFormatter(cfg *config.Config, parser *discovery.Parser, out io.Writer) *Formatter {
	return &Formatter{
		config: cfg,
		parser: parser,
		out:    out,
	}
}

// PrintThreadTimes prints the summed suite time of every worker
func (f *Formatter) PrintThreadTimes(summary *domain.RunSummary) {
	for i, d := range summary.WorkerDurations() {
		fmt.Fprintf(f.out, "Thread %d time: %s\n", i, FormatDuration(d))
	}
}

// PrintSummary prints one row per suite followed by the totals
func (f *Formatter) PrintSummary(summary *domain.RunSummary) {
	suites := summary.Suites()
	rows := make([][]cell, 0, len(suites))
	for _, s := range suites {
		rows = append(rows, []cell{
			plain(s.Name),
			plain(FormatDuration(s.Duration)),
			plain(strconv.Itoa(s.Tests())),
			plain(strconv.Itoa(s.Passes)),
			failureCell(s.Failures),
			plain(strconv.Itoa(s.Pending)),
		})
	}

	t := summary.Totals()
	footer := []cell{
		{text: "Results", style: totalStyle.Render},
		plain(FormatDuration(t.Duration)),
		plain(strconv.Itoa(t.Tests)),
		plain(strconv.Itoa(t.Passes)),
		failureCell(t.Failures),
		plain(strconv.Itoa(t.Pending)),
	}

	fmt.Fprint(f.out, renderTable(summaryWidths, summaryHeader, rows, footer))
}

func failureCell(n int) cell {
	c := plain(strconv.Itoa(n))
	if n > 0 {
		c.style = func(s string) string { return color.RedString("%s", s) }
	}
	return c
}

// PrintWeights prints a weight table as a boxed table, JSON or YAML
func (f *Formatter) PrintWeights(table *weights.Table, format string) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(table, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal weights: %w", err)
		}
		fmt.Fprintln(f.out, string(data))
	case FormatYAML:
		data, err := yaml.Marshal(table)
		if err != nil {
			return fmt.Errorf("failed to marshal weights: %w", err)
		}
		fmt.Fprint(f.out, string(data))
	case FormatTable, "":
		entries := table.Entries()
		rows := make([][]cell, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []cell{
				plain(e.Key),
				plain(strconv.FormatInt(e.Record.Time.Milliseconds(), 10) + "ms"),
				plain(strconv.FormatFloat(e.Record.Weight, 'f', -1, 64)),
			})
		}
		fmt.Fprint(f.out, renderTable(weightsWidths, weightsHeader, rows, nil))
	default:
		return fmt.Errorf("unknown format %q, expected one of: %s, %s, %s", format, FormatTable, FormatJSON, FormatYAML)
	}
	return nil
}

// PrintSpecList prints the discovered specs with their weights, optionally
// with the scenarios of every spec.
func (f *Formatter) PrintSpecList(items []domain.SpecItem, showScenarios bool) error {
	green := color.New(color.FgGreen)
	cyan := color.New(color.FgCyan)

	if showScenarios {
		green.Fprintf(f.out, "Found %d spec(s) with scenarios:\n\n", len(items))
	} else {
		green.Fprintf(f.out, "Found %d spec(s):\n\n", len(items))
	}

	for i, item := range items {
		isLastFile := i == len(items)-1
		branch, indent := "├── ", "│   "
		if isLastFile {
			branch, indent = "└── ", "    "
		}

		cyan.Fprintf(f.out, "%s%s", branch, f.relative(item.Path))
		fmt.Fprintf(f.out, " %s\n", color.HiBlackString("(weight %s)", strconv.FormatFloat(item.Weight, 'f', -1, 64)))

		if !showScenarios {
			continue
		}

		scenarios, err := f.parser.FindScenarios(f.absolute(item.Path))
		if err != nil {
			fmt.Fprintf(f.out, "%s└── %s\n", indent, color.RedString("error reading spec: %v", err))
			continue
		}
		if len(scenarios) == 0 {
			fmt.Fprintf(f.out, "%s└── %s\n", indent, color.RedString("(no scenarios found)"))
		}
		for j, scenario := range scenarios {
			prefix := indent + "├── "
			if j == len(scenarios)-1 {
				prefix = indent + "└── "
			}
			fmt.Fprintf(f.out, "%s%s\n", prefix, color.YellowString("%s", scenario))
		}

		// Add spacing between files (except for the last one)
		if !isLastFile {
			fmt.Fprintln(f.out)
		}
	}
	return nil
}

func (f *Formatter) absolute(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.config.ProjectPath, path)
}

func (f *Formatter) relative(path string) string {
	if rel, err := filepath.Rel(f.config.ProjectPath, path); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}

// PrintMetaStats displays the metadata and failures of a stored run
func (f *Formatter) PrintMetaStats(output *domain.RunOutput) {
	meta := output.Meta
	cyan := color.New(color.FgCyan)

	fmt.Fprintln(f.out)
	cyan.Fprintln(f.out, "╔═══════════════════════════════════════════════════════════════╗")
	cyan.Fprintln(f.out, "║                     Parallel Run Statistics                   ║")
	cyan.Fprintln(f.out, "╚═══════════════════════════════════════════════════════════════╝")

	stats := []struct {
		label string
		value string
		color *color.Color
	}{
		{"Run ID", meta.RunID, nil},
		{"Specs", strconv.Itoa(meta.Specs), nil},
		{"Workers", strconv.Itoa(meta.Workers), nil},
		{"Suites", strconv.Itoa(meta.Suites), nil},
		{"Tests", strconv.Itoa(meta.Tests), nil},
		{"Passing", strconv.Itoa(meta.Passes), color.New(color.FgGreen)},
		{"Failing", strconv.Itoa(meta.Failures), color.New(color.FgRed)},
		{"Pending", strconv.Itoa(meta.Pending), nil},
		{"Duration", meta.Duration, nil},
		{"Timestamp", meta.Timestamp, nil},
	}

	fmt.Fprintln(f.out, "┌─────────────────────────────────┬──────────────────────────────────────┐")
	for i, s := range stats {
		value := fmt.Sprintf("%-36s", s.value)
		if s.color != nil {
			value = s.color.Sprint(value)
		}
		fmt.Fprintf(f.out, "│ %-31s │ %s │\n", s.label, value)
		if i < len(stats)-1 {
			fmt.Fprintln(f.out, "├─────────────────────────────────┼──────────────────────────────────────┤")
		}
	}
	fmt.Fprintln(f.out, "└─────────────────────────────────┴──────────────────────────────────────┘")

	fmt.Fprintln(f.out)
	if meta.Failures == 0 && len(output.Details) == 0 {
		color.New(color.FgGreen).Fprintln(f.out, "✔ All tests passed!")
		return
	}
	color.New(color.FgRed).Fprintf(f.out, "✖ %d test failure(s)\n\n", meta.Failures)
	f.printFailuresByWorker(output.Details)
}

// printFailuresByWorker prints the failures as a tree grouped by worker
func (f *Formatter) printFailuresByWorker(failures []domain.TestFailure) {
	byWorker := make(map[int][]domain.TestFailure)
	for _, failure := range failures {
		byWorker[failure.Worker] = append(byWorker[failure.Worker], failure)
	}

	workers := make([]int, 0, len(byWorker))
	for w := range byWorker {
		workers = append(workers, w)
	}
	sort.Ints(workers)

	for _, w := range workers {
		color.New(color.FgCyan).Fprintf(f.out, "Worker %d\n", w)
		for _, failure := range byWorker[w] {
			marker := color.RedString("✖")
			if failure.Resolved {
				marker = color.HiBlackString("✔")
			}
			fmt.Fprintf(f.out, "  |_ %s %s\n", marker, failure.Title)
			if msg := firstLine(failure.Error); msg != "" {
				fmt.Fprintf(f.out, "       %s\n", color.YellowString("%s", msg))
			}
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
