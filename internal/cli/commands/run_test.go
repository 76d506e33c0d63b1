package commands

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"cypar/internal/cli"
	"cypar/internal/config"
	"cypar/internal/domain"
	"cypar/internal/execution"
	"cypar/internal/logging"
	"cypar/internal/protocol"
	"cypar/internal/storage"
	"cypar/internal/weights"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type fakeProcess struct {
	stdout io.Reader
}

func (p *fakeProcess) Stdout() io.Reader { return p.stdout }
func (p *fakeProcess) Stderr() io.Reader { return strings.NewReader("") }
func (p *fakeProcess) Wait() error       { return nil }

// fakeLauncher emits the scripted output of every spec a worker receives
type fakeLauncher struct {
	mu       sync.Mutex
	output   map[string]string
	launched [][]string
}

func (l *fakeLauncher) Launch(_ int, specs []string) (execution.Process, error) {
	l.mu.Lock()
	l.launched = append(l.launched, specs)
	l.mu.Unlock()

	var lines []string
	for _, spec := range specs {
		lines = append(lines, l.output[filepath.Base(spec)])
	}
	return &fakeProcess{stdout: strings.NewReader(strings.Join(lines, "\n"))}, nil
}

const (
	passingSpec = `["pass",{"title":"a1","duration":60}]
["pass",{"title":"a2","duration":40}]
["suiteEnd",{"title":"a.feature","passes":2,"failures":0,"pending":0}]`
	failingSpec = `["pass",{"title":"b1","duration":300}]
["fail",{"title":"b2","err":"expected true","stack":"at b.js:1"}]
["suiteEnd",{"title":"b.feature","passes":3,"failures":1,"pending":0}]`
	greenSpec = `["pass",{"title":"b1","duration":300}]
["suiteEnd",{"title":"b.feature","passes":1,"failures":0,"pending":0}]`
)

type fixture struct {
	cmd      *RunCommand
	launcher *fakeLauncher
	weights  storage.WeightStore
	results  storage.ResultStore
	stdout   bytes.Buffer
	stderr   bytes.Buffer
}

func newFixture(t *testing.T, specs ...string) *fixture {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	for _, spec := range specs {
		path := filepath.Join(dir, "cypress/integration", spec)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("Feature: x\n"), 0644))
	}

	cfg := config.New()
	cfg.ProjectPath = dir
	cfg.Script = "cy:run"
	cfg.Progress = config.ProgressLines

	location := "mem://localhost/" + strings.ReplaceAll(t.Name(), "/", "_")
	f := &fixture{
		launcher: &fakeLauncher{output: map[string]string{}},
		weights:  storage.NewJSONStore(afs.New(), location+"/parallel-weights.json"),
		results:  storage.NewJSONResultStore(afs.New(), location+"/parallel-results.json"),
	}
	f.cmd = NewRunCommand(&Session{Config: cfg, Logger: logging.NopLogger(), Flags: &cli.Flags{}})
	f.cmd.launcher = f.launcher
	f.cmd.weightStore = f.weights
	f.cmd.resultStore = f.results
	f.cmd.reporter = nopReporter{}
	f.cmd.stdout = &f.stdout
	f.cmd.stderr = &f.stderr
	return f
}

type nopReporter struct{}

func (nopReporter) Event(int, protocol.Event) {}
func (nopReporter) Diagnostic(int, string)    {}
func (nopReporter) Finish()                   {}

func TestRun_AllPassingPersistsWeights(t *testing.T) {
	f := newFixture(t, "a.feature", "b.feature")
	f.launcher.output["a.feature"] = passingSpec
	f.launcher.output["b.feature"] = greenSpec

	require.NoError(t, f.cmd.Run(context.Background()))

	out := f.stdout.String()
	assert.Contains(t, out, "2 test suite(s) found.")
	assert.Contains(t, out, "Weight file not found in path:")
	assert.Contains(t, out, "Thread 0 time: 1s")
	assert.Contains(t, out, "Generated weights in")
	assert.Len(t, f.launcher.launched, 2)

	table, err := f.weights.Load(context.Background())
	require.NoError(t, err)
	entries := table.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, weights.Entry{Key: "a.feature", Record: weights.Record{Time: 100 * time.Millisecond, Weight: 5}}, entries[0])
	assert.Equal(t, weights.Entry{Key: "b.feature", Record: weights.Record{Time: 300 * time.Millisecond, Weight: 15}}, entries[1])
}

func TestRun_FailuresSkipWeightsAndExitOne(t *testing.T) {
	f := newFixture(t, "a.feature", "b.feature")
	f.launcher.output["a.feature"] = passingSpec
	f.launcher.output["b.feature"] = failingSpec

	err := f.cmd.Run(context.Background())

	var exitErr *domain.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
	assert.True(t, errors.Is(err, domain.ErrTestsFailed))
	assert.Equal(t, 1, domain.ExitCode(err))
	assert.Contains(t, f.stderr.String(), "1 test failure(s)")

	_, loadErr := f.weights.Load(context.Background())
	assert.True(t, errors.Is(loadErr, domain.ErrWeightsMissing), "weights must not be written")

	output, err := f.results.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, output.Meta.Tests)
	assert.Equal(t, 5, output.Meta.Passes)
	assert.Equal(t, 1, output.Meta.Failures)
	assert.Equal(t, 2, output.Meta.Workers)
	assert.NotEmpty(t, output.Meta.RunID)
	require.Len(t, output.Details, 1)
	assert.Equal(t, "b2", output.Details[0].Title)
	assert.Equal(t, 1, output.Details[0].Worker)
}

func TestRun_UpdateWeightsOnFailure(t *testing.T) {
	f := newFixture(t, "a.feature", "b.feature")
	f.cmd.session.Config.UpdateWeightsOnFailure = true
	f.launcher.output["a.feature"] = passingSpec
	f.launcher.output["b.feature"] = failingSpec

	err := f.cmd.Run(context.Background())
	assert.Equal(t, 1, domain.ExitCode(err))

	table, loadErr := f.weights.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, 2, table.Len())
}

func TestRun_UsesStoredWeights(t *testing.T) {
	f := newFixture(t, "a.feature", "b.feature", "c.feature")
	f.launcher.output["a.feature"] = passingSpec

	table := weights.NewTable()
	table.Set("c.feature", weights.Record{Weight: 20})
	table.Set("a.feature", weights.Record{Weight: 5})
	table.Set("b.feature", weights.Record{Weight: 5})
	require.NoError(t, f.weights.Save(context.Background(), table))

	require.NoError(t, f.cmd.Run(context.Background()))

	require.Len(t, f.launcher.launched, 2)
	var single []string
	for _, specs := range f.launcher.launched {
		if len(specs) == 1 {
			single = specs
		}
	}
	assert.Equal(t, []string{"cypress/integration/c.feature"}, single, "the heaviest spec runs alone")
}

func TestRun_NoSpecs(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.MkdirAll(filepath.Join(f.cmd.session.Config.ProjectPath, "cypress/integration"), 0755))

	require.NoError(t, f.cmd.Run(context.Background()))
	assert.Contains(t, f.stdout.String(), "No specs to execute")
	assert.Empty(t, f.launcher.launched)
}

func TestRun_MissingScript(t *testing.T) {
	f := newFixture(t, "a.feature")
	f.cmd.session.Config.Script = ""

	err := f.cmd.Run(context.Background())
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.True(t, errors.Is(err, domain.ErrMissingScript))
	assert.Empty(t, f.launcher.launched)
}

func TestRun_MissingSpecsDir(t *testing.T) {
	f := newFixture(t)

	err := f.cmd.Run(context.Background())
	var discoveryErr *domain.DiscoveryError
	assert.True(t, errors.As(err, &discoveryErr))
}

func TestRun_Passthrough(t *testing.T) {
	f := newFixture(t, "a.feature")
	f.cmd.session.Config.Reporter = "mochawesome"
	f.launcher.output["a.feature"] = "  1 passing (2s)"

	require.NoError(t, f.cmd.Run(context.Background()))

	out := f.stdout.String()
	assert.Contains(t, out, "  1 passing (2s)")
	assert.NotContains(t, out, "Thread 0 time")

	_, loadErr := f.weights.Load(context.Background())
	assert.True(t, errors.Is(loadErr, domain.ErrWeightsMissing))
}

func TestRun_SingleWorkerWithFailure(t *testing.T) {
	f := newFixture(t, "a.feature", "b.feature")
	f.cmd.session.Config.Threads = 1
	f.launcher.output["a.feature"] = passingSpec
	f.launcher.output["b.feature"] = `["pass",{"title":"b1","duration":200}]
["fail",{"title":"b2","err":"expected true"}]
["suiteEnd",{"title":"b.feature","passes":3,"failures":1,"pending":0}]`

	err := f.cmd.Run(context.Background())
	assert.Equal(t, 1, domain.ExitCode(err))
	assert.True(t, errors.Is(err, domain.ErrTestsFailed))

	require.Len(t, f.launcher.launched, 1)
	assert.Equal(t, []string{"cypress/integration/a.feature", "cypress/integration/b.feature"}, f.launcher.launched[0])
	assert.Contains(t, f.stdout.String(), "Thread 0 time: 1s")
	assert.NotContains(t, f.stdout.String(), "Generated weights in")

	output, loadErr := f.results.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, 1, output.Meta.Workers)
	assert.Equal(t, 2, output.Meta.Suites)
	assert.Equal(t, 6, output.Meta.Tests)
	assert.Equal(t, 1, output.Meta.Failures)

	_, loadErr = f.weights.Load(context.Background())
	assert.True(t, errors.Is(loadErr, domain.ErrWeightsMissing))
}

// unwritableStore loads an empty table and rejects every save
type unwritableStore struct{}

func (unwritableStore) Load(context.Context) (*weights.Table, error) { return weights.NewTable(), nil }
func (unwritableStore) Location() string                             { return "mem://localhost/readonly.json" }
func (unwritableStore) Save(context.Context, *weights.Table) error {
	return &domain.WeightSaveError{Location: "mem://localhost/readonly.json", Err: errors.New("read-only file system")}
}

func TestRun_WeightSaveFailureIsFatal(t *testing.T) {
	f := newFixture(t, "a.feature", "b.feature")
	f.launcher.output["a.feature"] = passingSpec
	f.launcher.output["b.feature"] = greenSpec
	f.cmd.weightStore = unwritableStore{}

	err := f.cmd.Run(context.Background())

	var saveErr *domain.WeightSaveError
	require.True(t, errors.As(err, &saveErr))
	assert.Equal(t, 1, domain.ExitCode(err))

	out := f.stdout.String()
	assert.Contains(t, out, "Results", "summary is printed before the save")
	assert.NotContains(t, out, "Generated weights in")

	output, loadErr := f.results.Load(context.Background())
	require.NoError(t, loadErr)
	assert.Equal(t, 0, output.Meta.Failures)
}
