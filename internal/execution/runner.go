package execution

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"cypar/internal/config"
)

// Process is a started worker
type Process interface {
	Stdout() io.Reader
	Stderr() io.Reader
	// Wait blocks until the process exits. Both streams must be read to EOF first.
	Wait() error
}

// Launcher starts one worker process for a list of specs
type Launcher interface {
	Launch(workerID int, specs []string) (Process, error)
}

// Runner starts the configured test-runner script through the package manager
type Runner struct {
	config    *config.Config
	goos      string
	userAgent string
}

// NewRunner creates a new Runner
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{
		config:    cfg,
		goos:      runtime.GOOS,
		userAgent: os.Getenv("npm_config_user_agent"),
	}
}

// PackageManager returns the front-end used to run the script: yarn when cypar
// itself was launched by yarn, npm otherwise.
func PackageManager(goos, userAgent string) string {
	if strings.HasPrefix(userAgent, "yarn") {
		return "yarn"
	}
	if goos == "windows" {
		return "npm.cmd"
	}
	return "npm"
}

// Args builds the package manager arguments for one worker.
// The specs are passed as a single comma-joined argument.
func (r *Runner) Args(specs []string) []string {
	pm := PackageManager(r.goos, r.userAgent)

	args := []string{"run", r.config.Script}
	if pm != "yarn" {
		args = append(args, "--")
	}
	args = append(args, "--spec", strings.Join(specs, ","))
	args = append(args, "--reporter", r.config.ReporterName())
	if r.config.ReporterOptions != "" {
		args = append(args, "--reporter-options", r.config.ReporterOptions)
	}
	return append(args, r.config.ExtraArgs()...)
}

// Command returns the command for one worker without starting it
func (r *Runner) Command(workerID int, specs []string) *exec.Cmd {
	cmd := exec.Command(PackageManager(r.goos, r.userAgent), r.Args(specs)...)

	// Set environment variables
	cmd.Env = os.Environ()
	cmd.Env = append(cmd.Env, fmt.Sprintf("CYPAR_WORKER=%d", workerID))

	// Set working directory
	cmd.Dir = r.config.ProjectPath
	return cmd
}

// Launch starts the worker with piped output streams
func (r *Runner) Launch(workerID int, specs []string) (Process, error) {
	cmd := r.Command(workerID, specs)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d stdout: %w", workerID, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d stderr: %w", workerID, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("worker %d start %s: %w", workerID, cmd.Path, err)
	}
	return &process{cmd: cmd, stdout: stdout, stderr: stderr}, nil
}

type process struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
}

func (p *process) Stdout() io.Reader { return p.stdout }
func (p *process) Stderr() io.Reader { return p.stderr }
func (p *process) Wait() error       { return p.cmd.Wait() }
