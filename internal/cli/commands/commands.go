package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"cypar/internal/cli"
	"cypar/internal/config"
	"cypar/internal/discovery"
	"cypar/internal/domain"
	"cypar/internal/logging"
	"cypar/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Session is the state shared by all commands once the configuration is loaded
type Session struct {
	Config *config.Config
	Logger *logging.Logger
	Flags  *cli.Flags
}

// Commands holds all CLI commands
type Commands struct {
	session  *Session
	Run      *RunCommand
	List     *ListCommand
	Weights  *WeightsCommand
	Failures *FailuresCommand
}

// NewCommands creates all commands sharing one session
func NewCommands(flags *cli.Flags) *Commands {
	session := &Session{Config: config.New(), Logger: logging.NopLogger(), Flags: flags}
	return &Commands{
		session:  session,
		Run:      NewRunCommand(session),
		List:     NewListCommand(session),
		Weights:  NewWeightsCommand(session),
		Failures: NewFailuresCommand(session),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, v *viper.Viper) {
	cli.AddGlobalFlags(rootCmd, c.session.Flags)

	load := func(cmd *cobra.Command, args []string) error {
		if err := cli.BindFlags(v, cmd); err != nil {
			return err
		}
		return c.load(v)
	}

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run Cypress specs in parallel",
		Long:    "Discover specs, balance them over parallel workers by weight, report the results and update the weights",
		PreRunE: load,
		RunE:    c.Run.Execute,
	}
	cli.AddRunnerFlags(runCmd)
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List discovered specs",
		Long:    "Scan and list all specs with their current weights without running them",
		PreRunE: load,
		RunE:    c.List.Execute,
	}
	cli.AddDiscoveryFlags(listCmd)
	listCmd.Flags().BoolVarP(&c.session.Flags.Scenarios, "scenarios", "c", false, "List the scenarios of every spec")
	rootCmd.AddCommand(listCmd)

	// Weights command
	weightsCmd := &cobra.Command{
		Use:     "weights",
		Short:   "Print the stored spec weights",
		PreRunE: load,
		RunE:    c.Weights.Execute,
	}
	weightsCmd.Flags().StringVar(&c.session.Flags.Format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.AddCommand(weightsCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View test failures interactively",
		Long:    "Display the test failures of the last run in an interactive viewer",
		PreRunE: load,
		RunE:    c.Failures.Execute,
	}
	failuresCmd.Flags().BoolVar(&c.session.Flags.Summary, "summary", false, "Print the last run's statistics instead of opening the viewer")
	rootCmd.AddCommand(failuresCmd)

	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		_ = c.session.Logger.Close()
	}
}

func (c *Commands) load(v *viper.Viper) error {
	if err := config.Setup(v, c.session.Flags.ConfigFile); err != nil {
		return &domain.ConfigError{Err: fmt.Errorf("failed to read config: %w", err)}
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return &domain.ConfigError{Field: "log.file", Err: err}
	}

	*c.session.Config = *cfg
	c.session.Logger = logger
	return nil
}

// discoverSpecs scans the spec directory and applies the name filter.
// Paths are returned relative to the project, where the workers run.
func discoverSpecs(cfg *config.Config) ([]string, error) {
	scanner, err := discovery.NewScanner(cfg.SpecPattern, cfg.PathsToIgnore)
	if err != nil {
		return nil, err
	}
	specs, err := scanner.Scan(cfg.GetSpecsPath())
	if err != nil {
		return nil, err
	}
	specs = discovery.NewFilter().FilterByName(specs, cfg.Filter)

	for i, spec := range specs {
		if rel, err := filepath.Rel(cfg.ProjectPath, spec); err == nil && !strings.HasPrefix(rel, "..") {
			specs[i] = filepath.ToSlash(rel)
		}
	}
	return specs, nil
}

// closeStore releases stores holding connections, e.g. the SQL store
func closeStore(store storage.WeightStore) {
	if closer, ok := store.(io.Closer); ok {
		_ = closer.Close()
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
