package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flags holds command-line flags that are not configuration keys
type Flags struct {
	ConfigFile string
	Scenarios  bool
	Format     string
	Summary    bool
}

// configFlags maps flag names to configuration keys
var configFlags = map[string]string{
	"project":         "project_path",
	"weights":         "weights_file",
	"log-level":       "log.level",
	"script":          "script",
	"threads":         "threads",
	"specsDir":        "specs_dir",
	"args":            "args",
	"reporter":        "reporter",
	"reporterOptions": "reporter_options",
	"strategy":        "strategy",
	"progress":        "progress",
	"filter":          "filter",
}

// AddGlobalFlags registers the flags shared by every command
func AddGlobalFlags(root *cobra.Command, f *Flags) {
	pf := root.PersistentFlags()
	pf.StringVar(&f.ConfigFile, "config", "", "Config file (default is cypar.yaml in the project directory)")
	pf.String("project", "", "Project directory the runner script is started in")
	pf.String("weights", "", "Weight file path or URL")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
}

// AddRunnerFlags registers the runner invocation flags on cmd
func AddRunnerFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringP("script", "s", "", "Your npm Cypress command")
	fs.IntP("threads", "t", 0, "Number of threads")
	fs.StringP("args", "a", "", "Your npm Cypress command arguments")
	fs.StringP("reporter", "r", "", "Reporter to pass to Cypress")
	fs.StringP("reporterOptions", "o", "", "Reporter options")
	fs.String("strategy", "", "Scheduling strategy (weighted, round-robin)")
	fs.String("progress", "", "Progress display (auto, lines, bar)")
	AddDiscoveryFlags(cmd)
}

// AddDiscoveryFlags registers the spec discovery flags on cmd
func AddDiscoveryFlags(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringP("specsDir", "d", "", "Cypress specs directory")
	fs.StringP("filter", "f", "", "Filter specs by file name (supports wildcards, e.g. '*login*')")
}

// BindFlags binds the flags of the executing command to their configuration
// keys. Commands share flag names, so this runs once the command is known.
func BindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range configFlags {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}
