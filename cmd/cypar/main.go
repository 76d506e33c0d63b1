package main

import (
	"errors"
	"fmt"
	"os"

	"cypar/internal/cli"
	"cypar/internal/cli/commands"
	"cypar/internal/domain"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:           "cypar",
		Short:         "Parallel Cypress spec runner",
		Long:          `Runs Cypress specs in parallel worker processes, balanced by the durations measured in previous runs.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(&flags)

	// Register all commands
	cmds.Register(rootCmd, viper.New())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		var exitErr *domain.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(domain.ExitCode(err))
	}
}
