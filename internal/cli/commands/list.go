package commands

import (
	"os"

	"cypar/internal/discovery"
	"cypar/internal/domain"
	"cypar/internal/storage"
	"cypar/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ListCommand handles the list command
type ListCommand struct {
	session *Session
}

// NewListCommand creates a new ListCommand
func NewListCommand(session *Session) *ListCommand {
	return &ListCommand{session: session}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cfg := lc.session.Config

	specs, err := discoverSpecs(cfg)
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		color.Yellow("No specs found")
		return nil
	}

	store, err := storage.NewWeightStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)
	ctx := commandContext(cmd)
	// A missing table only means every spec has the default weight.
	table, err := store.Load(ctx)
	if err != nil && !domain.IsWarning(err) {
		return err
	}

	items := make([]domain.SpecItem, len(specs))
	for i, spec := range specs {
		items[i] = domain.SpecItem{Path: spec, Weight: table.Lookup(spec)}
	}

	formatter := ui.NewFormatter(cfg, discovery.NewParser(), os.Stdout)
	return formatter.PrintSpecList(items, lc.session.Flags.Scenarios)
}
