package commands

import (
	"errors"
	"os"

	"cypar/internal/domain"
	"cypar/internal/storage"
	"cypar/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// WeightsCommand handles the weights command
type WeightsCommand struct {
	session *Session
}

// NewWeightsCommand creates a new WeightsCommand
func NewWeightsCommand(session *Session) *WeightsCommand {
	return &WeightsCommand{session: session}
}

// Execute runs the command
func (wc *WeightsCommand) Execute(cmd *cobra.Command, args []string) error {
	store, err := storage.NewWeightStore(wc.session.Config)
	if err != nil {
		return err
	}
	defer closeStore(store)
	ctx := commandContext(cmd)

	table, err := store.Load(ctx)
	if errors.Is(err, domain.ErrWeightsMissing) {
		color.Yellow("No weights stored in %s", store.Location())
		return nil
	}
	if err != nil {
		return err
	}

	return ui.NewFormatter(wc.session.Config, nil, os.Stdout).PrintWeights(table, wc.session.Flags.Format)
}
