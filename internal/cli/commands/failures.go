package commands

import (
	"os"

	"cypar/internal/storage"
	"cypar/internal/ui"

	"github.com/spf13/cobra"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	session *Session
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(session *Session) *FailuresCommand {
	return &FailuresCommand{session: session}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	store := storage.NewResultStore(fc.session.Config)
	output, err := store.Load(ctx)
	if err != nil {
		return err
	}

	if fc.session.Flags.Summary {
		ui.NewFormatter(fc.session.Config, nil, os.Stdout).PrintMetaStats(output)
		return nil
	}
	return ui.NewErrorViewer(store).View(ctx, output)
}
