package cli

import (
	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// DeleteCommand handles ejecting volumes and forgetting them
type DeleteCommand struct {
	ctx *GlobalContext
	yes bool
}

// NewDeleteCommand creates the delete command
func NewDeleteCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &DeleteCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:     "delete <name>...",
		Aliases: []string{"rm"},
		Short:   "Eject RAM volumes and remove them from the auto-create list",
		Args:    cobra.MinimumNArgs(1),
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Skip confirmation prompt")

	return cobraCmd
}

// Run executes the delete command
func (c *DeleteCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Prepare(); err != nil {
		return err
	}
	return runEject(c.ctx, cmd, args, false, "Delete", volume.EjectOptions{Delete: true, Force: c.yes})
}
