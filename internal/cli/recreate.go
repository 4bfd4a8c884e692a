package cli

import (
	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// RecreateCommand handles ejecting and creating volumes again, empty
type RecreateCommand struct {
	ctx *GlobalContext
	all bool
	yes bool
}

// NewRecreateCommand creates the recreate command
func NewRecreateCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &RecreateCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "recreate [name...]",
		Short: "Empty RAM volumes by ejecting and creating them again",
		Long:  `Eject each volume and create it again with the same settings. A busy volume is left untouched.`,
		RunE:  cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.all, "all", false, "Recreate every volume")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Skip confirmation prompt")

	return cobraCmd
}

// Run executes the recreate command
func (c *RecreateCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Prepare(); err != nil {
		return err
	}
	return runEject(c.ctx, cmd, args, c.all, "Recreate", volume.EjectOptions{Recreate: true, Force: c.yes})
}
