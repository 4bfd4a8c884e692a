package cli

import (
	"github.com/spf13/cobra"
)

// RestoreCommand handles creating the auto-create volumes
type RestoreCommand struct {
	ctx *GlobalContext
}

// NewRestoreCommand creates the restore command
func NewRestoreCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &RestoreCommand{ctx: ctx}

	return &cobra.Command{
		Use:   "restore",
		Short: "Create every auto-create volume that is not mounted",
		Long: `Pick up volumes that are already mounted, then create each volume of the
auto-create list that is missing. Run at login to get the volumes back after a restart.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}
}

// Run executes the restore command
func (c *RestoreCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Prepare(); err != nil {
		return err
	}

	created := c.ctx.Registry.RestoreAutoCreate(cmd.Context())
	if len(created) == 0 {
		c.ctx.Logger.Info("Nothing to restore")
		return nil
	}
	for _, name := range created {
		c.ctx.Logger.Success("Created %s", c.ctx.Registry.MountPath(name))
	}
	return nil
}
