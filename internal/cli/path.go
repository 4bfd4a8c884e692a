package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// PathCommand prints where a volume is mounted
type PathCommand struct {
	ctx *GlobalContext
}

// NewPathCommand creates the path command
func NewPathCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &PathCommand{ctx: ctx}

	return &cobra.Command{
		Use:   "path <name>",
		Short: "Print the mount point of a RAM volume",
		Args:  cobra.ExactArgs(1),
		RunE:  cmd.Run,
	}
}

// Run executes the path command
func (c *PathCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Registry.Scan(); err != nil {
		return err
	}

	name := args[0]
	if _, ok := c.ctx.Registry.Get(name); !ok {
		return fmt.Errorf("no volume named %s", name)
	}

	mountPath := c.ctx.Registry.MountPath(name)
	if mounted, err := c.ctx.Discovery.IsMounted(mountPath); err == nil && !mounted {
		c.ctx.Logger.Warning("%s is not a mount point", mountPath)
	}
	fmt.Fprintln(cmd.OutOrStdout(), mountPath)
	return nil
}
