package cli

import (
	"fmt"

	"github.com/nace/speedydisk/internal/system"
	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// ResizeCommand handles changing the size of a volume
type ResizeCommand struct {
	ctx    *GlobalContext
	size   string
	grow   bool
	shrink bool
	yes    bool
}

// NewResizeCommand creates the resize command
func NewResizeCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &ResizeCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "resize <name> [new-size]",
		Short: "Change the size of a RAM volume",
		Long: `Recreate a volume with a new size. The volume is ejected first, so its
contents are lost. --grow and --shrink step to the next power of two.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.size, "size", "s", "", "New volume size (e.g., 256, 1G)")
	cobraCmd.Flags().BoolVar(&cmd.grow, "grow", false, "Double the size")
	cobraCmd.Flags().BoolVar(&cmd.shrink, "shrink", false, "Halve the size")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Skip confirmation prompt")

	return cobraCmd
}

// Run executes the resize command
func (c *ResizeCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Prepare(); err != nil {
		return err
	}

	name := args[0]
	current, ok := c.ctx.Registry.Get(name)
	if !ok {
		return fmt.Errorf("no volume named %s", name)
	}

	newSize := c.size
	if len(args) > 1 {
		newSize = args[1]
	}

	sizeMB, err := c.targetSize(current.SizeMB, newSize)
	if err != nil {
		return err
	}
	if sizeMB == current.SizeMB {
		c.ctx.Logger.Info("%s is already %s", name, system.FormatSizeMB(sizeMB))
		return nil
	}

	ok, err = c.ctx.Confirm(name, "Resize", c.yes)
	if err != nil {
		return err
	}
	if !ok {
		c.ctx.Logger.Info("Cancelled")
		return nil
	}

	c.ctx.Logger.Info("Resizing %s from %s to %s...", name,
		system.FormatSizeMB(current.SizeMB), system.FormatSizeMB(sizeMB))
	draft := current.Clone()
	draft.SizeMB = sizeMB
	outcome, err := c.ctx.Registry.Recreate(cmd.Context(), name, &draft, true)
	return c.ctx.report(name, outcome, err, volume.EjectOptions{Recreate: true})
}

func (c *ResizeCommand) targetSize(current int, size string) (int, error) {
	switch {
	case c.grow && c.shrink:
		return 0, fmt.Errorf("--grow and --shrink are mutually exclusive")
	case (c.grow || c.shrink) && size != "":
		return 0, fmt.Errorf("give either a size or --grow/--shrink")
	case c.grow:
		return volume.NextSizeUp(current), nil
	case c.shrink:
		return volume.NextSizeDown(current), nil
	case size == "":
		return 0, fmt.Errorf("new size required (or use --grow/--shrink)")
	}

	sizeMB, err := system.ParseSizeMB(size)
	if err != nil {
		return 0, err
	}
	return volume.ClampSize(sizeMB), nil
}
