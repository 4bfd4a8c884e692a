package cli

import (
	"fmt"

	"github.com/nace/speedydisk/internal/system"
	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// CreateCommand handles volume creation
type CreateCommand struct {
	ctx         *GlobalContext
	size        string
	folders     string
	autoCreate  bool
	spotlight   bool
	warnOnEject bool
}

// NewCreateCommand creates the create command
func NewCreateCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &CreateCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a RAM volume",
		Long: `Create a memory-backed volume mounted under the mount root.

Everything stored on it is lost when it is ejected or the machine shuts down.
With --auto-create the volume is created again by "speedydisk restore".`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().StringVarP(&cmd.size, "size", "s", "64", "Volume size in MB, or with a unit (512M, 2G)")
	cobraCmd.Flags().StringVarP(&cmd.folders, "folders", "f", "", "Comma separated folders to create on the volume")
	cobraCmd.Flags().BoolVarP(&cmd.autoCreate, "auto-create", "a", false, "Recreate the volume on restore")
	cobraCmd.Flags().BoolVar(&cmd.spotlight, "spotlight", false, "Enable search indexing")
	cobraCmd.Flags().BoolVar(&cmd.warnOnEject, "warn-on-eject", false, "Ask before ejecting while the volume holds files")

	return cobraCmd
}

// Run executes the create command
func (c *CreateCommand) Run(cmd *cobra.Command, args []string) error {
	sizeMB, err := system.ParseSizeMB(c.size)
	if err != nil {
		return err
	}

	if err := c.ctx.Prepare(); err != nil {
		return err
	}

	d := volume.Descriptor{
		Name:             args[0],
		SizeMB:           sizeMB,
		AutoCreate:       c.autoCreate,
		SpotlightIndexed: c.spotlight,
		WarnOnEject:      c.warnOnEject,
		Folders:          system.SplitFolders(c.folders),
	}

	c.ctx.Logger.Info("Creating %s volume %s...", system.FormatSizeMB(sizeMB), d.Name)
	created, err := c.ctx.Registry.Create(cmd.Context(), d)
	if err != nil {
		return explain(err)
	}

	c.ctx.Logger.Success("Volume created: %s", c.ctx.Registry.MountPath(created.Name))
	if created.AutoCreate {
		c.ctx.Logger.Info("It will be recreated by \"speedydisk restore\"")
	}
	fmt.Fprintln(cmd.OutOrStdout(), c.ctx.Registry.MountPath(created.Name))
	return nil
}
