package cli

import (
	"fmt"
	"strings"

	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// SetCommand handles changing volume settings
type SetCommand struct {
	ctx *GlobalContext
}

// NewSetCommand creates the set command
func NewSetCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &SetCommand{ctx: ctx}

	fields := make([]string, len(volume.Fields))
	for i, f := range volume.Fields {
		fields[i] = string(f)
	}

	cobraCmd := &cobra.Command{
		Use:   "set <name> <field> <value>",
		Short: "Change a volume setting",
		Long: fmt.Sprintf(`Change a setting of a mounted volume. Fields: %s.

size and folders take effect the next time the volume is recreated.`, strings.Join(fields, ", ")),
		Args: cobra.ExactArgs(3),
		RunE: cmd.Run,
	}

	return cobraCmd
}

// Run executes the set command
func (c *SetCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Registry.Scan(); err != nil {
		return err
	}

	name, field, value := args[0], volume.Field(args[1]), args[2]
	d, ok := c.ctx.Registry.Get(name)
	if !ok {
		return fmt.Errorf("no volume named %s", name)
	}

	if err := c.ctx.Registry.SetField(d.ID, field, value); err != nil {
		return explain(err)
	}
	if err := c.ctx.Registry.SyncMarker(name); err != nil {
		c.ctx.Logger.Warning("Setting saved but not written to the volume: %v", err)
	}

	c.ctx.Logger.Success("Updated %s of %s", field, name)
	return nil
}
