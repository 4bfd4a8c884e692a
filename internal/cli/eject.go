package cli

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// EjectCommand handles ejecting volumes
type EjectCommand struct {
	ctx *GlobalContext
	all bool
	yes bool
}

// NewEjectCommand creates the eject command
func NewEjectCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &EjectCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:     "eject [name...]",
		Aliases: []string{"unmount"},
		Short:   "Eject RAM volumes",
		Long: `Eject one or more volumes. Their contents are discarded.

Auto-create volumes stay in the auto-create list; use "delete" to remove them.`,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.all, "all", false, "Eject every volume")
	cobraCmd.Flags().BoolVarP(&cmd.yes, "yes", "y", false, "Skip confirmation prompt")

	return cobraCmd
}

// Run executes the eject command
func (c *EjectCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.Prepare(); err != nil {
		return err
	}
	return runEject(c.ctx, cmd, args, c.all, "Eject", volume.EjectOptions{Force: c.yes})
}

// runEject ejects the named volumes, or all of them, with opts
func runEject(ctx *GlobalContext, cmd *cobra.Command, names []string, all bool, action string, opts volume.EjectOptions) error {
	if all {
		if len(names) > 0 {
			return fmt.Errorf("--all does not take volume names")
		}
		return ejectAll(ctx, cmd, action, opts)
	}
	if len(names) == 0 {
		return fmt.Errorf("volume name required (or use --all)")
	}

	var result *multierror.Error
	for _, name := range names {
		if err := ctx.ejectOne(cmd.Context(), name, action, opts); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// ejectAll asks for every confirmation first, then ejects concurrently
func ejectAll(ctx *GlobalContext, cmd *cobra.Command, action string, opts volume.EjectOptions) error {
	names := ctx.Registry.Names()
	if len(names) == 0 {
		ctx.Logger.Info("No volumes found")
		return nil
	}

	if !opts.Force {
		for _, name := range names {
			ok, err := ctx.Confirm(name, action, false)
			if err != nil {
				return err
			}
			if !ok {
				ctx.Logger.Info("Cancelled")
				return nil
			}
		}
		opts.Force = true
	}

	results := ctx.Registry.EjectAll(cmd.Context(), opts)
	sorted := make([]string, 0, len(results))
	for name := range results {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	var result *multierror.Error
	for _, name := range sorted {
		r := results[name]
		if err := ctx.report(name, r.Outcome, r.Err, opts); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
