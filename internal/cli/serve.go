package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nace/speedydisk/internal/volume"
	"github.com/spf13/cobra"
)

// ServeCommand keeps the registry running and follows external unmounts
type ServeCommand struct {
	ctx              *GlobalContext
	recreateExternal bool
}

// NewServeCommand creates the serve command
func NewServeCommand(ctx *GlobalContext) *cobra.Command {
	cmd := &ServeCommand{ctx: ctx}

	cobraCmd := &cobra.Command{
		Use:   "serve",
		Short: "Restore volumes and watch for volumes ejected elsewhere",
		Long: `Restore the auto-create volumes, then watch the mount root until interrupted.
Volumes unmounted outside speedydisk are reported and forgotten.`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVar(&cmd.recreateExternal, "recreate-external", false,
		"Create auto-create volumes again after they are ejected elsewhere")

	return cobraCmd
}

// Run executes the serve command
func (c *ServeCommand) Run(cmd *cobra.Command, args []string) error {
	if err := c.ctx.CheckPrivileges(); err != nil {
		return err
	}
	if err := c.ctx.CheckDependencies(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := c.ctx.Registry
	events := reg.Subscribe()
	defer reg.Unsubscribe(events)
	go c.logEvents(events)

	if err := reg.Initialize(ctx); err != nil {
		return err
	}
	c.ctx.Logger.Info("Watching %s (%d volumes)", reg.MountRoot(), len(reg.Names()))

	watcher := volume.NewWatcher(reg, c.ctx.Discovery, c.ctx.Config.WatchInterval, func(d volume.Descriptor) {
		c.unmounted(ctx, d)
	})
	if err := watcher.Run(ctx); err != nil {
		return err
	}
	c.ctx.Logger.Info("Stopped")
	return nil
}

func (c *ServeCommand) logEvents(events chan interface{}) {
	for ev := range events {
		e, ok := ev.(volume.Event)
		if !ok {
			continue
		}
		c.ctx.Logger.Debug("%s %s (%s)", e.Kind, e.Name, e.MountPath)
	}
}

func (c *ServeCommand) unmounted(ctx context.Context, d volume.Descriptor) {
	c.ctx.Logger.Warning("%s was ejected outside speedydisk", d.Name)
	if !d.AutoCreate || !c.recreateExternal {
		return
	}

	// an unmounted tmpfs leaves its empty mount point behind
	mountPath := c.ctx.Registry.MountPath(d.Name)
	if err := os.Remove(mountPath); err != nil && !os.IsNotExist(err) {
		c.ctx.Logger.Debug("Left %s in place: %v", mountPath, err)
	}

	if _, err := c.ctx.Registry.Create(ctx, d); err != nil {
		c.ctx.Logger.Error("Failed to recreate %s: %v", d.Name, explain(err))
		return
	}
	c.ctx.Logger.Success("Recreated %s", d.Name)
}
