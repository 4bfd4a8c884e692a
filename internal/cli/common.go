package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nace/speedydisk/internal/config"
	"github.com/nace/speedydisk/internal/login"
	"github.com/nace/speedydisk/internal/ramdisk"
	"github.com/nace/speedydisk/internal/store"
	"github.com/nace/speedydisk/internal/system"
	"github.com/nace/speedydisk/internal/ui"
	"github.com/nace/speedydisk/internal/volume"
)

// GlobalContext holds shared resources for all commands
type GlobalContext struct {
	Config    *config.Config
	Executor  *system.Executor
	Logger    *ui.Logger
	Backend   ramdisk.Backend
	Store     *store.Store
	Registry  *volume.Registry
	Discovery *ramdisk.Discovery
	Login     *login.Manager
}

// NewGlobalContext creates a context with a logger only. Call Init once
// flags and configuration are known.
func NewGlobalContext(verbose, quiet, noColor bool) *GlobalContext {
	return &GlobalContext{
		Logger: ui.NewLogger(verbose, quiet, noColor),
	}
}

// Init builds the executor, backend, store and registry from cfg
func (ctx *GlobalContext) Init(cfg *config.Config, verbose, quiet, noColor, debug bool) error {
	ctx.Config = cfg
	ctx.Executor = system.NewExecutor(debug)
	ctx.Logger = ui.NewLogger(verbose, quiet, noColor)

	backend, err := ramdisk.NewBackend(cfg.Backend, ctx.Executor, ramdisk.Options{
		MountRoot:  cfg.MountRoot,
		Filesystem: cfg.Filesystem,
	})
	if err != nil {
		return err
	}
	ctx.Backend = backend

	prefs := store.NewPreferences(cfg.PreferencesPath, cfg.PreferencesNamespace)
	ctx.Store = store.New(prefs, cfg.MarkerFile)
	ctx.Logger.Debug("Preferences: %s", prefs.Path())
	ctx.Discovery = ramdisk.NewDiscovery(cfg.MountRoot)

	ctx.Registry, err = volume.New(volume.Config{
		MountRoot: cfg.MountRoot,
		Runner:    backend,
		Store:     ctx.Store,
		MemoryMB:  system.PhysicalMemoryMB(),
	})
	if err != nil {
		return err
	}

	ctx.Login, err = login.NewManager(ctx.Executor, login.Options{Label: cfg.LoginLabel})
	if err != nil {
		ctx.Logger.Debug("Login items unavailable: %v", err)
	}
	return nil
}

// Close releases the registry
func (ctx *GlobalContext) Close() {
	if ctx.Registry != nil {
		ctx.Registry.Close()
	}
}

// CheckDependencies checks for required system commands
func (ctx *GlobalContext) CheckDependencies() error {
	return ctx.Executor.CheckDependencies(ctx.Backend.Dependencies())
}

// CheckPrivileges fails early when the backend needs root to mount
func (ctx *GlobalContext) CheckPrivileges() error {
	if ramdisk.ResolveKind(ctx.Config.Backend) == ramdisk.BackendTmpfs {
		return system.RequireRoot()
	}
	return nil
}

// Prepare runs the checks every mutating command needs and loads the
// volumes that are already mounted.
func (ctx *GlobalContext) Prepare() error {
	if err := ctx.CheckPrivileges(); err != nil {
		return err
	}
	if err := ctx.CheckDependencies(); err != nil {
		return err
	}
	return ctx.Registry.Scan()
}

// Confirm decides whether an eject of name may proceed. It returns true
// without asking when yes is set or no confirmation is needed.
func (ctx *GlobalContext) Confirm(name, action string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	need, err := ctx.Registry.NeedsConfirmation(name)
	if err != nil || !need {
		return true, nil
	}
	return ui.PromptConfirm(fmt.Sprintf("%s contains files that will be lost. %s anyway?", name, action))
}

// ejectOne confirms and runs one eject, reporting the outcome. It returns
// an error when the volume was not ejected.
func (ctx *GlobalContext) ejectOne(c context.Context, name, action string, opts volume.EjectOptions) error {
	ok, err := ctx.Confirm(name, action, opts.Force)
	if err != nil {
		return err
	}
	if !ok {
		ctx.Logger.Info("Skipped %s", name)
		return nil
	}
	opts.Force = true

	outcome, err := ctx.Registry.Eject(c, name, opts)
	return ctx.report(name, outcome, err, opts)
}

func (ctx *GlobalContext) report(name string, outcome volume.EjectOutcome, err error, opts volume.EjectOptions) error {
	switch outcome {
	case volume.Ejected:
		if err != nil {
			return explain(err)
		}
		switch {
		case opts.Recreate:
			ctx.Logger.Success("Recreated %s", name)
		case opts.Delete:
			ctx.Logger.Success("Deleted %s", name)
		default:
			ctx.Logger.Success("Ejected %s", name)
		}
		return nil
	case volume.Busy:
		return fmt.Errorf("%s is busy: close any files or applications using it and try again", name)
	case volume.NotFound:
		return fmt.Errorf("no volume named %s", name)
	default:
		return explain(err)
	}
}

// explain adds a hint to registry errors the user can act on
func explain(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, volume.ErrAlreadyExists):
		return fmt.Errorf("%w (choose another name or eject the existing volume)", err)
	case errors.Is(err, volume.ErrConfirmationRequired):
		return fmt.Errorf("%w (use --yes)", err)
	case errors.Is(err, volume.ErrOperationInProgress):
		return fmt.Errorf("%w (try again shortly)", err)
	default:
		return err
	}
}
