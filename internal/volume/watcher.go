package volume

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// MountChecker reports whether a path is currently a mount point
type MountChecker interface {
	IsMounted(path string) (bool, error)
}

// DefaultWatchInterval is the polling period used when none is configured
const DefaultWatchInterval = 2 * time.Second

// Watcher detects volumes unmounted outside the registry, for example from
// the file manager, and unregisters them.
type Watcher struct {
	reg       *Registry
	checker   MountChecker
	interval  time.Duration
	onUnmount func(Descriptor)
}

// NewWatcher creates a watcher. onUnmount, if set, is called for every
// volume unregistered because it disappeared.
func NewWatcher(reg *Registry, checker MountChecker, interval time.Duration, onUnmount func(Descriptor)) *Watcher {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	return &Watcher{
		reg:       reg,
		checker:   checker,
		interval:  interval,
		onUnmount: onUnmount,
	}
}

// Run watches until ctx is done. Directory removals under the mount root
// are picked up immediately; every registered volume is also polled so
// unmounts that leave the directory in place are caught too.
func (w *Watcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err == nil {
		if err = fsw.Add(w.reg.MountRoot()); err != nil {
			fsw.Close()
		}
	}
	if err != nil {
		logrus.WithError(err).Warn("filesystem notifications unavailable, polling only")
	} else {
		defer fsw.Close()
		g.Go(func() error {
			return w.watchEvents(ctx, fsw)
		})
	}

	g.Go(func() error {
		return w.poll(ctx)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (w *Watcher) watchEvents(ctx context.Context, fsw *fsnotify.Watcher) error {
	root := w.reg.MountRoot()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			if filepath.Dir(event.Name) != root {
				continue
			}
			w.check(event.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Warn("mount root watch error")
		}
	}
}

func (w *Watcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.CheckAll()
		}
	}
}

// CheckAll checks every registered volume once
func (w *Watcher) CheckAll() {
	for _, name := range w.reg.Names() {
		w.check(w.reg.MountPath(name))
	}
}

func (w *Watcher) check(mountPath string) {
	seen := w.reg.registration(mountPath)
	if seen == nil {
		return
	}

	mounted, err := w.checker.IsMounted(mountPath)
	if err != nil {
		logrus.WithError(err).WithField("mount", mountPath).Debug("failed to check mount")
		return
	}
	if mounted {
		return
	}
	if d, ok := w.reg.handleUnmount(mountPath, seen); ok && w.onUnmount != nil {
		w.onUnmount(d)
	}
}
