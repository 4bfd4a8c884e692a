package volume

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/nace/speedydisk/internal/ramdisk"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// EjectOutcome classifies the result of an eject
type EjectOutcome int

const (
	// Ejected means the volume was unmounted and unregistered
	Ejected EjectOutcome = iota
	// Busy means the OS reported the volume in use; nothing changed
	Busy
	// NotFound means no volume with that name is registered
	NotFound
	// Undefined means the eject did not happen for any other reason
	Undefined
)

func (o EjectOutcome) String() string {
	switch o {
	case Ejected:
		return "ejected"
	case Busy:
		return "busy"
	case NotFound:
		return "not found"
	default:
		return "undefined"
	}
}

// EjectOptions selects what happens around an eject
type EjectOptions struct {
	// Recreate creates the volume again right after a successful eject
	Recreate bool
	// Delete removes the volume from the auto-create list after a successful eject
	Delete bool
	// Force skips the warn-on-eject confirmation check
	Force bool
}

// EjectResult pairs an outcome with its error
type EjectResult struct {
	Outcome EjectOutcome
	Err     error
}

// housekeeping lists entries the OS creates on its own inside a volume
var housekeeping = map[string]bool{
	".DS_Store":       true,
	".fseventsd":      true,
	".Spotlight-V100": true,
	".Trashes":        true,
	".TemporaryItems": true,
	"lost+found":      true,
}

// NeedsConfirmation reports whether ejecting or deleting name should be
// confirmed: the volume warns on eject and holds user files.
func (r *Registry) NeedsConfirmation(name string) (bool, error) {
	d, ok := r.Get(name)
	if !ok {
		return false, opErr("confirm", name, ErrNotFound, nil)
	}
	return d.WarnOnEject && r.hasUserFiles(r.MountPath(name)), nil
}

func (r *Registry) hasUserFiles(mountPath string) bool {
	entries, err := os.ReadDir(mountPath)
	if err != nil {
		return false
	}
	marker := r.store.MarkerFileName()
	for _, entry := range entries {
		if entry.Name() == marker || housekeeping[entry.Name()] {
			continue
		}
		return true
	}
	return false
}

// Eject unmounts the volume called name. A second call for a name whose
// eject, delete or recreate is still running returns ErrOperationInProgress
// without touching the OS. The returned error is non-nil for Undefined
// outcomes, and for Ejected when the follow-up recreate failed.
func (r *Registry) Eject(ctx context.Context, name string, opts EjectOptions) (EjectOutcome, error) {
	if r.InProgress(name) {
		return Undefined, opErr("eject", name, ErrOperationInProgress, nil)
	}
	d, ok := r.Get(name)
	if !ok {
		return NotFound, nil
	}

	mountPath := r.MountPath(name)
	if d.WarnOnEject && !opts.Force && r.hasUserFiles(mountPath) {
		return Undefined, opErr("eject", name, ErrConfirmationRequired, nil)
	}

	registered, started := r.begin(name)
	if !registered {
		return NotFound, nil
	}
	if !started {
		return Undefined, opErr("eject", name, ErrOperationInProgress, nil)
	}
	defer r.end(name)

	log := logrus.WithFields(logrus.Fields{"volume": name, "mount": mountPath})
	if err := r.runner.Eject(ctx, mountPath); err != nil {
		if ramdisk.IsBusy(err) {
			log.WithError(err).Info("volume is busy")
			return Busy, nil
		}
		log.WithError(err).Warn("eject failed")
		return Undefined, opErr("eject", name, ErrEjectFailed, err)
	}

	r.mu.Lock()
	if i := r.indexLocked(name); i >= 0 {
		d = r.removeLocked(i).Clone()
	}
	r.mu.Unlock()

	if opts.Delete {
		d.AutoCreate = false
		r.persistAutoCreate(name)
		r.publish(EventDeleted, name)
	} else {
		r.publish(EventEjected, name)
	}
	log.Debug("volume ejected")

	if opts.Recreate {
		if _, err := r.create(ctx, d, true); err != nil {
			log.WithError(err).Warn("recreate failed")
			return Ejected, opErr("recreate", name, ErrCreateFailed, err)
		}
	}
	return Ejected, nil
}

// begin marks name in progress. registered is false if the volume is gone;
// started is false if another operation holds the name.
func (r *Registry) begin(name string) (registered, started bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexLocked(name) < 0 {
		return false, false
	}
	if r.inFlight.Contains(name) {
		return true, false
	}
	r.inFlight.Add(name)
	return true, true
}

func (r *Registry) end(name string) {
	r.mu.Lock()
	r.inFlight.Remove(name)
	r.mu.Unlock()
}

// Delete ejects the volume and drops it from the auto-create list
func (r *Registry) Delete(ctx context.Context, name string, force bool) (EjectOutcome, error) {
	return r.Eject(ctx, name, EjectOptions{Delete: true, Force: force})
}

// Recreate applies the size and folders of draft to the live volume, then
// ejects it and creates it again. A nil draft recreates it unchanged.
func (r *Registry) Recreate(ctx context.Context, name string, draft *Descriptor, force bool) (EjectOutcome, error) {
	if draft != nil {
		d, ok := r.Get(name)
		if !ok {
			return NotFound, nil
		}
		if r.InProgress(name) {
			return Undefined, opErr("recreate", name, ErrOperationInProgress, nil)
		}
		if err := r.SetSize(d.ID, draft.SizeMB); err != nil {
			return Undefined, err
		}
		if err := r.SetFolders(d.ID, draft.Folders); err != nil {
			return Undefined, err
		}
	}
	return r.Eject(ctx, name, EjectOptions{Recreate: true, Force: force})
}

// EjectAll ejects every registered volume concurrently
func (r *Registry) EjectAll(ctx context.Context, opts EjectOptions) map[string]EjectResult {
	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]EjectResult)
	)

	for _, name := range r.Names() {
		name := name
		g.Go(func() error {
			outcome, err := r.Eject(ctx, name, opts)
			mu.Lock()
			results[name] = EjectResult{Outcome: outcome, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// HandleExternalUnmount unregisters the volume mounted at mountPath after
// the OS reported it gone. Volumes with an operation in progress are left
// to that operation. The removed volume is returned so the caller can
// decide whether to recreate it.
func (r *Registry) HandleExternalUnmount(mountPath string) (Descriptor, bool) {
	return r.handleUnmount(mountPath, nil)
}

// registration returns the live entry mounted at mountPath. It is nil when
// nothing is registered there or an operation holds the volume.
func (r *Registry) registration(mountPath string) *Descriptor {
	mountPath = filepath.Clean(mountPath)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.volumes {
		if r.MountPath(d.Name) != mountPath {
			continue
		}
		if r.inFlight.Contains(d.Name) {
			logrus.WithField("volume", d.Name).Debug("operation in progress, mount is rechecked on the next poll")
			return nil
		}
		return d
	}
	return nil
}

// handleUnmount removes the volume at mountPath. A non-nil seen must still
// be the current registration: a volume recreated after the mount check
// is a different registration and stays.
func (r *Registry) handleUnmount(mountPath string, seen *Descriptor) (Descriptor, bool) {
	mountPath = filepath.Clean(mountPath)

	r.mu.Lock()
	var removed *Descriptor
	for i, d := range r.volumes {
		if r.MountPath(d.Name) != mountPath {
			continue
		}
		log := logrus.WithField("volume", d.Name)
		if r.inFlight.Contains(d.Name) {
			log.Debug("ignoring unmount notification during eject, next poll rechecks")
			break
		}
		if seen != nil && d != seen {
			log.Debug("ignoring stale unmount notification, volume was recreated")
			break
		}
		removed = r.removeLocked(i)
		break
	}
	r.mu.Unlock()

	if removed == nil {
		return Descriptor{}, false
	}
	logrus.WithField("volume", removed.Name).Info("volume unmounted externally")
	r.publish(EventUnmounted, removed.Name)
	return removed.Clone(), true
}
