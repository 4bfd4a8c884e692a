package volume

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/moby/locker"
	"github.com/moby/pubsub"
	"github.com/nace/speedydisk/internal/store"
	"github.com/nace/speedydisk/internal/system"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Runner executes the OS commands behind a volume's lifecycle
type Runner interface {
	// Create makes and mounts a memory-backed volume at <mount root>/<name>
	Create(ctx context.Context, name string, sizeMB int) error
	// Eject unmounts and ejects the volume mounted at mountPath. Busy
	// failures satisfy ramdisk.IsBusy.
	Eject(ctx context.Context, mountPath string) error
	// SetIndexing toggles search indexing, best-effort
	SetIndexing(mountPath string, enabled bool)
}

// ConfigStore persists the auto-create list and per-volume markers
type ConfigStore interface {
	LoadAutoCreateList() ([]store.AutoCreateEntry, error)
	SaveAutoCreateList(entries []store.AutoCreateEntry) error
	ReadMarker(mountPath string) (store.Marker, bool)
	WriteMarker(mountPath string, m store.Marker) error
	MarkerFileName() string
}

// Config holds the collaborators of a Registry
type Config struct {
	MountRoot string
	Runner    Runner
	Store     ConfigStore
	// MemoryMB is the installed memory; creating a larger volume logs a
	// warning. Zero disables the check.
	MemoryMB uint64
}

// Registry is the authoritative list of volumes that currently exist.
// Lifecycle operations on one name are serialized; different names run
// in parallel.
type Registry struct {
	root     string
	runner   Runner
	store    ConfigStore
	memoryMB uint64

	mu       sync.Mutex
	volumes  []*Descriptor // sorted by name
	inFlight mapset.Set[string]

	creating  *locker.Locker
	persistMu sync.Mutex
	events    *pubsub.Publisher
}

// New creates an empty registry. Call Initialize to pick up existing volumes.
func New(cfg Config) (*Registry, error) {
	if cfg.MountRoot == "" {
		return nil, errors.New("mount root is required")
	}
	if cfg.Runner == nil {
		return nil, errors.New("runner is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("config store is required")
	}

	return &Registry{
		root:     filepath.Clean(cfg.MountRoot),
		runner:   cfg.Runner,
		store:    cfg.Store,
		memoryMB: cfg.MemoryMB,
		inFlight: mapset.NewThreadUnsafeSet[string](),
		creating: locker.New(),
		events:   newPublisher(),
	}, nil
}

// Close stops event delivery
func (r *Registry) Close() {
	r.events.Close()
}

// MountRoot returns the directory volumes are mounted under
func (r *Registry) MountRoot() string {
	return r.root
}

// MountPath returns where the volume called name is mounted
func (r *Registry) MountPath(name string) string {
	return filepath.Join(r.root, name)
}

// Initialize registers volumes left mounted by a previous run, then
// creates every persisted auto-create volume that is not mounted yet.
func (r *Registry) Initialize(ctx context.Context) error {
	if err := r.Scan(); err != nil {
		return err
	}
	r.RestoreAutoCreate(ctx)
	return nil
}

// Scan registers every directory under the mount root that holds a marker
// file. Volumes already registered are left alone.
func (r *Registry) Scan() error {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to scan %s", r.root)
	}

	var markers []store.Marker
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		mountPath := filepath.Join(r.root, entry.Name())
		m, ok := r.store.ReadMarker(mountPath)
		if !ok {
			continue
		}
		if m.Name != entry.Name() {
			logrus.WithFields(logrus.Fields{"mount": mountPath, "marker": m.Name}).
				Warn("marker name does not match mount point, skipping")
			continue
		}
		markers = append(markers, m)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range markers {
		if r.indexLocked(m.Name) >= 0 {
			continue
		}

		d := fromMarker(m)
		d.ID = uuid.New()
		r.volumes = append(r.volumes, &d)
		logrus.WithField("volume", d.Name).Debug("found existing volume")
	}
	r.sortLocked()
	return nil
}

// RestoreAutoCreate creates the persisted auto-create volumes that are not
// registered. Failures are logged and skipped. It returns the names created.
func (r *Registry) RestoreAutoCreate(ctx context.Context) []string {
	entries, err := r.store.LoadAutoCreateList()
	if err != nil {
		logrus.WithError(err).Warn("skipping auto-create restore")
		return nil
	}

	var created []string
	for _, entry := range entries {
		if _, ok := r.Get(entry.Name); ok {
			continue
		}
		d, err := r.Create(ctx, fromAutoCreateEntry(entry))
		if err != nil {
			logrus.WithError(err).WithField("volume", entry.Name).Warn("failed to restore auto-create volume")
			continue
		}
		created = append(created, d.Name)
	}
	return created
}

// List returns a copy of every registered volume, sorted by name
func (r *Registry) List() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Descriptor, 0, len(r.volumes))
	for _, d := range r.volumes {
		out = append(out, d.Clone())
	}
	return out
}

// Names returns the registered volume names, sorted
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.volumes))
	for _, d := range r.volumes {
		names = append(names, d.Name)
	}
	return names
}

// Get looks up a volume by name
func (r *Registry) Get(name string) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexLocked(name); i >= 0 {
		return r.volumes[i].Clone(), true
	}
	return Descriptor{}, false
}

// GetByID looks up a volume by id
func (r *Registry) GetByID(id uuid.UUID) (Descriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, d := range r.volumes {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return Descriptor{}, false
}

// InProgress reports whether an eject, delete or recreate is running for name
func (r *Registry) InProgress(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inFlight.Contains(name)
}

// Create validates d, runs the create command and registers the volume.
// Work after the volume is mounted (folders, marker, indexing, persistence)
// is best-effort and never undoes the mount.
func (r *Registry) Create(ctx context.Context, d Descriptor) (Descriptor, error) {
	return r.create(ctx, d, false)
}

func (r *Registry) create(ctx context.Context, d Descriptor, recreating bool) (Descriptor, error) {
	if d.Name == "" {
		return Descriptor{}, opErr("create", d.Name, ErrNoName, nil)
	}
	if d.SizeMB <= 0 {
		return Descriptor{}, opErr("create", d.Name, ErrInvalidSize, nil)
	}
	if err := system.ValidateVolumeName(d.Name); err != nil {
		return Descriptor{}, opErr("create", d.Name, ErrInvalidName, err)
	}

	r.creating.Lock(d.Name)
	defer r.creating.Unlock(d.Name)

	mountPath := r.MountPath(d.Name)
	if r.taken(d.Name, recreating) || system.DirExists(mountPath) {
		return Descriptor{}, opErr("create", d.Name, ErrAlreadyExists, nil)
	}

	log := logrus.WithFields(logrus.Fields{"volume": d.Name, "size_mb": d.SizeMB})
	if r.memoryMB > 0 && uint64(d.SizeMB) > r.memoryMB {
		log.WithField("memory_mb", r.memoryMB).Warn("volume is larger than installed memory")
	}

	if err := r.runner.Create(ctx, d.Name, d.SizeMB); err != nil {
		return Descriptor{}, opErr("create", d.Name, ErrCreateFailed, err)
	}

	d = d.Clone()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}

	r.mu.Lock()
	stored := d.Clone()
	r.volumes = append(r.volumes, &stored)
	r.sortLocked()
	r.mu.Unlock()

	r.createFolders(mountPath, d.Folders)
	if err := r.store.WriteMarker(mountPath, d.marker()); err != nil {
		log.WithError(err).Warn("failed to write marker")
	}
	r.runner.SetIndexing(mountPath, d.SpotlightIndexed)
	if d.AutoCreate {
		r.persistAutoCreate("")
	}

	log.Debug("volume created")
	r.publish(EventCreated, d.Name)
	return d, nil
}

// taken reports whether name is registered, or reserved by a running
// lifecycle operation other than the recreate asking.
func (r *Registry) taken(name string, recreating bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.indexLocked(name) >= 0 {
		return true
	}
	return !recreating && r.inFlight.Contains(name)
}

func (r *Registry) createFolders(mountPath string, folders []string) {
	for _, folder := range folders {
		if !system.IsLocalPath(folder) {
			logrus.WithField("folder", folder).Warn("skipping folder outside the volume")
			continue
		}
		if err := os.MkdirAll(filepath.Join(mountPath, folder), 0755); err != nil {
			logrus.WithError(err).WithField("folder", folder).Warn("failed to create folder")
		}
	}
}

// persistAutoCreate rewrites the auto-create list: registered volumes
// replace their entries, entries of unregistered volumes are kept, and
// removed is dropped. A list that cannot be read is left untouched.
func (r *Registry) persistAutoCreate(removed string) {
	r.persistMu.Lock()
	defer r.persistMu.Unlock()

	stored, err := r.store.LoadAutoCreateList()
	if err != nil {
		logrus.WithError(err).Warn("not saving auto-create list")
		return
	}

	current := make(map[string]Descriptor)
	var order []string
	r.mu.Lock()
	for _, d := range r.volumes {
		current[d.Name] = d.Clone()
		order = append(order, d.Name)
	}
	r.mu.Unlock()

	seen := make(map[string]bool)
	var merged []store.AutoCreateEntry
	for _, entry := range stored {
		if entry.Name == removed || seen[entry.Name] {
			continue
		}
		if d, ok := current[entry.Name]; ok {
			if !d.AutoCreate {
				continue
			}
			entry = d.autoCreateEntry()
		}
		seen[entry.Name] = true
		merged = append(merged, entry)
	}
	for _, name := range order {
		d := current[name]
		if d.AutoCreate && !seen[name] && name != removed {
			seen[name] = true
			merged = append(merged, d.autoCreateEntry())
		}
	}

	if err := r.store.SaveAutoCreateList(merged); err != nil {
		logrus.WithError(err).Warn("failed to save auto-create list")
	}
}

func (r *Registry) indexLocked(name string) int {
	for i, d := range r.volumes {
		if d.Name == name {
			return i
		}
	}
	return -1
}

func (r *Registry) removeLocked(i int) *Descriptor {
	d := r.volumes[i]
	r.volumes = append(r.volumes[:i], r.volumes[i+1:]...)
	return d
}

func (r *Registry) sortLocked() {
	sort.SliceStable(r.volumes, func(i, j int) bool {
		return r.volumes[i].Name < r.volumes[j].Name
	})
}
