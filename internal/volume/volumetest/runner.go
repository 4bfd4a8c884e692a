// Package volumetest provides fakes for exercising the volume registry
// without mounting anything.
package volumetest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/nace/speedydisk/internal/ramdisk"
	"github.com/nace/speedydisk/internal/system"
)

// FakeRunner simulates volume commands with plain directories under a root
type FakeRunner struct {
	root string

	mu           sync.Mutex
	createStatus map[string]int
	ejectErr     map[string]error
	indexing     map[string]bool
	creates      []string
	ejects       []string

	gate    chan struct{}
	started chan string
}

// NewFakeRunner creates a runner that "mounts" volumes as directories under root
func NewFakeRunner(root string) *FakeRunner {
	return &FakeRunner{
		root:         root,
		createStatus: make(map[string]int),
		ejectErr:     make(map[string]error),
		indexing:     make(map[string]bool),
	}
}

// FailCreate makes creating name exit with status
func (f *FakeRunner) FailCreate(name string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createStatus[name] = status
}

// EjectBusy makes ejecting name fail as if the volume were in use
func (f *FakeRunner) EjectBusy(name string) {
	mountPath := filepath.Join(f.root, name)
	f.FailEject(name, &ramdisk.EjectError{
		MountPath: mountPath,
		Status:    ramdisk.StatusBusy,
		Err:       errors.New("Volume failed to eject (-47)"),
	})
}

// FailEject makes ejecting name return err. A nil err clears the failure.
func (f *FakeRunner) FailEject(name string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.ejectErr, name)
		return
	}
	f.ejectErr[name] = err
}

// BlockEjects holds every Eject until Release is called. The returned
// channel receives the mount path of each eject as it starts.
func (f *FakeRunner) BlockEjects() <-chan string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	f.started = make(chan string, 16)
	return f.started
}

// Release lets blocked ejects continue
func (f *FakeRunner) Release() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gate != nil {
		close(f.gate)
		f.gate = nil
	}
}

// Create records the call and makes the volume directory
func (f *FakeRunner) Create(ctx context.Context, name string, sizeMB int) error {
	f.mu.Lock()
	f.creates = append(f.creates, name)
	status := f.createStatus[name]
	f.mu.Unlock()

	if status != 0 {
		return &system.ExitError{
			Command: "hdiutil",
			Status:  status,
			Err:     errors.New("exit status"),
		}
	}
	return os.MkdirAll(filepath.Join(f.root, name), 0755)
}

// Eject records the call and removes the volume directory
func (f *FakeRunner) Eject(ctx context.Context, mountPath string) error {
	name := filepath.Base(mountPath)

	f.mu.Lock()
	f.ejects = append(f.ejects, name)
	gate, started := f.gate, f.started
	f.mu.Unlock()

	if gate != nil {
		started <- mountPath
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	f.mu.Lock()
	err := f.ejectErr[name]
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return os.RemoveAll(mountPath)
}

// SetIndexing records the requested indexing state
func (f *FakeRunner) SetIndexing(mountPath string, enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexing[mountPath] = enabled
}

// Creates returns the names passed to Create, in order
func (f *FakeRunner) Creates() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.creates...)
}

// Ejects returns the volume names passed to Eject, in order
func (f *FakeRunner) Ejects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.ejects...)
}

// Indexing returns the last indexing state set for mountPath
func (f *FakeRunner) Indexing(mountPath string) (enabled, set bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	enabled, set = f.indexing[mountPath]
	return enabled, set
}

// FakeChecker reports every path as mounted unless marked otherwise
type FakeChecker struct {
	mu        sync.Mutex
	unmounted map[string]bool
}

// NewFakeChecker creates a checker with every path mounted
func NewFakeChecker() *FakeChecker {
	return &FakeChecker{unmounted: make(map[string]bool)}
}

// Unmount marks path as no longer mounted
func (c *FakeChecker) Unmount(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmounted[filepath.Clean(path)] = true
}

// IsMounted implements volume.MountChecker
func (c *FakeChecker) IsMounted(path string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.unmounted[filepath.Clean(path)], nil
}
