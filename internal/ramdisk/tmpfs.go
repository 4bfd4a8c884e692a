package ramdisk

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nace/speedydisk/internal/system"
	"github.com/sirupsen/logrus"
)

// TmpfsSource is the device name given to tmpfs mounts created here
const TmpfsSource = "speedydisk"

// TmpfsManager handles RAM disks as tmpfs mounts (Linux)
type TmpfsManager struct {
	executor  *system.Executor
	mountRoot string
}

// NewTmpfsManager creates a new tmpfs manager
func NewTmpfsManager(executor *system.Executor, mountRoot string) *TmpfsManager {
	return &TmpfsManager{
		executor:  executor,
		mountRoot: mountRoot,
	}
}

// Create mounts a tmpfs of sizeMB at <mountRoot>/<name>
func (m *TmpfsManager) Create(ctx context.Context, name string, sizeMB int) error {
	mountPoint := filepath.Join(m.mountRoot, name)

	cleanup := system.NewCleanupStack()
	defer func() {
		if err := cleanup.Execute(); err != nil {
			logrus.WithError(err).WithField("mount", mountPoint).Warn("cleanup failed")
		}
	}()

	if err := os.MkdirAll(mountPoint, 0755); err != nil {
		return fmt.Errorf("failed to create mount point: %w", err)
	}
	cleanup.Add(func() error {
		return os.Remove(mountPoint)
	})

	opts := fmt.Sprintf("size=%dm,mode=0755", sizeMB)
	err := m.executor.Run(ctx, "mount", "-t", "tmpfs", "-o", opts, TmpfsSource, mountPoint)
	if err != nil {
		return fmt.Errorf("failed to mount tmpfs at %s: %w", mountPoint, err)
	}

	cleanup.Clear()
	return nil
}

// Eject unmounts the tmpfs and removes its mount point
func (m *TmpfsManager) Eject(ctx context.Context, mountPath string) error {
	if err := m.executor.Run(ctx, "umount", mountPath); err != nil {
		return classifyEject(mountPath, err)
	}

	if err := os.Remove(mountPath); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).WithField("mount", mountPath).Warn("failed to remove mount point")
	}
	return nil
}

// SetIndexing is a no-op: there is no search indexer to toggle for tmpfs
func (m *TmpfsManager) SetIndexing(mountPath string, enabled bool) {
	logrus.WithFields(logrus.Fields{"mount": mountPath, "enabled": enabled}).
		Debug("search indexing not supported for tmpfs")
}

// Dependencies lists the commands this backend runs
func (m *TmpfsManager) Dependencies() []string {
	return []string{"mount", "umount"}
}
