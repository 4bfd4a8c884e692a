package ramdisk

import (
	"context"
	"fmt"
	"strings"

	"github.com/nace/speedydisk/internal/system"
	"github.com/sirupsen/logrus"
)

// DiskutilManager handles RAM disks through hdiutil and diskutil (macOS)
type DiskutilManager struct {
	executor   *system.Executor
	filesystem string
	index      *IndexManager
}

// NewDiskutilManager creates a new diskutil manager
func NewDiskutilManager(executor *system.Executor, filesystem string) *DiskutilManager {
	if filesystem == "" {
		filesystem = "HFS+"
	}
	return &DiskutilManager{
		executor:   executor,
		filesystem: filesystem,
		index:      NewIndexManager(executor),
	}
}

// Create attaches a RAM device of sizeMB and erases it as a volume named name.
// diskutil mounts the result under /Volumes/<name>.
func (m *DiskutilManager) Create(ctx context.Context, name string, sizeMB int) error {
	device, err := m.attach(ctx, sizeMB)
	if err != nil {
		return err
	}

	cleanup := system.NewCleanupStack()
	defer func() {
		if err := cleanup.Execute(); err != nil {
			logrus.WithError(err).WithField("device", device).Warn("failed to detach RAM device")
		}
	}()
	cleanup.Add(func() error {
		return m.executor.Run(context.Background(), "hdiutil", "detach", device)
	})

	if err := m.executor.Run(ctx, "diskutil", "eraseVolume", m.filesystem, name, device); err != nil {
		return fmt.Errorf("failed to format %s as %q: %w", device, name, err)
	}

	cleanup.Clear()
	return nil
}

func (m *DiskutilManager) attach(ctx context.Context, sizeMB int) (string, error) {
	url := fmt.Sprintf("ram://%d", uint64(sizeMB)*BlocksPerMB)
	output, err := m.executor.RunOutput(ctx, "hdiutil", "attach", "-nomount", url)
	if err != nil {
		return "", fmt.Errorf("failed to attach RAM device: %w", err)
	}

	device := strings.TrimSpace(output)
	if !strings.HasPrefix(device, "/dev/") {
		return "", fmt.Errorf("unexpected hdiutil output: %q", output)
	}
	return device, nil
}

// Eject unmounts the volume and detaches its RAM device
func (m *DiskutilManager) Eject(ctx context.Context, mountPath string) error {
	if err := m.executor.Run(ctx, "diskutil", "eject", mountPath); err != nil {
		return classifyEject(mountPath, err)
	}
	return nil
}

// SetIndexing toggles Spotlight for the mount point
func (m *DiskutilManager) SetIndexing(mountPath string, enabled bool) {
	m.index.Set(mountPath, enabled)
}

// Dependencies lists the commands this backend runs
func (m *DiskutilManager) Dependencies() []string {
	return []string{"hdiutil", "diskutil", "mdutil"}
}
