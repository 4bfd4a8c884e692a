package ramdisk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/nace/speedydisk/internal/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEjectEmbeddedStatus(t *testing.T) {
	err := classifyEject("/Volumes/Scratch", &system.ExitError{
		Command: "diskutil",
		Status:  1,
		Stderr:  "Volume Scratch failed to eject (-47)",
		Err:     errors.New("exit status 1"),
	})
	assert.Equal(t, StatusBusy, err.Status)
	assert.True(t, IsBusy(err))
}

func TestClassifyEjectBusyText(t *testing.T) {
	err := classifyEject("/mnt/speedydisk/Scratch", &system.ExitError{
		Command: "umount",
		Status:  32,
		Stderr:  "umount: /mnt/speedydisk/Scratch: target is busy.",
		Err:     errors.New("exit status 32"),
	})
	assert.True(t, IsBusy(err))
}

func TestClassifyEjectOtherFailure(t *testing.T) {
	err := classifyEject("/Volumes/Scratch", &system.ExitError{
		Command: "diskutil",
		Status:  1,
		Stderr:  "Unable to find disk for /Volumes/Scratch (-69877)",
		Err:     errors.New("exit status 1"),
	})
	assert.Equal(t, -69877, err.Status)
	assert.False(t, IsBusy(err))

	plain := classifyEject("/Volumes/Scratch", errors.New("boom"))
	assert.Equal(t, -1, plain.Status)
	assert.False(t, IsBusy(plain))
}

func TestIsBusyWrapped(t *testing.T) {
	err := &EjectError{MountPath: "/Volumes/X", Status: StatusBusy, Err: errors.New("busy")}
	assert.True(t, IsBusy(errors.Join(errors.New("context"), err)))
	assert.False(t, IsBusy(errors.New("busy")))
	assert.False(t, IsBusy(nil))
}

func TestResolveKind(t *testing.T) {
	assert.Equal(t, BackendTmpfs, ResolveKind(BackendTmpfs))
	assert.Equal(t, BackendDiskutil, ResolveKind(BackendDiskutil))
	if runtime.GOOS == "darwin" {
		assert.Equal(t, BackendDiskutil, ResolveKind(BackendAuto))
	} else {
		assert.Equal(t, BackendTmpfs, ResolveKind(""))
	}
}

func TestNewBackendRejectsUnknownKind(t *testing.T) {
	_, err := NewBackend("zfs", system.NewDryRunExecutor(), Options{})
	assert.Error(t, err)
}

func TestTmpfsManagerLifecycle(t *testing.T) {
	root := t.TempDir()
	m := NewTmpfsManager(system.NewDryRunExecutor(), root)
	mountPoint := filepath.Join(root, "Scratch")

	require.NoError(t, m.Create(context.Background(), "Scratch", 64))
	assert.DirExists(t, mountPoint)

	require.NoError(t, m.Eject(context.Background(), mountPoint))
	_, err := os.Stat(mountPoint)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskutilManagerRejectsUnexpectedAttachOutput(t *testing.T) {
	m := NewDiskutilManager(system.NewDryRunExecutor(), "")
	err := m.Create(context.Background(), "Scratch", 64)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected hdiutil output")
}

func TestDiscoveryMissingPathIsNotMounted(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	mounted, err := d.IsMounted(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, mounted)
}
