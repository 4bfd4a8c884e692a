// Package ramdisk runs the OS utilities that create, eject and index
// memory-backed volumes.
package ramdisk

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"

	"github.com/nace/speedydisk/internal/system"
)

// StatusBusy is the OS status embedded in an eject failure when the volume
// is in use.
const StatusBusy = -47

// Backend kinds accepted by NewBackend
const (
	BackendAuto     = "auto"
	BackendDiskutil = "diskutil"
	BackendTmpfs    = "tmpfs"
)

// BlocksPerMB is the number of 512-byte blocks in one megabyte
const BlocksPerMB = 2048

// Backend creates and ejects memory-backed volumes under a mount root
type Backend interface {
	Create(ctx context.Context, name string, sizeMB int) error
	Eject(ctx context.Context, mountPath string) error
	SetIndexing(mountPath string, enabled bool)
	Dependencies() []string
}

// Options configures a backend
type Options struct {
	MountRoot  string
	Filesystem string
}

// NewBackend returns the backend for kind, resolving "auto" by platform
func NewBackend(kind string, executor *system.Executor, opts Options) (Backend, error) {
	switch ResolveKind(kind) {
	case BackendDiskutil:
		return NewDiskutilManager(executor, opts.Filesystem), nil
	case BackendTmpfs:
		return NewTmpfsManager(executor, opts.MountRoot), nil
	default:
		return nil, fmt.Errorf("unsupported backend: %s (use auto, diskutil or tmpfs)", kind)
	}
}

// ResolveKind maps "auto" (or empty) to the platform default backend
func ResolveKind(kind string) string {
	if kind != "" && kind != BackendAuto {
		return kind
	}
	if runtime.GOOS == "darwin" {
		return BackendDiskutil
	}
	return BackendTmpfs
}

// EjectError is returned when the OS refuses to unmount a volume
type EjectError struct {
	MountPath string
	Status    int
	Err       error
}

func (e *EjectError) Error() string {
	return fmt.Sprintf("failed to eject %s (%d): %v", e.MountPath, e.Status, e.Err)
}

func (e *EjectError) Unwrap() error {
	return e.Err
}

// IsBusy reports whether err is an eject failure caused by the volume being in use
func IsBusy(err error) bool {
	var ejectErr *EjectError
	if errors.As(err, &ejectErr) {
		return ejectErr.Status == StatusBusy
	}
	return false
}

var (
	embeddedStatus = regexp.MustCompile(`\((-\d+)\)`)
	busyMarkers    = []string{"resource busy", "target is busy", "dissented", "device is busy"}
)

// classifyEject wraps a failed eject command, extracting the embedded OS status
func classifyEject(mountPath string, err error) *EjectError {
	var output string
	var exitErr *system.ExitError
	if errors.As(err, &exitErr) {
		output = exitErr.Output()
	} else {
		output = err.Error()
	}

	status := system.ExitStatus(err)
	if m := embeddedStatus.FindStringSubmatch(output); m != nil {
		if code, convErr := strconv.Atoi(m[1]); convErr == nil {
			status = code
		}
	} else {
		lower := strings.ToLower(output)
		for _, marker := range busyMarkers {
			if strings.Contains(lower, marker) {
				status = StatusBusy
				break
			}
		}
	}

	return &EjectError{MountPath: mountPath, Status: status, Err: err}
}
