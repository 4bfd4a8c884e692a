package ramdisk

import (
	"github.com/nace/speedydisk/internal/system"
)

// IndexManager toggles Spotlight indexing with mdutil
type IndexManager struct {
	executor *system.Executor
}

// NewIndexManager creates a new index manager
func NewIndexManager(executor *system.Executor) *IndexManager {
	return &IndexManager{executor: executor}
}

// Set turns indexing on or off. Failures are logged by the executor only.
func (m *IndexManager) Set(mountPath string, enabled bool) {
	state := "off"
	if enabled {
		state = "on"
	}
	m.executor.Spawn("mdutil", "-i", state, mountPath)
}
