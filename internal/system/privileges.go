package system

import (
	"fmt"
	"os"

	"github.com/pbnjay/memory"
)

// IsRoot checks if running as root
func IsRoot() bool {
	return os.Geteuid() == 0
}

// RequireRoot ensures the program is running as root
func RequireRoot() error {
	if !IsRoot() {
		return fmt.Errorf("this command must be run as root (try with sudo)")
	}
	return nil
}

// PhysicalMemoryMB returns the installed memory in megabytes, or 0 if unknown
func PhysicalMemoryMB() uint64 {
	return memory.TotalMemory() / (1024 * 1024)
}
