//go:build !darwin && !linux && !freebsd

package ramdisk

import "fmt"

// Usage is not supported on this platform
func Usage(mountPoint string) (size uint64, used uint64, err error) {
	return 0, 0, fmt.Errorf("filesystem usage not supported")
}
