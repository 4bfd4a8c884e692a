//go:build darwin || linux || freebsd

package ramdisk

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Usage returns total and used bytes of the filesystem mounted at mountPoint
func Usage(mountPoint string) (size uint64, used uint64, err error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(mountPoint, &stat); err != nil {
		return 0, 0, fmt.Errorf("failed to get filesystem stats: %w", err)
	}
	bsize := uint64(stat.Bsize)
	size = stat.Blocks * bsize
	used = (stat.Blocks - stat.Bfree) * bsize
	return size, used, nil
}
