package ramdisk

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"github.com/moby/sys/mountinfo"
)

// MountInfo describes a filesystem mounted directly under the mount root
type MountInfo struct {
	MountPoint string `json:"mount_point"`
	Source     string `json:"source"`
	Filesystem string `json:"filesystem"`
	Size       uint64 `json:"size"`
	Used       uint64 `json:"used"`
}

// Discovery queries the OS mount table for volumes under the mount root
type Discovery struct {
	root string
}

// NewDiscovery creates a new discovery instance
func NewDiscovery(root string) *Discovery {
	return &Discovery{root: filepath.Clean(root)}
}

// IsMounted reports whether path is a mount point. A missing path is not mounted.
func (d *Discovery) IsMounted(path string) (bool, error) {
	mounted, err := mountinfo.Mounted(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return mounted, nil
}

// Mounts lists the filesystems mounted directly under the mount root
func (d *Discovery) Mounts() ([]MountInfo, error) {
	infos, err := mountinfo.GetMounts(mountinfo.PrefixFilter(d.root))
	if err != nil {
		return nil, err
	}

	var mounts []MountInfo
	for _, info := range infos {
		if filepath.Dir(info.Mountpoint) != d.root {
			continue
		}
		m := MountInfo{
			MountPoint: info.Mountpoint,
			Source:     info.Source,
			Filesystem: info.FSType,
		}
		if size, used, err := Usage(info.Mountpoint); err == nil {
			m.Size = size
			m.Used = used
		}
		mounts = append(mounts, m)
	}

	sort.Slice(mounts, func(i, j int) bool {
		return mounts[i].MountPoint < mounts[j].MountPoint
	})
	return mounts, nil
}
