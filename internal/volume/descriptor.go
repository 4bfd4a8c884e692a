// Package volume keeps the registry of memory-backed volumes and drives
// their create, eject, recreate and delete lifecycle.
package volume

import (
	"math/bits"

	"github.com/google/uuid"
	"github.com/nace/speedydisk/internal/store"
)

const (
	// MinSizeMB is the smallest volume size
	MinSizeMB = 1
	// MaxStepSizeMB caps NextSizeUp
	MaxStepSizeMB = 1 << 19
)

// Descriptor describes one volume. ID is unique within the process and is
// not persisted; Name never changes once the volume exists.
type Descriptor struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	SizeMB           int       `json:"size_mb"`
	AutoCreate       bool      `json:"auto_create"`
	SpotlightIndexed bool      `json:"spotlight_indexed"`
	WarnOnEject      bool      `json:"warn_on_eject"`
	Folders          []string  `json:"folders"`
}

// Clone returns a deep copy
func (d Descriptor) Clone() Descriptor {
	if d.Folders != nil {
		d.Folders = append([]string(nil), d.Folders...)
	}
	return d
}

func (d Descriptor) marker() store.Marker {
	return store.Marker{
		Name:        d.Name,
		Size:        d.SizeMB,
		AutoCreate:  d.AutoCreate,
		SpotLight:   d.SpotlightIndexed,
		WarnOnEject: d.WarnOnEject,
		Folders:     store.FolderList(d.Folders),
	}
}

func (d Descriptor) autoCreateEntry() store.AutoCreateEntry {
	return store.AutoCreateEntry{
		Name:        d.Name,
		Size:        d.SizeMB,
		SpotLight:   d.SpotlightIndexed,
		WarnOnEject: d.WarnOnEject,
		Folders:     store.FolderList(d.Folders),
	}
}

func fromMarker(m store.Marker) Descriptor {
	return Descriptor{
		Name:             m.Name,
		SizeMB:           ClampSize(m.Size),
		AutoCreate:       m.AutoCreate,
		SpotlightIndexed: m.SpotLight,
		WarnOnEject:      m.WarnOnEject,
		Folders:          []string(m.Folders),
	}
}

func fromAutoCreateEntry(e store.AutoCreateEntry) Descriptor {
	return Descriptor{
		Name:             e.Name,
		SizeMB:           ClampSize(e.Size),
		AutoCreate:       true,
		SpotlightIndexed: e.SpotLight,
		WarnOnEject:      e.WarnOnEject,
		Folders:          []string(e.Folders),
	}
}

// ClampSize raises sizes below MinSizeMB to MinSizeMB
func ClampSize(mb int) int {
	if mb < MinSizeMB {
		return MinSizeMB
	}
	return mb
}

func log2(mb int) int {
	return bits.Len(uint(ClampSize(mb))) - 1
}

// NextSizeUp returns the power of two above mb, capped at MaxStepSizeMB
func NextSizeUp(mb int) int {
	exp := log2(mb)
	if exp > 18 {
		exp = 18
	}
	return 1 << (exp + 1)
}

// NextSizeDown returns the power of two below mb, never less than MinSizeMB
func NextSizeDown(mb int) int {
	exp := log2(mb)
	if exp < 1 {
		exp = 1
	}
	return 1 << (exp - 1)
}
