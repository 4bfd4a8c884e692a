package volume

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampSize(t *testing.T) {
	assert.Equal(t, 1, ClampSize(0))
	assert.Equal(t, 1, ClampSize(-10))
	assert.Equal(t, 64, ClampSize(64))
}

func TestNextSizeUp(t *testing.T) {
	assert.Equal(t, 2, NextSizeUp(1))
	assert.Equal(t, 128, NextSizeUp(64))
	assert.Equal(t, 128, NextSizeUp(100))
	assert.Equal(t, MaxStepSizeMB, NextSizeUp(MaxStepSizeMB))
	assert.Equal(t, MaxStepSizeMB, NextSizeUp(MaxStepSizeMB*4))
}

func TestNextSizeDown(t *testing.T) {
	assert.Equal(t, 32, NextSizeDown(64))
	assert.Equal(t, 1, NextSizeDown(2))
	assert.Equal(t, 1, NextSizeDown(1))
	assert.Equal(t, 1, NextSizeDown(0))
}

func TestClonedFoldersAreIndependent(t *testing.T) {
	d := Descriptor{Name: "X", Folders: []string{"a"}}
	c := d.Clone()
	c.Folders[0] = "b"
	assert.Equal(t, "a", d.Folders[0])
}

func TestMarkerConversion(t *testing.T) {
	d := Descriptor{Name: "X", SizeMB: 8, AutoCreate: true, SpotlightIndexed: true, Folders: []string{"tmp"}}
	back := fromMarker(d.marker())
	assert.Equal(t, d.Name, back.Name)
	assert.Equal(t, d.SizeMB, back.SizeMB)
	assert.True(t, back.AutoCreate)
	assert.True(t, back.SpotlightIndexed)
	assert.Equal(t, d.Folders, back.Folders)

	entry := fromAutoCreateEntry(d.autoCreateEntry())
	assert.True(t, entry.AutoCreate)
	assert.Equal(t, 8, entry.SizeMB)
}

func TestOpErrMessage(t *testing.T) {
	err := opErr("create", "X", ErrAlreadyExists, nil)
	assert.Equal(t, "create X: a volume with this name already exists", err.Error())
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.True(t, IsConflict(err))
	assert.False(t, IsNotFound(err))
}
