package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateVolumeName(t *testing.T) {
	assert.NoError(t, ValidateVolumeName("Scratch"))
	assert.NoError(t, ValidateVolumeName("Build Cache"))
	for _, bad := range []string{"", ".", "..", "a/b", "nul\x00"} {
		assert.Error(t, ValidateVolumeName(bad), bad)
	}
}

func TestSplitFolders(t *testing.T) {
	assert.Equal(t, []string{"tmp", "cache/go"}, SplitFolders(" tmp, ,cache/go,"))
	assert.Nil(t, SplitFolders(""))
}

func TestIsLocalPath(t *testing.T) {
	assert.True(t, IsLocalPath("tmp"))
	assert.True(t, IsLocalPath("a/b"))
	assert.False(t, IsLocalPath(""))
	assert.False(t, IsLocalPath("../escape"))
	assert.False(t, IsLocalPath("/abs"))
}

func TestDirExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	assert.NoError(t, os.WriteFile(file, nil, 0o600))

	assert.True(t, DirExists(dir))
	assert.False(t, DirExists(file))
	assert.False(t, DirExists(filepath.Join(dir, "missing")))
}
