package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/nace/speedydisk/internal/store"
	"github.com/nace/speedydisk/internal/ui"
	"github.com/nace/speedydisk/internal/volume"
	"github.com/nace/speedydisk/internal/volume/volumetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*GlobalContext, *volumetest.FakeRunner, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	root := filepath.Join(dir, "Volumes")
	require.NoError(t, os.MkdirAll(root, 0755))

	runner := volumetest.NewFakeRunner(root)
	st := store.New(store.NewPreferences(filepath.Join(dir, "preferences.db"), "com.speedydisk.test"), "")
	reg, err := volume.New(volume.Config{MountRoot: root, Runner: runner, Store: st})
	require.NoError(t, err)
	t.Cleanup(reg.Close)

	var out bytes.Buffer
	return &GlobalContext{
		Logger:   ui.NewLoggerTo(&out, false, false, true),
		Store:    st,
		Registry: reg,
	}, runner, &out
}

func TestEjectOneReportsOutcome(t *testing.T) {
	ctx, runner, out := newTestContext(t)
	bg := context.Background()

	_, err := ctx.Registry.Create(bg, volume.Descriptor{Name: "A", SizeMB: 8})
	require.NoError(t, err)
	_, err = ctx.Registry.Create(bg, volume.Descriptor{Name: "B", SizeMB: 8})
	require.NoError(t, err)
	runner.EjectBusy("B")

	require.NoError(t, ctx.ejectOne(bg, "A", "Eject", volume.EjectOptions{}))
	assert.Contains(t, out.String(), "[SUCCESS] Ejected A")

	err = ctx.ejectOne(bg, "B", "Eject", volume.EjectOptions{})
	assert.ErrorContains(t, err, "B is busy")

	err = ctx.ejectOne(bg, "C", "Eject", volume.EjectOptions{})
	assert.ErrorContains(t, err, "no volume named C")
}

func TestConfirmSkipsPromptWhenNotNeeded(t *testing.T) {
	ctx, _, _ := newTestContext(t)
	_, err := ctx.Registry.Create(context.Background(), volume.Descriptor{Name: "A", SizeMB: 8, WarnOnEject: true})
	require.NoError(t, err)

	ok, err := ctx.Confirm("A", "Eject", false)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ctx.Confirm("missing", "Eject", false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestExplain(t *testing.T) {
	assert.NoError(t, explain(nil))

	err := explain(&volume.OpErr{Op: "eject", Name: "A", Err: volume.ErrConfirmationRequired})
	assert.ErrorIs(t, err, volume.ErrConfirmationRequired)
	assert.Contains(t, err.Error(), "--yes")

	err = explain(&volume.OpErr{Op: "create", Name: "A", Err: volume.ErrAlreadyExists})
	assert.ErrorIs(t, err, volume.ErrAlreadyExists)
}

func TestResizeTargetSize(t *testing.T) {
	c := &ResizeCommand{}
	size, err := c.targetSize(64, "1G")
	require.NoError(t, err)
	assert.Equal(t, 1024, size)

	_, err = c.targetSize(64, "")
	assert.Error(t, err)

	c.grow = true
	size, err = c.targetSize(64, "")
	require.NoError(t, err)
	assert.Equal(t, 128, size)

	_, err = c.targetSize(64, "256")
	assert.Error(t, err)

	c.shrink = true
	_, err = c.targetSize(64, "")
	assert.Error(t, err)

	c.grow = false
	size, err = c.targetSize(64, "")
	require.NoError(t, err)
	assert.Equal(t, 32, size)
}
