package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerTo(&buf, false, false, true)

	l.Info("created %s", "Scratch")
	l.Debug("hidden")
	l.Warning("careful")
	assert.Equal(t, "[INFO] created Scratch\n[WARNING] careful\n", buf.String())

	buf.Reset()
	l.Quiet = true
	l.Success("hidden")
	l.Error("boom")
	assert.Equal(t, "[ERROR] boom\n", buf.String())

	buf.Reset()
	l.Verbose = true
	l.Debug("shown")
	assert.Equal(t, "[DEBUG] shown\n", buf.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	NewTable("NAME", "SIZE").Fprint(&buf)
	assert.Empty(t, buf.String())

	tbl := NewTable("NAME", "SIZE")
	tbl.AddRow("Scratch", "64MiB")
	tbl.Fprint(&buf)
	assert.Contains(t, buf.String(), "NAME")
	assert.Contains(t, buf.String(), "Scratch")
	assert.Contains(t, buf.String(), "64MiB")
}

func TestFprintJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, FprintJSON(&buf, map[string]int{"size": 64}))
	assert.Equal(t, "{\n  \"size\": 64\n}\n", buf.String())
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, Confirm(strings.NewReader("y\n"), &out, "Eject?"))
	assert.True(t, Confirm(strings.NewReader("YES\n"), &out, "Eject?"))
	assert.False(t, Confirm(strings.NewReader("\n"), &out, "Eject?"))
	assert.False(t, Confirm(strings.NewReader(""), &out, "Eject?"))
	assert.Contains(t, out.String(), "Eject? [y/N]: ")
}
