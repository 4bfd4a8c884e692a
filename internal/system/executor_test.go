package system

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorCapturesExitStatus(t *testing.T) {
	e := NewExecutor(false)
	if !e.CommandExists("sh") {
		t.Skip("sh not available")
	}

	out, err := e.RunOutput(context.Background(), "sh", "-c", "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", out)

	_, err = e.RunOutput(context.Background(), "sh", "-c", "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Equal(t, 3, ExitStatus(err))

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Output(), "oops")
}

func TestExitStatusOfNil(t *testing.T) {
	assert.Equal(t, 0, ExitStatus(nil))
}

func TestDryRunExecutorDoesNotRun(t *testing.T) {
	e := NewDryRunExecutor()
	_, err := e.RunOutput(context.Background(), "definitely-not-a-command")
	assert.NoError(t, err)
}

func TestCheckDependencies(t *testing.T) {
	e := NewExecutor(false)
	err := e.CheckDependencies([]string{"definitely-not-a-command"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-command")
}
