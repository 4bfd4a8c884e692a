package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// ExitError describes an external command that ran and failed
type ExitError struct {
	Command string // argv[0]
	Status  int    // exit status, -1 if the process never ran
	Stdout  string
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s failed (status %d): %v", e.Command, e.Status, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\nStderr: " + s
	}
	return msg
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// Output returns stdout and stderr of the failed command joined together
func (e *ExitError) Output() string {
	return strings.TrimSpace(e.Stdout + "\n" + e.Stderr)
}

// ExitStatus extracts the exit status from an error returned by the executor.
// A nil error is status 0.
func ExitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Status
	}
	return -1
}

// Executor handles execution of external commands
type Executor struct {
	dryRun bool
	debug  bool
}

// NewExecutor creates a new executor
func NewExecutor(debug bool) *Executor {
	return &Executor{
		dryRun: false,
		debug:  debug,
	}
}

// NewDryRunExecutor creates an executor that logs commands instead of running them
func NewDryRunExecutor() *Executor {
	return &Executor{dryRun: true, debug: true}
}

// Run executes a command and discards output
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	_, err := e.RunOutput(ctx, name, args...)
	return err
}

// RunOutput executes a command and returns stdout
func (e *Executor) RunOutput(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return e.RunCmd(cmd)
}

// RunCmd executes a prepared command
func (e *Executor) RunCmd(cmd *exec.Cmd) (string, error) {
	if e.dryRun {
		logrus.WithField("cmd", cmd.String()).Info("dry run")
		return "", nil
	}

	if e.debug {
		logrus.WithField("cmd", cmd.String()).Debug("Executing")
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		status := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			status = exitErr.ExitCode()
		}
		return stdout.String(), &ExitError{
			Command: cmd.Args[0],
			Status:  status,
			Stdout:  stdout.String(),
			Stderr:  stderr.String(),
			Err:     err,
		}
	}

	return stdout.String(), nil
}

// Spawn starts a command without waiting for it. The exit status is only logged.
func (e *Executor) Spawn(name string, args ...string) {
	cmd := exec.Command(name, args...)
	if e.dryRun {
		logrus.WithField("cmd", cmd.String()).Info("dry run")
		return
	}
	if e.debug {
		logrus.WithField("cmd", cmd.String()).Debug("Spawning")
	}
	if err := cmd.Start(); err != nil {
		logrus.WithError(err).WithField("cmd", name).Warn("failed to start command")
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logrus.WithError(err).WithField("cmd", cmd.String()).Debug("background command failed")
		}
	}()
}

// CommandExists checks if a command is available in PATH
func (e *Executor) CommandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

// CheckDependencies verifies required commands are available
func (e *Executor) CheckDependencies(deps []string) error {
	var missing []string
	for _, dep := range deps {
		if !e.CommandExists(dep) {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required commands: %s",
			strings.Join(missing, ", "))
	}
	return nil
}
