// Package login registers speedydisk to restore its auto-create volumes
// when the user logs in.
package login

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"text/template"

	"github.com/moby/sys/atomicwriter"
	"github.com/nace/speedydisk/internal/system"
	"github.com/sirupsen/logrus"
)

var launchAgent = template.Must(template.New("plist").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{ .Label | html }}</string>
	<key>ProgramArguments</key>
	<array>
{{- range .Args }}
		<string>{{ . | html }}</string>
{{- end }}
	</array>
	<key>RunAtLoad</key>
	<true/>
</dict>
</plist>
`))

var autostartEntry = template.Must(template.New("desktop").Parse(`[Desktop Entry]
Type=Application
Name={{ .Label }}
Exec={{ range $i, $a := .Args }}{{ if $i }} {{ end }}{{ $a }}{{ end }}
X-GNOME-Autostart-enabled=true
NoDisplay=true
`))

// Options configures a Manager
type Options struct {
	// Label identifies the login item
	Label string
	// Executable is started at login; defaults to the running binary
	Executable string
	// Args follow the executable; defaults to "restore"
	Args []string
	// HomeDir defaults to the user's home directory
	HomeDir string
	// GOOS selects the login item format; defaults to runtime.GOOS
	GOOS string
}

// Manager handles the login item of the current user
type Manager struct {
	executor *system.Executor
	opts     Options
}

// NewManager creates a login item manager
func NewManager(executor *system.Executor, opts Options) (*Manager, error) {
	if opts.Label == "" {
		return nil, fmt.Errorf("login item label is required")
	}
	if opts.Executable == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("failed to locate executable: %w", err)
		}
		opts.Executable = exe
	}
	if opts.Args == nil {
		opts.Args = []string{"restore"}
	}
	if opts.HomeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		opts.HomeDir = home
	}
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	return &Manager{executor: executor, opts: opts}, nil
}

func (m *Manager) darwin() bool {
	return m.opts.GOOS == "darwin"
}

// Path returns the file that registers the login item
func (m *Manager) Path() string {
	if m.darwin() {
		return filepath.Join(m.opts.HomeDir, "Library", "LaunchAgents", m.opts.Label+".plist")
	}
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(m.opts.HomeDir, ".config")
	}
	return filepath.Join(configHome, "autostart", m.opts.Label+".desktop")
}

// Enabled reports whether the login item is registered
func (m *Manager) Enabled() bool {
	_, err := os.Stat(m.Path())
	return err == nil
}

// Enable registers the login item
func (m *Manager) Enable(ctx context.Context) error {
	tmpl := autostartEntry
	if m.darwin() {
		tmpl = launchAgent
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Label string
		Args  []string
	}{
		Label: m.opts.Label,
		Args:  append([]string{m.opts.Executable}, m.opts.Args...),
	})
	if err != nil {
		return fmt.Errorf("failed to render login item: %w", err)
	}

	path := m.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write login item: %w", err)
	}

	if m.darwin() {
		if err := m.executor.Run(ctx, "launchctl", "load", "-w", path); err != nil {
			return fmt.Errorf("failed to load login item: %w", err)
		}
	}
	logrus.WithField("path", path).Debug("login item enabled")
	return nil
}

// Disable removes the login item. Removing a missing item is not an error.
func (m *Manager) Disable(ctx context.Context) error {
	path := m.Path()
	if !m.Enabled() {
		return nil
	}

	if m.darwin() {
		if err := m.executor.Run(ctx, "launchctl", "unload", "-w", path); err != nil {
			logrus.WithError(err).WithField("path", path).Warn("failed to unload login item")
		}
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove login item: %w", err)
	}
	logrus.WithField("path", path).Debug("login item disabled")
	return nil
}
