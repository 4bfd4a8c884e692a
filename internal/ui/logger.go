package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Logger provides color-coded, leveled messages for the command line
type Logger struct {
	Verbose bool
	Quiet   bool
	NoColor bool

	out    io.Writer
	colors map[string]*color.Color
}

// NewLogger creates a logger writing to stderr. Color is disabled when
// stderr is not a terminal.
func NewLogger(verbose, quiet, noColor bool) *Logger {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		noColor = true
	}
	return NewLoggerTo(os.Stderr, verbose, quiet, noColor)
}

// NewLoggerTo creates a logger writing to out
func NewLoggerTo(out io.Writer, verbose, quiet, noColor bool) *Logger {
	l := &Logger{
		Verbose: verbose,
		Quiet:   quiet,
		NoColor: noColor,
		out:     out,
		colors: map[string]*color.Color{
			"INFO":    color.New(color.FgBlue),
			"SUCCESS": color.New(color.FgGreen),
			"WARNING": color.New(color.FgYellow),
			"ERROR":   color.New(color.FgRed),
			"DEBUG":   color.New(color.FgCyan),
		},
	}
	for _, c := range l.colors {
		if noColor {
			c.DisableColor()
		} else {
			c.EnableColor()
		}
	}
	return l
}

func (l *Logger) print(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(l.out, l.colors[level].Sprint("["+level+"] "+msg))
}

// Info logs an informational message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.Quiet {
		return
	}
	l.print("INFO", format, args...)
}

// Success logs a success message
func (l *Logger) Success(format string, args ...interface{}) {
	if l.Quiet {
		return
	}
	l.print("SUCCESS", format, args...)
}

// Warning logs a warning message
func (l *Logger) Warning(format string, args ...interface{}) {
	l.print("WARNING", format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...interface{}) {
	l.print("ERROR", format, args...)
}

// Debug logs a debug message (only if verbose is enabled)
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.Verbose {
		return
	}
	l.print("DEBUG", format, args...)
}
