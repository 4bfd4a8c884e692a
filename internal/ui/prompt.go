package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a prompt needs a terminal and stdin is not one
var ErrNotInteractive = errors.New("confirmation needed but stdin is not a terminal (use --yes)")

// PromptConfirm prompts for yes/no confirmation on the terminal
func PromptConfirm(prompt string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, ErrNotInteractive
	}
	return Confirm(os.Stdin, os.Stderr, prompt), nil
}

// Confirm writes prompt to w and reads a yes/no answer from r. Anything but
// y or yes is a no.
func Confirm(r io.Reader, w io.Writer, prompt string) bool {
	fmt.Fprintf(w, "%s [y/N]: ", prompt)
	reader := bufio.NewReader(r)
	input, _ := reader.ReadString('\n')
	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}
