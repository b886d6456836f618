// =============================================================================
// lineeditor.go - Line Editor with Dual-Mode Operation
// =============================================================================
//
// The REPL reads input through LineEditor, which picks an input method
// based on the terminal:
//
//   - Interactive mode: ergochat/readline, with Emacs keybindings, Ctrl-R
//     history search, and history persisted to ~/.ircbottom_history.
//   - Non-interactive mode: bufio.Scanner over stdin (pipes, Emacs comint),
//     with the prompt printed by hand.
//
// =============================================================================

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName lives in the home directory.
	historyFileName = ".ircbottom_history"

	// historySize caps the number of saved lines.
	historySize = 500
)

// LineEditor reads REPL input, with full line editing when stdin is a
// terminal.
type LineEditor struct {
	// interactive is true when stdin is a TTY and we are not inside Emacs.
	interactive bool

	// rl is the readline instance; nil in non-interactive mode.
	rl *readline.Instance

	// scanner reads lines in non-interactive mode; nil otherwise.
	scanner *bufio.Scanner

	// out receives the prompt in non-interactive mode.
	out io.Writer
}

// GO CONCEPT: Constructor Fallbacks
// ---------------------------------
// NewLineEditor never fails. If readline cannot take over the terminal it
// prints a warning and returns a scanner-based editor instead, so the
// caller has a single code path.

// NewLineEditor creates a LineEditor for the process's stdin and stdout.
func NewLineEditor() *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newScannerEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:            filepath.Join(homeDir(), historyFileName),
		HistoryLimit:           historySize,
		DisableAutoSaveHistory: true,
		Prompt:                 "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ircbottom: line editing unavailable (%v); reading plain lines\n", err)
		return newScannerEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
		out:         os.Stdout,
	}
}

// newScannerEditor creates a non-interactive editor reading from in.
func newScannerEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		interactive: false,
		scanner:     bufio.NewScanner(in),
		out:         out,
	}
}

// GetLine shows prompt and reads one line of input.
//
// It returns io.EOF when the user presses Ctrl-D or Ctrl-C, or when piped
// input runs out.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.readTerminal(prompt)
	}
	return le.readPiped(prompt)
}

func (le *LineEditor) readTerminal(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) {
			return "", io.EOF
		}
		return "", err
	}

	// Blank lines are not worth a history slot.
	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) readPiped(prompt string) (string, error) {
	fmt.Fprint(le.out, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close releases the terminal. It is safe to call more than once.
func (le *LineEditor) Close() {
	if le.rl != nil {
		le.rl.Close()
		le.rl = nil
	}
}

// IsInteractive reports whether readline is in use.
func (le *LineEditor) IsInteractive() bool {
	return le.interactive
}

// homeDir returns the user's home directory, or "." if it is unknown.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
