// =============================================================================
// lineeditor.go - Line Editor for the Monitor Shell
// =============================================================================
//
// The shell reads commands through a LineEditor that picks its input method
// from the environment:
//
//   - Interactive (stdin is a TTY): ergochat/readline with Emacs keybindings,
//     Ctrl-R search and history persisted in ~/.wdcmon_history.
//   - Non-interactive (piped input, scripts, Emacs comint): bufio.Scanner,
//     with the prompt printed by hand.
//
// Piping a file of monitor commands into "wdcmon -a shell" therefore works
// as a simple batch loader.
//
// =============================================================================

package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"golang.org/x/term"
)

const (
	// historyFileName is the history file in the user's home directory.
	historyFileName = ".wdcmon_history"

	// historySize is the maximum number of history entries to retain.
	historySize = 500
)

// LineEditor reads shell input with or without line editing.
type LineEditor struct {
	// interactive is true when stdin is a terminal.
	interactive bool

	// rl is the readline instance; nil in non-interactive mode.
	rl *readline.Instance

	// scanner and promptOut serve non-interactive mode.
	scanner   *bufio.Scanner
	promptOut io.Writer
}

// NewLineEditor creates a LineEditor for os.Stdin.
//
// GO CONCEPT: TTY Detection
// -------------------------
// golang.org/x/term.IsTerminal checks whether a file descriptor refers to
// a terminal. os.Stdin.Fd() returns a uintptr, so it is converted to int.
// Emacs sets INSIDE_EMACS in its subprocesses and supplies its own line
// editing, so readline is skipped there too.
func NewLineEditor() *LineEditor {
	isInteractive := term.IsTerminal(int(os.Stdin.Fd())) &&
		os.Getenv("INSIDE_EMACS") == ""

	if !isInteractive {
		return newPipedLineEditor(os.Stdin, os.Stdout)
	}

	rl, err := readline.NewFromConfig(&readline.Config{
		HistoryFile:  filepath.Join(homeDir(), historyFileName),
		HistoryLimit: historySize,

		// Only non-empty lines are saved, see getInteractiveLine.
		DisableAutoSaveHistory: true,

		Prompt: "",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: readline init failed (%v), using basic input\n", err)
		return newPipedLineEditor(os.Stdin, os.Stdout)
	}

	return &LineEditor{
		interactive: true,
		rl:          rl,
	}
}

// newPipedLineEditor returns a non-interactive editor reading lines from in
// and printing prompts to out.
func newPipedLineEditor(in io.Reader, out io.Writer) *LineEditor {
	return &LineEditor{
		scanner:   bufio.NewScanner(in),
		promptOut: out,
	}
}

// GetLine reads one line after showing prompt. It returns ("", io.EOF)
// when input ends or the user presses Ctrl-D or Ctrl-C.
func (le *LineEditor) GetLine(prompt string) (string, error) {
	if le.interactive {
		return le.getInteractiveLine(prompt)
	}
	return le.getNonInteractiveLine(prompt)
}

func (le *LineEditor) getInteractiveLine(prompt string) (string, error) {
	le.rl.SetPrompt(prompt)

	line, err := le.rl.Readline()
	if err != nil {
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return "", err
	}

	if trimmed := strings.TrimSpace(line); trimmed != "" {
		le.rl.SaveToHistory(trimmed)
	}
	return line, nil
}

func (le *LineEditor) getNonInteractiveLine(prompt string) (string, error) {
	fmt.Fprint(le.promptOut, prompt)

	if !le.scanner.Scan() {
		if err := le.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return le.scanner.Text(), nil
}

// Close saves history and releases the terminal. It is safe to call more
// than once.
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
