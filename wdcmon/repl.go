// =============================================================================
// repl.go - Interactive Monitor Shell
// =============================================================================
//
// The shell keeps the serial port open and accepts monitor-style commands
// (m, s, l, g, gn, r, sync) one per line. Lines starting with "." are shell
// commands handled locally. A failing command is reported and the shell
// carries on; Ctrl-D, .quit or an interrupt ends it.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sxbtools/wdcmon/wdcprotocol"
)

const shellPrompt = "wdc> "

// runShell reads commands from editor until input ends.
//
// GO CONCEPT: Checking a Context Between Iterations
// -------------------------------------------------
// ctx.Err() is non-nil once the context is cancelled (here by SIGINT).
// Long transfers notice it between bytes; the loop checks it again so an
// interrupted transfer also ends the session.
func runShell(ctx context.Context, r *runner, editor *LineEditor, errOut io.Writer) {
	parser := wdcprotocol.NewCommandParser()

	for {
		if ctx.Err() != nil {
			return
		}

		line, err := editor.GetLine(shellPrompt)
		if err != nil {
			fmt.Fprintln(r.out)
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			if !shellCommand(r.out, errOut, line) {
				return
			}
			continue
		}

		cmd, err := parser.Parse(line)
		if err != nil {
			printError(errOut, err.Error())
			continue
		}

		if err := r.run(ctx, cmd); err != nil {
			printError(errOut, describe(err))
		}
	}
}

// shellCommand handles a dot-command and reports whether the shell should
// keep running.
func shellCommand(out, errOut io.Writer, line string) bool {
	fields := strings.Fields(line)
	switch strings.ToLower(fields[0]) {
	case ".quit", ".exit":
		return false
	case ".help":
		topic := ""
		if len(fields) > 1 {
			topic = fields[1]
		}
		printHelp(out, errOut, topic)
	default:
		printError(errOut, fmt.Sprintf("unknown command %s (type .help)", fields[0]))
	}
	return true
}
