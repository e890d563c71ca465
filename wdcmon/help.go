// =============================================================================
// help.go - Shell Help Text
// =============================================================================
//
//   - ".help"         lists every shell command
//   - ".help <topic>" shows detailed help for one command
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"strings"
)

// printHelp writes the overview when topic is empty, otherwise the entry
// for topic. Unknown topics are reported on errOut.
func printHelp(out, errOut io.Writer, topic string) {
	if topic == "" {
		fmt.Fprint(out, helpOverview)
		return
	}

	key := strings.TrimPrefix(strings.ToLower(topic), ".")
	if alias, ok := helpAliases[key]; ok {
		key = alias
	}
	if text, ok := shellHelp[key]; ok {
		fmt.Fprintln(out, text)
		return
	}

	fmt.Fprintf(errOut, "Error: No help for '%s'. Type .help to see available commands.\n", topic)
}

const helpOverview = `Monitor Commands:
  m <expr>          Hex dump memory (m 1000-10ff, m 2000,64)
  s <expr> <file>   Save memory to a file
  l <file>@<addr>   Load a file into memory
  g <addr>          Execute in 6502 emulation mode
  gn <addr>         Execute in native 65816 mode
  r                 Show the saved register block
  sync              Resynchronise with the stub

Shell Commands:
  .help [cmd]       Show help (or help for a specific command)
  .quit             Exit the shell
`

// helpAliases maps long command names onto their shellHelp key.
var helpAliases = map[string]string{
	"mem":       "m",
	"memory":    "m",
	"save":      "s",
	"load":      "l",
	"go":        "g",
	"registers": "r",
	"exit":      "quit",
}

// shellHelp holds the detailed help per command.
var shellHelp = map[string]string{
	"m": `  m <expr>
    Hex dump target memory. <expr> is one of:
      1000-10ff   hex start and end, inclusive
      2000,64     hex start and decimal byte count
      42          decimal address, one byte
    Hex values may be written with a $ or 0x prefix.`,

	"s": `  s <expr> <file>
    Read the memory described by <expr> and write the raw bytes to <file>.
    Example: s 8000-ffff rom.bin`,

	"l": `  l <file>@<addr>
    Write the contents of <file> into target memory starting at hex <addr>.
    The last @ separates the file name from the address.
    Example: l prog.bin@0800`,

	"g": `  g <addr>
    Start execution at hex <addr> with the CPU in 6502 emulation mode.
    The stack pointer is reset to $01FF and the register block at $7E00
    is overwritten.`,

	"gn": `  gn <addr>
    Start execution at hex <addr> with the CPU in native 65816 mode.`,

	"r": `  r
    Read the 16-byte register block at $7E00 and show it. After a program
    returns to the stub this holds its final registers.`,

	"sync": `  sync
    Perform the handshake with the stub. Use it after resetting the board.`,

	"help": `  .help [cmd]
    Show the command overview, or detailed help for one command.`,

	"quit": `  .quit
    Leave the shell and close the serial port.`,
}
