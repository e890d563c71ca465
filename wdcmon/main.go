// =============================================================================
// main.go - wdcmon Entry Point
// =============================================================================
//
// wdcmon talks to the monitor stub in the ROM of a WDC W65C816SXB or
// W65C02SXB board over its USB serial bridge. Each invocation opens the
// port, performs one action and exits; the "shell" action keeps the port
// open for an interactive monitor session instead.
//
// Usage:
//
//	wdcmon -a hex-dump 1000-10ff              Hex dump of $1000-$10FF
//	wdcmon -a read-binary 8000,256 > rom.bin  Raw bytes to stdout
//	wdcmon -a write-binary prog.bin@0800      Load a file at $0800
//	wdcmon -a execute 0800                    Run it in 6502 mode
//	wdcmon -a list                            List board ports
//	wdcmon -a shell                           Interactive monitor
//
// Exit status is 0 on success, 1 when the board or the port fails and 2 for
// bad input, which is always reported before the port is opened.
//
// =============================================================================

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/sxbtools/wdcmon/wdcprotocol"
)

const (
	// version is the current version of wdcmon.
	version = "0.3.0"

	// appName is the application name.
	appName = "wdcmon"

	// portEnvVar names the environment variable holding the default port.
	portEnvVar = "WDCMON_PORT"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// fullTitle returns the application name with version.
func fullTitle() string {
	return fmt.Sprintf("%s v%s", appName, version)
}

// =============================================================================
// Command-Line Arguments
// =============================================================================

// arguments holds the parsed command line.
type arguments struct {
	// port is the serial device. Empty means $WDCMON_PORT or discovery.
	port string

	// action selects what to do (hex-dump, read-binary, ...).
	action string

	// argument is the single positional argument; its grammar depends on
	// the action.
	argument string

	// baud overrides the link speed.
	baud int

	// style selects hex dump punctuation ("default" or "monitor").
	style string

	// verbose enables debug logging of the protocol exchange.
	verbose bool

	// verify reads written data back and compares it.
	verify bool

	// all lists every serial port, not only board bridges.
	all bool

	showHelp    bool
	showVersion bool
}

// errUsage marks command-line mistakes.
var errUsage = errors.New("usage")

func usageErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, a...))
}

// isUsage reports whether err is the user's mistake rather than the
// board's.
func isUsage(err error) bool {
	return errors.Is(err, errUsage) || wdcprotocol.IsUsageError(err)
}

// parseArguments parses argv (without the program name).
//
// GO CONCEPT: Slices as Queues
// ----------------------------
// "remaining = remaining[1:]" re-slices without copying: the slice header
// moves forward over the same backing array. Consuming arguments from the
// front this way keeps the loop a simple "while there is input".
func parseArguments(argv []string) (arguments, error) {
	args := arguments{
		baud:  wdcprotocol.DefaultBaudRate,
		style: "default",
	}

	remaining := argv
	next := func(flag string) (string, error) {
		if len(remaining) == 0 {
			return "", usageErrorf("%s requires a value", flag)
		}
		v := remaining[0]
		remaining = remaining[1:]
		return v, nil
	}

	for len(remaining) > 0 {
		arg := remaining[0]
		remaining = remaining[1:]

		var err error
		switch arg {
		case "--port", "-p":
			args.port, err = next(arg)

		case "--action", "-a":
			args.action, err = next(arg)

		case "--baud":
			var v string
			if v, err = next(arg); err == nil {
				args.baud, err = strconv.Atoi(v)
				if err != nil || args.baud <= 0 {
					err = usageErrorf("invalid baud rate %q", v)
				}
			}

		case "--style":
			if args.style, err = next(arg); err == nil {
				if _, ok := hexFormats[args.style]; !ok {
					err = usageErrorf("unknown style %q", args.style)
				}
			}

		case "--verbose":
			args.verbose = true

		case "--verify":
			args.verify = true

		case "--all":
			args.all = true

		case "--help", "-h":
			args.showHelp = true

		case "--version", "-v":
			args.showVersion = true

		default:
			if len(arg) > 1 && arg[0] == '-' {
				return args, usageErrorf("unknown argument: %s", arg)
			}
			if args.argument != "" {
				return args, usageErrorf("unexpected argument: %s", arg)
			}
			args.argument = arg
		}

		if err != nil {
			return args, err
		}
	}

	return args, nil
}

// hexFormats maps --style values to dump punctuation.
var hexFormats = map[string]wdcprotocol.HexFormat{
	"default": wdcprotocol.DefaultHexFormat,
	"monitor": wdcprotocol.MonitorHexFormat,
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `USAGE: wdcmon [options] -a <action> [argument]

OPTIONS:
  --port, -p <dev>    Serial device (default: $WDCMON_PORT, else the only board found)
  --action, -a <act>  Action to perform (see below)
  --baud <rate>       Link speed (default: 57600)
  --style <s>         Hex dump style: default or monitor
  --verify            Read back and compare after write-binary
  --all               With list: show every serial port
  --verbose           Log the protocol exchange to stderr
  --help, -h          Show this help
  --version, -v       Show version

ACTIONS:
  hex-dump <expr>               Hex dump of target memory
  read-binary <expr>            Raw memory bytes to stdout
  write-binary <file>@<addr>    Load a file into target memory
  execute <addr>                Run at addr in 6502 mode (alias execute-6502)
  execute-native <addr>         Run at addr in native 65816 mode (alias execute-65816)
  execute-async <addr>          As execute, without waiting
  execute-native-async <addr>   As execute-native, without waiting
  dump-registers                Show the register block at $7E00
  sync                          Handshake with the stub and report
  list                          List serial ports
  shell                         Interactive monitor

ADDRESS EXPRESSIONS:
  1000-100f     hex start and end, inclusive
  2000,10       hex start, decimal count
  42            decimal address, one byte
`)
}

func printError(w io.Writer, message string) {
	fmt.Fprintf(w, "Error: %s\n", message)
}

// newLogger returns the structured logger handed to the protocol client.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// =============================================================================
// Main
// =============================================================================

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	args, err := parseArguments(argv)
	if err != nil {
		printError(stderr, err.Error())
		printUsage(stderr)
		return exitUsage
	}

	if args.showHelp {
		printUsage(stdout)
		return exitOK
	}
	if args.showVersion {
		fmt.Fprintln(stdout, fullTitle())
		return exitOK
	}

	switch args.action {
	case "":
		printError(stderr, "--action is required")
		printUsage(stderr)
		return exitUsage
	case "list":
		return listPorts(stdout, stderr, args.all)
	}

	// Everything below talks to the board. Validate the input first so a
	// typo never costs a round trip to the device.
	var cmd wdcprotocol.Command
	shell := args.action == "shell"
	if !shell {
		cmd, err = wdcprotocol.ParseAction(args.action, args.argument)
		if err == nil {
			err = checkCommand(cmd, stdout)
		}
		if err != nil {
			printError(stderr, err.Error())
			return exitUsage
		}
	}

	logger := newLogger(stderr, args.verbose)
	client, err := connect(args, logger)
	if err != nil {
		printError(stderr, err.Error())
		if isUsage(err) {
			return exitUsage
		}
		return exitFailure
	}
	defer client.Close()

	r := &runner{
		client: client,
		out:    stdout,
		verify: args.verify,
		format: hexFormats[args.style],
	}

	if shell {
		r.notes = stdout
		editor := NewLineEditor()
		defer editor.Close()
		runShell(ctx, r, editor, stderr)
		return exitOK
	}

	if err := r.run(ctx, cmd); err != nil {
		printError(stderr, describe(err))
		if isUsage(err) {
			return exitUsage
		}
		return exitFailure
	}
	return exitOK
}

// checkCommand catches input problems that need the local environment:
// a raw dump to a terminal or a missing source file.
func checkCommand(cmd wdcprotocol.Command, stdout io.Writer) error {
	switch cmd.Action {
	case wdcprotocol.ActionReadBinary:
		if cmd.Path == "" && isTerminal(stdout) {
			return usageErrorf("refusing to write binary data to a terminal; redirect stdout")
		}
	case wdcprotocol.ActionWriteBinary:
		if _, err := os.Stat(cmd.Target.Name); err != nil {
			return usageErrorf("cannot read %s: %v", cmd.Target.Name, err)
		}
	}
	return nil
}

// describe turns protocol failures into the messages users see.
func describe(err error) string {
	switch {
	case errors.Is(err, wdcprotocol.ErrSyncExhausted):
		return "cannot sync with the board (is the stub running?)"
	case errors.Is(err, context.Canceled):
		return "interrupted"
	default:
		return err.Error()
	}
}

func listPorts(stdout, stderr io.Writer, all bool) int {
	ports, err := wdcprotocol.DiscoverPorts(all)
	if err != nil {
		printError(stderr, err.Error())
		return exitFailure
	}
	for _, p := range ports {
		fmt.Fprintln(stdout, p.Name)
	}
	return exitOK
}
