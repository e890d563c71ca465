package wdcprotocol

import (
	"strings"
)

// Action identifies what a Command does against the stub.
type Action int

const (
	// ActionHexDump reads a range and formats it as hex dump rows.
	ActionHexDump Action = iota
	// ActionReadBinary reads a range as raw bytes.
	ActionReadBinary
	// ActionWriteBinary writes a named byte source to an address.
	ActionWriteBinary
	// ActionExecute uploads a register block and resumes the CPU.
	ActionExecute
	// ActionDumpRegisters reads the register block back.
	ActionDumpRegisters
	// ActionSync runs the handshake on its own.
	ActionSync
)

// String returns the action name as accepted by ParseAction.
func (a Action) String() string {
	switch a {
	case ActionHexDump:
		return "hex-dump"
	case ActionReadBinary:
		return "read-binary"
	case ActionWriteBinary:
		return "write-binary"
	case ActionExecute:
		return "execute"
	case ActionDumpRegisters:
		return "dump-registers"
	case ActionSync:
		return "sync"
	default:
		return "unknown"
	}
}

// Command is a parsed request. Only the fields relevant to Action are set.
type Command struct {
	Action Action

	Range  AddressRange // For hex-dump, read-binary
	Target Target       // For write-binary
	Entry  uint32       // For execute
	Mode   CPUMode      // For execute
	Flavor ExecFlavor   // For execute
	Path   string       // Output file for read-binary in the shell
}

// NewHexDumpCommand creates a hex dump command.
func NewHexDumpCommand(r AddressRange) Command {
	return Command{Action: ActionHexDump, Range: r}
}

// NewReadBinaryCommand creates a raw read command. An empty path means the
// caller's default sink.
func NewReadBinaryCommand(r AddressRange, path string) Command {
	return Command{Action: ActionReadBinary, Range: r, Path: path}
}

// NewWriteBinaryCommand creates a write command.
func NewWriteBinaryCommand(t Target) Command {
	return Command{Action: ActionWriteBinary, Target: t}
}

// NewExecuteCommand creates an execute command.
func NewExecuteCommand(entry uint32, mode CPUMode, flavor ExecFlavor) Command {
	return Command{Action: ActionExecute, Entry: entry, Mode: mode, Flavor: flavor}
}

// NewDumpRegistersCommand creates a register dump command.
func NewDumpRegistersCommand() Command {
	return Command{Action: ActionDumpRegisters}
}

// NewSyncCommand creates a handshake command.
func NewSyncCommand() Command {
	return Command{Action: ActionSync}
}

// executeVariants maps execute action names to mode and flavor.
var executeVariants = map[string]struct {
	mode   CPUMode
	flavor ExecFlavor
}{
	"execute":              {Mode6502, ExecSync},
	"execute-6502":         {Mode6502, ExecSync},
	"execute-async":        {Mode6502, ExecAsync},
	"execute-6502-async":   {Mode6502, ExecAsync},
	"execute-native":       {ModeNative, ExecSync},
	"execute-65816":        {ModeNative, ExecSync},
	"execute-native-async": {ModeNative, ExecAsync},
	"execute-65816-async":  {ModeNative, ExecAsync},
}

// ParseAction builds a Command from an action name and its single argument,
// whose grammar depends on the action.
func ParseAction(action, arg string) (Command, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return Command{}, newMissingArgumentError("action required")
	}

	if v, ok := executeVariants[action]; ok {
		entry, err := ParseEntry(arg)
		if err != nil {
			return Command{}, err
		}
		return NewExecuteCommand(entry, v.mode, v.flavor), nil
	}

	switch action {
	case "hex-dump", "hexdump":
		r, err := ParseRange(arg)
		if err != nil {
			return Command{}, err
		}
		return NewHexDumpCommand(r), nil

	case "read-binary":
		r, err := ParseRange(arg)
		if err != nil {
			return Command{}, err
		}
		return NewReadBinaryCommand(r, ""), nil

	case "write-binary":
		t, err := ParseTarget(arg)
		if err != nil {
			return Command{}, err
		}
		return NewWriteBinaryCommand(t), nil

	case "dump-registers":
		return NewDumpRegistersCommand(), nil

	case "sync":
		return NewSyncCommand(), nil

	default:
		return Command{}, newInvalidCommandError(action)
	}
}

// CommandParser parses interactive monitor lines.
//
//	m <expr>          hex dump
//	s <expr> <file>   save raw bytes to file
//	l <file>@<addr>   load file
//	g <addr>          run in 6502 mode
//	gn <addr>         run in native 65816 mode
//	r                 show register block
//	sync              handshake
type CommandParser struct{}

// NewCommandParser creates a new command parser.
func NewCommandParser() *CommandParser {
	return &CommandParser{}
}

// Parse parses one monitor line into a Command.
func (p *CommandParser) Parse(line string) (Command, error) {
	parts := strings.SplitN(strings.TrimSpace(line), " ", 2)
	if len(parts) == 0 || parts[0] == "" {
		return Command{}, newInvalidCommandError("")
	}

	keyword := strings.ToLower(parts[0])
	args := ""
	if len(parts) > 1 {
		args = strings.TrimSpace(parts[1])
	}

	switch keyword {
	case "m", "mem", "memory":
		return ParseAction("hex-dump", args)

	case "s", "save":
		return p.parseSave(args)

	case "l", "load":
		return ParseAction("write-binary", args)

	case "g", "go":
		return ParseAction("execute-6502", args)

	case "gn":
		return ParseAction("execute-native", args)

	case "r", "registers":
		return NewDumpRegistersCommand(), nil

	case "sync":
		return NewSyncCommand(), nil

	default:
		return Command{}, newInvalidCommandError(keyword)
	}
}

func (p *CommandParser) parseSave(args string) (Command, error) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		return Command{}, newMissingArgumentError("save requires an address expression and a file name")
	}
	r, err := ParseRange(fields[0])
	if err != nil {
		return Command{}, err
	}
	return NewReadBinaryCommand(r, fields[1]), nil
}
