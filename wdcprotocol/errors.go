package wdcprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the monitor protocol.
var (
	// ErrSyncExhausted indicates the handshake never got a zero reply.
	ErrSyncExhausted = errors.New("cannot sync")

	// ErrStalled indicates a read made no progress within the stall timeout.
	ErrStalled = errors.New("link stalled")

	// ErrNoPort indicates no board port was found during discovery.
	ErrNoPort = errors.New("no board port found")

	// ErrAmbiguousPort indicates more than one board port was found.
	ErrAmbiguousPort = errors.New("more than one board port found")
)

// ParseError represents a malformed command, address expression or target.
// Every ParseError is raised before the Link is touched.
type ParseError struct {
	Kind    ParseErrorKind
	Value   string // The invalid value that caused the error
	Message string // Additional context
}

// ParseErrorKind categorizes parsing errors.
type ParseErrorKind int

const (
	// ErrKindInvalidCommand indicates an unknown action or shell command.
	ErrKindInvalidCommand ParseErrorKind = iota
	// ErrKindInvalidAddress indicates a malformed or out of range address.
	ErrKindInvalidAddress
	// ErrKindInvalidCount indicates a malformed, zero or oversized count.
	ErrKindInvalidCount
	// ErrKindInvalidRange indicates an end address below the start address.
	ErrKindInvalidRange
	// ErrKindInvalidTarget indicates a write target without name@address form.
	ErrKindInvalidTarget
	// ErrKindInvalidContext indicates a register block of the wrong size.
	ErrKindInvalidContext
	// ErrKindMissingArgument indicates a required argument was not provided.
	ErrKindMissingArgument
)

// Error implements the error interface.
func (e *ParseError) Error() string {
	switch e.Kind {
	case ErrKindInvalidCommand:
		return fmt.Sprintf("invalid command '%s'", e.Value)
	case ErrKindInvalidAddress:
		return fmt.Sprintf("invalid address '%s'", e.Value)
	case ErrKindInvalidCount:
		return fmt.Sprintf("invalid count '%s'", e.Value)
	case ErrKindInvalidRange:
		return fmt.Sprintf("invalid range '%s'", e.Value)
	case ErrKindInvalidTarget:
		return fmt.Sprintf("invalid target '%s' (expected name@address)", e.Value)
	case ErrKindInvalidContext:
		return fmt.Sprintf("invalid register block: %s", e.Message)
	case ErrKindMissingArgument:
		return e.Message
	default:
		return fmt.Sprintf("parse error: %s", e.Value)
	}
}

func newInvalidCommandError(cmd string) error {
	return &ParseError{Kind: ErrKindInvalidCommand, Value: cmd}
}

func newInvalidAddressError(addr string) error {
	return &ParseError{Kind: ErrKindInvalidAddress, Value: addr}
}

func newInvalidCountError(count string) error {
	return &ParseError{Kind: ErrKindInvalidCount, Value: count}
}

func newInvalidRangeError(expr string) error {
	return &ParseError{Kind: ErrKindInvalidRange, Value: expr}
}

func newInvalidTargetError(target string) error {
	return &ParseError{Kind: ErrKindInvalidTarget, Value: target}
}

func newMissingArgumentError(msg string) error {
	return &ParseError{Kind: ErrKindMissingArgument, Message: msg}
}

// IsUsageError reports whether err was caused by bad input rather than by
// the Link or the stub. Usage errors are safe to retry with corrected input.
func IsUsageError(err error) bool {
	var pe *ParseError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, ErrNoPort) || errors.Is(err, ErrAmbiguousPort)
}

// TransportError represents a failed read or write on the Link.
type TransportError struct {
	Op    string
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("link %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// VerifyError indicates read-back data differs from what was written.
type VerifyError struct {
	Address  uint32
	Expected byte
	Actual   byte
}

// Error implements the error interface.
func (e *VerifyError) Error() string {
	return fmt.Sprintf("verify failed at $%06X: wrote 0x%02X, read 0x%02X",
		e.Address, e.Expected, e.Actual)
}
