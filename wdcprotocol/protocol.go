// Package wdcprotocol implements the binary monitor protocol spoken by the
// W65C816SXB / W65C02SXB board stub over its USB serial bridge.
//
// Protocol Format:
//
//	Handshake probe:   00            -> 00
//	Frame start:       55 AA         -> CC
//	Frame command:     02 (write) | 03 (read) | 05 (execute)
//	Address:           3 bytes, little-endian
//	Count:             2 bytes, little-endian (read and write only)
//	Payload:           count bytes, one byte per transfer
//
// Example Session (read 4 bytes at $001000):
//
//	HOST: 55 AA        STUB: CC
//	HOST: 03
//	HOST: 00 10 00
//	HOST: 04 00        STUB: A9 00 8D 00
package wdcprotocol

import (
	"fmt"
	"time"
)

// Wire constants.
const (
	// SyncByte is the handshake probe and its expected reply.
	SyncByte byte = 0x00

	// FrameStartLow and FrameStartHigh open every command frame.
	FrameStartLow  byte = 0x55
	FrameStartHigh byte = 0xAA

	// AckByte is the stub's reply to a valid frame start.
	AckByte byte = 0xCC

	// MaxAddress is the highest 24-bit address.
	MaxAddress = 0xFFFFFF

	// MaxCount is the largest count the 16-bit count field can carry.
	MaxCount = 0xFFFF

	// RowSize is the number of bytes per hex dump row.
	RowSize = 16
)

// Execution context constants.
const (
	// ContextAddress is where the stub expects the register block before
	// an execute command.
	ContextAddress = 0x7E00

	// ContextSize is the size of the register block in bytes.
	ContextSize = 16

	// InitialStackPointer is loaded into S on every execute.
	InitialStackPointer = 0x01FF
)

// Board identification for port discovery (FTDI FT232R bridge).
const (
	BoardVID = "0403"
	BoardPID = "6001"
)

// Link defaults.
const (
	// DefaultBaudRate matches the stub's fixed UART speed.
	DefaultBaudRate = 57600

	// DefaultReadTimeout bounds a single Link read. The handshake relies on
	// it to detect a silent stub.
	DefaultReadTimeout = 100 * time.Millisecond

	// DefaultSettleDelay is the pause after a frame and after address/count.
	DefaultSettleDelay = 10 * time.Millisecond

	// DefaultByteDelay is the pause between payload bytes on write.
	DefaultByteDelay = 1 * time.Millisecond

	// DefaultSyncAttempts is how many silent probes the handshake tolerates.
	DefaultSyncAttempts = 5
)

// CommandCode identifies a remote operation.
type CommandCode byte

const (
	// CmdWrite stores a payload in target memory.
	CmdWrite CommandCode = 2
	// CmdRead streams target memory back to the host.
	CmdRead CommandCode = 3
	// CmdExecute resumes the target CPU from the register block.
	CmdExecute CommandCode = 5
)

// String returns the operation name.
func (c CommandCode) String() string {
	switch c {
	case CmdWrite:
		return "write"
	case CmdRead:
		return "read"
	case CmdExecute:
		return "execute"
	default:
		return fmt.Sprintf("command(%d)", byte(c))
	}
}

// AddressRange is a block of target memory.
type AddressRange struct {
	Start uint32
	Count int
}

// End returns the last address in the range.
func (r AddressRange) End() uint32 {
	return r.Start + uint32(r.Count) - 1
}

// String formats the range the way it is accepted on the command line.
func (r AddressRange) String() string {
	return fmt.Sprintf("%06x-%06x", r.Start, r.End())
}

// Target names a byte source and the address it is loaded to.
type Target struct {
	Name    string
	Address uint32
}

// String formats the target as name@address.
func (t Target) String() string {
	return fmt.Sprintf("%s@%x", t.Name, t.Address)
}
