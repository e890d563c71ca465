package wdcprotocol

import (
	"context"
	"encoding/binary"
	"fmt"
)

// CPUMode selects the processor mode the stub resumes in. The value is the
// emulation flag stored in the register block.
type CPUMode byte

const (
	// ModeNative resumes a 65816 in native mode.
	ModeNative CPUMode = 0
	// Mode6502 resumes in 6502 emulation mode.
	Mode6502 CPUMode = 1
)

// String returns the CPU name for the mode.
func (m CPUMode) String() string {
	switch m {
	case ModeNative:
		return "65816"
	case Mode6502:
		return "6502"
	default:
		return fmt.Sprintf("mode(%d)", byte(m))
	}
}

// ExecFlavor is how the caller wants to wait for the remote program.
//
// Both flavors currently put the same bytes on the wire; the stub sends no
// completion acknowledgement to wait for.
type ExecFlavor int

const (
	// ExecSync is a request to wait for the remote program.
	ExecSync ExecFlavor = iota
	// ExecAsync is a request to return as soon as the program is started.
	ExecAsync
)

// String returns the flavor name.
func (f ExecFlavor) String() string {
	if f == ExecAsync {
		return "async"
	}
	return "sync"
}

// ExecutionContext is the 16-byte register block the stub loads before it
// resumes the CPU.
//
//	offset  field
//	0-1     A (B:A)
//	2-3     X
//	4-5     Y
//	6-7     PC
//	8-9     D (direct page)
//	10-11   S
//	12      P
//	13      E (1 = 6502 emulation)
//	14      PB (program bank)
//	15      DB (data bank)
type ExecutionContext struct {
	A, X, Y uint16
	PC      uint16
	D       uint16
	S       uint16
	P       byte
	Mode    CPUMode
	PB      byte
	DB      byte
}

// NewExecutionContext returns a fresh register block for entry. Everything
// other than PC, S and the mode is zero.
func NewExecutionContext(entry uint16, mode CPUMode) ExecutionContext {
	return ExecutionContext{
		PC:   entry,
		S:    InitialStackPointer,
		Mode: mode,
	}
}

// Bytes encodes the register block in wire order.
func (e ExecutionContext) Bytes() []byte {
	b := make([]byte, ContextSize)
	binary.LittleEndian.PutUint16(b[0:], e.A)
	binary.LittleEndian.PutUint16(b[2:], e.X)
	binary.LittleEndian.PutUint16(b[4:], e.Y)
	binary.LittleEndian.PutUint16(b[6:], e.PC)
	binary.LittleEndian.PutUint16(b[8:], e.D)
	binary.LittleEndian.PutUint16(b[10:], e.S)
	b[12] = e.P
	b[13] = byte(e.Mode)
	b[14] = e.PB
	b[15] = e.DB
	return b
}

// ParseExecutionContext decodes a register block read from the stub.
func ParseExecutionContext(b []byte) (ExecutionContext, error) {
	if len(b) != ContextSize {
		return ExecutionContext{}, &ParseError{
			Kind:    ErrKindInvalidContext,
			Message: fmt.Sprintf("need %d bytes, got %d", ContextSize, len(b)),
		}
	}
	return ExecutionContext{
		A:    binary.LittleEndian.Uint16(b[0:]),
		X:    binary.LittleEndian.Uint16(b[2:]),
		Y:    binary.LittleEndian.Uint16(b[4:]),
		PC:   binary.LittleEndian.Uint16(b[6:]),
		D:    binary.LittleEndian.Uint16(b[8:]),
		S:    binary.LittleEndian.Uint16(b[10:]),
		P:    b[12],
		Mode: CPUMode(b[13]),
		PB:   b[14],
		DB:   b[15],
	}, nil
}

// String formats the registers on one line.
func (e ExecutionContext) String() string {
	return fmt.Sprintf("A=$%04X X=$%04X Y=$%04X PC=$%02X:%04X D=$%04X S=$%04X P=$%02X E=%d DB=$%02X (%s)",
		e.A, e.X, e.Y, e.PB, e.PC, e.D, e.S, e.P, byte(e.Mode), e.DB, e.Mode)
}

// Execute uploads a fresh register block for entry to ContextAddress and
// tells the stub to resume from it. Only the low 16 bits of entry are used;
// the program bank is always zero.
func (c *Client) Execute(ctx context.Context, entry uint32, mode CPUMode, flavor ExecFlavor) error {
	regs := NewExecutionContext(uint16(entry), mode)

	if err := c.WriteBytes(ctx, ContextAddress, regs.Bytes()); err != nil {
		return fmt.Errorf("upload registers: %w", err)
	}

	if err := c.sendCommand(ctx, CmdExecute); err != nil {
		return fmt.Errorf("frame execute: %w", err)
	}

	c.logInfo("execute started",
		"entry", fmt.Sprintf("$%04X", regs.PC),
		"cpu", mode.String(),
		"flavor", flavor.String(),
	)
	return nil
}

// ReadContext reads the register block currently stored at ContextAddress.
func (c *Client) ReadContext(ctx context.Context) (ExecutionContext, error) {
	b, err := c.ReadBytes(ctx, AddressRange{Start: ContextAddress, Count: ContextSize})
	if err != nil {
		return ExecutionContext{}, err
	}
	return ParseExecutionContext(b)
}
