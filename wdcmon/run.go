// =============================================================================
// run.go - Action Execution
// =============================================================================
//
// runner carries out one parsed wdcprotocol.Command against the board. The
// same runner serves a one-shot invocation and each line of the shell; the
// only difference is that the shell also gets short status notes.
//
// =============================================================================

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sxbtools/wdcmon/wdcprotocol"
	"golang.org/x/term"
)

// runner executes commands through a protocol client.
type runner struct {
	client *wdcprotocol.Client

	// out receives dumps and register listings.
	out io.Writer

	// notes receives status lines ("wrote 256 bytes ..."). Nil keeps
	// one-shot actions quiet.
	notes io.Writer

	// verify reads written data back and compares it.
	verify bool

	// format is the punctuation used for hex dumps.
	format wdcprotocol.HexFormat
}

// run executes cmd.
//
// GO CONCEPT: Switch on a Typed Enum
// ----------------------------------
// Action is an int type with named constants. A switch without a default
// case would silently ignore a new action, so the default returns an error
// and the compiler-visible list stays the single place to extend.
func (r *runner) run(ctx context.Context, cmd wdcprotocol.Command) error {
	switch cmd.Action {
	case wdcprotocol.ActionHexDump:
		return r.hexDump(ctx, cmd.Range)

	case wdcprotocol.ActionReadBinary:
		return r.readBinary(ctx, cmd.Range, cmd.Path)

	case wdcprotocol.ActionWriteBinary:
		return r.writeBinary(ctx, cmd.Target)

	case wdcprotocol.ActionExecute:
		if err := r.client.Execute(ctx, cmd.Entry, cmd.Mode, cmd.Flavor); err != nil {
			return err
		}
		r.note("started at $%04X (%s)", cmd.Entry&0xFFFF, cmd.Mode)
		return nil

	case wdcprotocol.ActionDumpRegisters:
		regs, err := r.client.ReadContext(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.out, regs)
		return err

	case wdcprotocol.ActionSync:
		if err := r.client.Sync(ctx); err != nil {
			return err
		}
		r.note("in sync")
		return nil

	default:
		return fmt.Errorf("unsupported action %v", cmd.Action)
	}
}

func (r *runner) hexDump(ctx context.Context, rng wdcprotocol.AddressRange) error {
	hw := wdcprotocol.NewHexWriter(r.out, rng.Start, r.format)
	err := r.client.Read(ctx, rng, hw)

	// Flush even on failure so the rows already received are shown.
	if ferr := hw.Flush(); err == nil {
		err = ferr
	}
	return err
}

// readBinary copies raw bytes to path, or to out when path is empty.
// Each byte is written as it arrives.
func (r *runner) readBinary(ctx context.Context, rng wdcprotocol.AddressRange, path string) error {
	if path == "" {
		return r.client.Read(ctx, rng, r.out)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.client.Read(ctx, rng, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	r.note("saved %d bytes from $%06X to %s", rng.Count, rng.Start, path)
	return nil
}

func (r *runner) writeBinary(ctx context.Context, target wdcprotocol.Target) error {
	data, err := os.ReadFile(target.Name)
	if err != nil {
		return err
	}

	if err := r.client.WriteBytes(ctx, target.Address, data); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}
	r.note("wrote %d bytes to $%06X", len(data), target.Address)

	if !r.verify {
		return nil
	}
	if err := r.client.Verify(ctx, target.Address, data); err != nil {
		return err
	}
	r.note("verified %d bytes", len(data))
	return nil
}

func (r *runner) note(format string, a ...any) {
	if r.notes == nil {
		return
	}
	fmt.Fprintf(r.notes, format+"\n", a...)
}

// isTerminal reports whether w is a terminal. Binary dumps are refused
// there since they would garble the user's screen.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
