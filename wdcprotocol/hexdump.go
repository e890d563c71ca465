package wdcprotocol

import (
	"fmt"
	"io"
	"strings"
)

// HexFormat controls the punctuation of a hex dump row.
type HexFormat struct {
	// AddressSuffix follows the 6-digit row address
	AddressSuffix string

	// GroupSeparator is inserted after the eighth byte of a row
	GroupSeparator string

	// GutterOpen and GutterClose enclose the text rendering of a row
	GutterOpen  string
	GutterClose string
}

// DefaultHexFormat renders rows like
//
//	001000  48 65 6c 6c 6f 2c 20 77  6f 72 6c 64 21 0a 00 ff  |Hello, world!...|
var DefaultHexFormat = HexFormat{
	AddressSuffix:  " ",
	GroupSeparator: " ",
	GutterOpen:     "  |",
	GutterClose:    "|",
}

// MonitorHexFormat renders rows like the board's own monitor:
//
//	001000: 48 65 6c 6c 6f 2c 20 77 - 6f 72 6c 64 21 0a 00 ff  Hello, world!...
var MonitorHexFormat = HexFormat{
	AddressSuffix:  ":",
	GroupSeparator: " -",
	GutterOpen:     "  ",
	GutterClose:    "",
}

// HexWriter formats a byte stream as hex dump rows of RowSize bytes. Rows
// are numbered from the start address given to NewHexWriter. Call Flush
// after the last byte to emit a short final row.
type HexWriter struct {
	out    io.Writer
	format HexFormat
	addr   uint32
	row    []byte
}

// NewHexWriter returns a HexWriter writing rows to out for a block that
// starts at start.
func NewHexWriter(out io.Writer, start uint32, format HexFormat) *HexWriter {
	return &HexWriter{
		out:    out,
		format: format,
		addr:   start,
		row:    make([]byte, 0, RowSize),
	}
}

// Write implements io.Writer. Complete rows are written through as soon as
// their last byte arrives.
func (h *HexWriter) Write(p []byte) (int, error) {
	for i, b := range p {
		h.row = append(h.row, b)
		if len(h.row) == RowSize {
			if err := h.emit(); err != nil {
				return i, err
			}
		}
	}
	return len(p), nil
}

// Flush writes the pending short row, if any.
func (h *HexWriter) Flush() error {
	if len(h.row) == 0 {
		return nil
	}
	return h.emit()
}

func (h *HexWriter) emit() error {
	_, err := io.WriteString(h.out, FormatHexRow(h.addr, h.row, h.format))
	h.addr += uint32(len(h.row))
	h.row = h.row[:0]
	return err
}

// FormatHexRow renders up to RowSize bytes as one line, newline included.
// Missing columns of a short row are padded so the text gutter lines up with
// full rows.
func FormatHexRow(addr uint32, row []byte, f HexFormat) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%06x%s", addr&MaxAddress, f.AddressSuffix)

	for i := 0; i < RowSize; i++ {
		if i < len(row) {
			fmt.Fprintf(&sb, " %02x", row[i])
		} else {
			sb.WriteString("   ")
		}
		if i == RowSize/2-1 {
			if i < len(row) {
				sb.WriteString(f.GroupSeparator)
			} else {
				sb.WriteString(strings.Repeat(" ", len(f.GroupSeparator)))
			}
		}
	}

	sb.WriteString(f.GutterOpen)
	for _, b := range row {
		sb.WriteByte(printable(b))
	}
	sb.WriteString(f.GutterClose)
	sb.WriteByte('\n')
	return sb.String()
}

// printable returns b if it is a graphic ASCII character or space, '.'
// otherwise.
func printable(b byte) byte {
	if b >= 0x20 && b <= 0x7E {
		return b
	}
	return '.'
}

// HexDump renders data starting at start in one call.
func HexDump(data []byte, start uint32, format HexFormat) string {
	var sb strings.Builder
	h := NewHexWriter(&sb, start, format)
	h.Write(data)
	h.Flush()
	return sb.String()
}
