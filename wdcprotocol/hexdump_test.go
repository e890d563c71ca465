package wdcprotocol

import (
	"fmt"
	"strings"
	"testing"
)

func TestFormatHexRowFull(t *testing.T) {
	row := []byte("0123456789ABCDEF")
	got := FormatHexRow(0x00ABCD, row, DefaultHexFormat)
	want := "00abcd  30 31 32 33 34 35 36 37  38 39 41 42 43 44 45 46  |0123456789ABCDEF|\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestFormatHexRowShortKeepsAlignment(t *testing.T) {
	full := FormatHexRow(0x1000, make([]byte, RowSize), DefaultHexFormat)

	tests := []struct {
		name string
		row  []byte
		want string
	}{
		{
			name: "three bytes",
			row:  []byte{0x41, 0x00, 0x7F},
			want: "001010  41 00 7f" + strings.Repeat(" ", 5*3+1+8*3) + "  |A..|\n",
		},
		{
			name: "nine bytes",
			row:  []byte("ABCDEFGHI"),
			want: "001010  41 42 43 44 45 46 47 48  49" + strings.Repeat(" ", 7*3) + "  |ABCDEFGHI|\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatHexRow(0x1010, tt.row, DefaultHexFormat)
			if got != tt.want {
				t.Errorf("got  %q\nwant %q", got, tt.want)
			}
			if strings.Index(got, "|") != strings.Index(full, "|") {
				t.Errorf("gutter at %d, full row gutter at %d", strings.Index(got, "|"), strings.Index(full, "|"))
			}
		})
	}
}

func TestFormatHexRowMonitorStyle(t *testing.T) {
	got := FormatHexRow(0x0200, []byte("Hi there, 65816!"), MonitorHexFormat)
	want := "000200: 48 69 20 74 68 65 72 65 - 2c 20 36 35 38 31 36 21  Hi there, 65816!\n"
	if got != want {
		t.Errorf("got  %q\nwant %q", got, want)
	}
}

func TestPrintable(t *testing.T) {
	tests := []struct {
		in   byte
		want byte
	}{
		{' ', ' '},
		{'~', '~'},
		{'a', 'a'},
		{0x1F, '.'},
		{0x7F, '.'},
		{0x80, '.'},
		{0xC1, '.'},
	}
	for _, tt := range tests {
		if got := printable(tt.in); got != tt.want {
			t.Errorf("printable(%#x) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// For any length N and start S the dump has ceil(N/16) rows, row i starts
// with the address S+16i and its gutter holds min(16, N-16i) characters.
func TestHexDumpRowProperties(t *testing.T) {
	const gutterStart = 6 + 1 + RowSize*3 + 1 + 3 // address, suffix, bytes, group gap, "  |"

	for _, start := range []uint32{0, 0x1000, 0x00FFF8, 0x7E00} {
		for n := 0; n <= 50; n++ {
			data := make([]byte, n)
			for i := range data {
				data[i] = byte(0x20 + i*7%0x60)
			}

			out := HexDump(data, start, DefaultHexFormat)
			var lines []string
			if out != "" {
				lines = strings.Split(strings.TrimSuffix(out, "\n"), "\n")
			}

			rows := (n + RowSize - 1) / RowSize
			if len(lines) != rows {
				t.Fatalf("start %#x n %d: %d rows, want %d", start, n, len(lines), rows)
			}

			for i, line := range lines {
				prefix := fmt.Sprintf("%06x", start+uint32(RowSize*i))
				if !strings.HasPrefix(line, prefix) {
					t.Errorf("start %#x n %d row %d: %q lacks prefix %q", start, n, i, line, prefix)
				}

				gutter := line[gutterStart : len(line)-1]
				wantLen := n - RowSize*i
				if wantLen > RowSize {
					wantLen = RowSize
				}
				if len(gutter) != wantLen {
					t.Errorf("start %#x n %d row %d: gutter %q has %d chars, want %d", start, n, i, gutter, len(gutter), wantLen)
				}
				for j := 0; j < len(gutter); j++ {
					if gutter[j] != printable(data[RowSize*i+j]) {
						t.Errorf("row %d col %d: %q, want %q", i, j, gutter[j], printable(data[RowSize*i+j]))
					}
				}
			}
		}
	}
}

func TestHexWriterStreamsByteByByte(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog")

	var sb strings.Builder
	hw := NewHexWriter(&sb, 0x2000, DefaultHexFormat)
	for i := range data {
		if _, err := hw.Write(data[i : i+1]); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}

	if n := strings.Count(sb.String(), "\n"); n != 2 {
		t.Errorf("before Flush: %d rows written, want 2", n)
	}
	if err := hw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if got, want := sb.String(), HexDump(data, 0x2000, DefaultHexFormat); got != want {
		t.Errorf("streamed dump differs:\n%s\nwant\n%s", got, want)
	}
}

func TestHexWriterFlushEmpty(t *testing.T) {
	var sb strings.Builder
	hw := NewHexWriter(&sb, 0, DefaultHexFormat)
	if err := hw.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if sb.Len() != 0 {
		t.Errorf("Flush() on empty writer wrote %q", sb.String())
	}
}
