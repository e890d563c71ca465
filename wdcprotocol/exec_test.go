package wdcprotocol

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestExecutionContext6502(t *testing.T) {
	got := NewExecutionContext(0x8123, Mode6502).Bytes()

	want := make([]byte, ContextSize)
	want[6], want[7] = 0x23, 0x81
	want[10], want[11] = 0xFF, 0x01
	want[13] = 0x01

	if !bytes.Equal(got, want) {
		t.Errorf("Bytes() = % x, want % x", got, want)
	}
}

func TestExecutionContextNative(t *testing.T) {
	got := NewExecutionContext(0xC000, ModeNative).Bytes()
	if got[13] != 0x00 {
		t.Errorf("mode byte = %#x, want 0", got[13])
	}
	if got[6] != 0x00 || got[7] != 0xC0 {
		t.Errorf("entry bytes = % x, want 00 c0", got[6:8])
	}
}

func TestParseExecutionContext(t *testing.T) {
	raw := []byte{
		0x34, 0x12, // A
		0x01, 0x00, // X
		0x02, 0x00, // Y
		0x00, 0x08, // PC
		0x00, 0x03, // D
		0xFF, 0x01, // S
		0x30,       // P
		0x01,       // E
		0x00,       // PB
		0x7E,       // DB
	}

	regs, err := ParseExecutionContext(raw)
	if err != nil {
		t.Fatalf("ParseExecutionContext() error = %v", err)
	}
	want := ExecutionContext{A: 0x1234, X: 1, Y: 2, PC: 0x0800, D: 0x0300, S: 0x01FF, P: 0x30, Mode: Mode6502, DB: 0x7E}
	if regs != want {
		t.Errorf("got %+v, want %+v", regs, want)
	}
	if !bytes.Equal(regs.Bytes(), raw) {
		t.Errorf("Bytes() = % x, want % x", regs.Bytes(), raw)
	}
}

func TestParseExecutionContextWrongSize(t *testing.T) {
	_, err := ParseExecutionContext(make([]byte, 15))
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Kind != ErrKindInvalidContext {
		t.Fatalf("error = %v, want invalid context ParseError", err)
	}
}

func TestExecutionContextString(t *testing.T) {
	s := NewExecutionContext(0x0800, Mode6502).String()
	want := "A=$0000 X=$0000 Y=$0000 PC=$00:0800 D=$0000 S=$01FF P=$00 E=1 DB=$00 (6502)"
	if s != want {
		t.Errorf("String() = %q, want %q", s, want)
	}
}

func TestExecuteWireSequence(t *testing.T) {
	link := newFakeLink(bytesReply(AckByte, AckByte)...)
	client := newTestClient(t, link)

	if err := client.Execute(context.Background(), 0x8123, Mode6502, ExecSync); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	want := [][]byte{
		{0x55, 0xAA},
		{0x02},
		{0x00, 0x7E, 0x00},
		{0x10, 0x00},
	}
	for _, b := range NewExecutionContext(0x8123, Mode6502).Bytes() {
		want = append(want, []byte{b})
	}
	want = append(want, []byte{0x55, 0xAA}, []byte{0x05})

	assertWrites(t, link, want...)
}

func TestExecuteFlavorsShareWireSequence(t *testing.T) {
	run := func(flavor ExecFlavor) []byte {
		link := newFakeLink(bytesReply(AckByte, AckByte)...)
		client := newTestClient(t, link)
		if err := client.Execute(context.Background(), 0x0400, ModeNative, flavor); err != nil {
			t.Fatalf("Execute(%s) error = %v", flavor, err)
		}
		return link.sent()
	}

	if sync, async := run(ExecSync), run(ExecAsync); !bytes.Equal(sync, async) {
		t.Errorf("sync % x != async % x", sync, async)
	}
}

func TestExecuteUploadFailure(t *testing.T) {
	link := newFakeLink()
	link.writeErr = errors.New("broken pipe")
	client := newTestClient(t, link)

	err := client.Execute(context.Background(), 0x0400, Mode6502, ExecSync)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Execute() error = %v, want *TransportError", err)
	}
}

func TestReadContext(t *testing.T) {
	regs := NewExecutionContext(0x1234, ModeNative)
	link := newFakeLink(script(bytesReply(AckByte), bytesReply(regs.Bytes()...))...)
	client := newTestClient(t, link)

	got, err := client.ReadContext(context.Background())
	if err != nil {
		t.Fatalf("ReadContext() error = %v", err)
	}
	if got != regs {
		t.Errorf("ReadContext() = %+v, want %+v", got, regs)
	}
	assertWrites(t, link,
		[]byte{0x55, 0xAA},
		[]byte{0x03},
		[]byte{0x00, 0x7E, 0x00},
		[]byte{0x10, 0x00},
	)
}

func TestCPUModeString(t *testing.T) {
	if Mode6502.String() != "6502" || ModeNative.String() != "65816" {
		t.Errorf("mode names = %q, %q", Mode6502, ModeNative)
	}
}
