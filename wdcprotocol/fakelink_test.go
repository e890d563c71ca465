package wdcprotocol

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

// errScriptDone is returned once the fake stub has no more replies queued.
var errScriptDone = errors.New("fake link: reply script exhausted")

// reply is one scripted Read result.
type reply struct {
	b       byte
	timeout bool
	err     error
}

// fakeLink is a scripted stand-in for the serial device. Reads are served
// from a queue regardless of what was written; every Write call is recorded
// as its own slice so tests can check how bytes were grouped.
type fakeLink struct {
	mu       sync.Mutex
	replies  []reply
	reads    int
	writes   [][]byte
	writeErr error
	closed   bool
}

func newFakeLink(replies ...reply) *fakeLink {
	return &fakeLink{replies: replies}
}

func (f *fakeLink) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.replies) == 0 {
		return 0, errScriptDone
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	f.reads++

	switch {
	case r.err != nil:
		return 0, r.err
	case r.timeout:
		return 0, nil
	default:
		p[0] = r.b
		return 1, nil
	}
}

func (f *fakeLink) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), p...))
	return len(p), nil
}

func (f *fakeLink) Close() error {
	f.closed = true
	return nil
}

// pending returns how many scripted replies were never read.
func (f *fakeLink) pending() int {
	return len(f.replies)
}

// sent returns every byte written, in order.
func (f *fakeLink) sent() []byte {
	return bytes.Join(f.writes, nil)
}

// bytesReply scripts one reply per byte.
func bytesReply(bs ...byte) []reply {
	out := make([]reply, len(bs))
	for i, b := range bs {
		out[i] = reply{b: b}
	}
	return out
}

// silence scripts n timed-out reads.
func silence(n int) []reply {
	out := make([]reply, n)
	for i := range out {
		out[i] = reply{timeout: true}
	}
	return out
}

// script concatenates reply groups.
func script(groups ...[]reply) []reply {
	var out []reply
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// newTestClient returns a client with all pacing delays disabled.
func newTestClient(t *testing.T, link Link, opts ...Option) *Client {
	t.Helper()
	base := []Option{WithSettleDelay(0), WithByteDelay(0)}
	return New(link, append(base, opts...)...)
}

// logEntry is one message captured by recordingLogger.
type logEntry struct {
	level string
	msg   string
}

// recordingLogger captures log calls for assertions.
type recordingLogger struct {
	entries []logEntry
}

func (l *recordingLogger) record(level, msg string, kv ...any) {
	l.entries = append(l.entries, logEntry{level: level, msg: msg})
}

func (l *recordingLogger) Debug(msg string, kv ...any) { l.record("debug", msg, kv...) }
func (l *recordingLogger) Info(msg string, kv ...any)  { l.record("info", msg, kv...) }
func (l *recordingLogger) Warn(msg string, kv ...any)  { l.record("warn", msg, kv...) }
func (l *recordingLogger) Error(msg string, kv ...any) { l.record("error", msg, kv...) }

func (l *recordingLogger) count(level string) int {
	n := 0
	for _, e := range l.entries {
		if e.level == level {
			n++
		}
	}
	return n
}

// assertWrites compares the recorded write calls with want.
func assertWrites(t *testing.T, link *fakeLink, want ...[]byte) {
	t.Helper()
	if len(link.writes) != len(want) {
		t.Fatalf("got %d writes % x, want %d writes % x", len(link.writes), link.writes, len(want), want)
	}
	for i := range want {
		if !bytes.Equal(link.writes[i], want[i]) {
			t.Errorf("write %d = % x, want % x", i, link.writes[i], want[i])
		}
	}
}
