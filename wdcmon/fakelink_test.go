// =============================================================================
// fakelink_test.go - Scripted Serial Link for CLI Tests
// =============================================================================
//
// scriptLink stands in for the board. It hands out queued reply bytes one
// Read at a time and records everything written. Once the script is used
// up it either reports timeouts (silent) or fails, so no test can hang.
//
// =============================================================================

package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sxbtools/wdcmon/wdcprotocol"
)

var errScriptDone = errors.New("script exhausted")

type scriptLink struct {
	replies []byte
	silent  bool
	written bytes.Buffer
	closed  bool
}

func (l *scriptLink) Read(p []byte) (int, error) {
	if len(l.replies) == 0 {
		if l.silent {
			return 0, nil
		}
		return 0, errScriptDone
	}
	p[0] = l.replies[0]
	l.replies = l.replies[1:]
	return 1, nil
}

func (l *scriptLink) Write(p []byte) (int, error) {
	return l.written.Write(p)
}

func (l *scriptLink) Close() error {
	l.closed = true
	return nil
}

// useLink makes openLink return link and records the path it was asked for.
func useLink(t *testing.T, link *scriptLink) *string {
	t.Helper()
	var opened string
	saved := openLink
	openLink = func(path string, cfg wdcprotocol.LinkConfig) (wdcprotocol.Link, error) {
		opened = path
		return link, nil
	}
	t.Cleanup(func() { openLink = saved })
	return &opened
}

// newTestRunner returns a runner on link with all pacing delays disabled.
func newTestRunner(link *scriptLink, out, notes *bytes.Buffer) *runner {
	client := wdcprotocol.New(link,
		wdcprotocol.WithSettleDelay(0),
		wdcprotocol.WithByteDelay(0),
	)
	r := &runner{client: client, out: out, format: wdcprotocol.DefaultHexFormat}
	if notes != nil {
		r.notes = notes
	}
	return r
}

// frame returns the wire bytes of a framed command followed by its
// address and count.
func frame(code wdcprotocol.CommandCode, addr uint32, count int) []byte {
	return []byte{
		0x55, 0xAA, byte(code),
		byte(addr), byte(addr >> 8), byte(addr >> 16),
		byte(count), byte(count >> 8),
	}
}
