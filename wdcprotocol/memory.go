package wdcprotocol

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// Read streams r.Count bytes of target memory starting at r.Start into dst,
// one byte at a time and in order. dst may be a *HexWriter for a formatted
// dump or any io.Writer for raw bytes; the caller flushes it.
func (c *Client) Read(ctx context.Context, r AddressRange, dst io.Writer) error {
	if err := c.sendCommand(ctx, CmdRead); err != nil {
		return fmt.Errorf("frame read: %w", err)
	}
	if err := c.sendAddressCount(r.Start, r.Count); err != nil {
		return err
	}

	var one [1]byte
	for received := 0; received < r.Count; {
		b, err := c.readByte(ctx)
		if err != nil {
			return fmt.Errorf("read byte %d of %d: %w", received+1, r.Count, err)
		}
		one[0] = b
		if _, err := dst.Write(one[:]); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		received++

		c.reportProgress(Progress{Op: CmdRead, Done: received, Total: r.Count})
	}

	c.logInfo("read complete", "range", r.String(), "bytes", r.Count)
	return nil
}

// ReadBytes reads r into memory.
func (c *Client) ReadBytes(ctx context.Context, r AddressRange) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(r.Count)
	if err := c.Read(ctx, r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores length bytes taken from src at start. Each payload byte is a
// separate Link write, paced by the configured byte delay. A zero length is
// skipped with a warning and touches nothing.
func (c *Client) Write(ctx context.Context, start uint32, src io.Reader, length int) error {
	if length == 0 {
		c.logWarn("zero-length write skipped", "address", fmt.Sprintf("$%06X", start))
		return nil
	}
	if length > MaxCount {
		c.logWarn("write length exceeds count field, stub will see the low 16 bits",
			"length", length,
			"count", length&MaxCount,
		)
	}

	if err := c.sendCommand(ctx, CmdWrite); err != nil {
		return fmt.Errorf("frame write: %w", err)
	}
	if err := c.sendAddressCount(start, length); err != nil {
		return err
	}

	var one [1]byte
	for sent := 0; sent < length; {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := io.ReadFull(src, one[:]); err != nil {
			return fmt.Errorf("source ended after %d of %d bytes: %w", sent, length, err)
		}
		if err := c.write("payload", one[:]); err != nil {
			return fmt.Errorf("write byte %d of %d: %w", sent+1, length, err)
		}
		sent++

		c.reportProgress(Progress{Op: CmdWrite, Done: sent, Total: length})

		if c.config.ByteDelay > 0 {
			time.Sleep(c.config.ByteDelay)
		}
	}

	c.logInfo("write complete", "address", fmt.Sprintf("$%06X", start), "bytes", length)
	return nil
}

// WriteBytes stores data at start.
func (c *Client) WriteBytes(ctx context.Context, start uint32, data []byte) error {
	return c.Write(ctx, start, bytes.NewReader(data), len(data))
}

// Verify reads back len(data) bytes at start and compares them with data.
// The first difference is returned as a *VerifyError.
func (c *Client) Verify(ctx context.Context, start uint32, data []byte) error {
	if len(data) == 0 {
		return nil
	}

	got, err := c.ReadBytes(ctx, AddressRange{Start: start, Count: len(data)})
	if err != nil {
		return fmt.Errorf("read back: %w", err)
	}

	for i := range data {
		if got[i] != data[i] {
			return &VerifyError{
				Address:  start + uint32(i),
				Expected: data[i],
				Actual:   got[i],
			}
		}
	}
	return nil
}
