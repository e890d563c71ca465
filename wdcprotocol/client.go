package wdcprotocol

import (
	"context"
	"fmt"
	"time"
)

// Client drives the monitor stub over a Link.
//
// A Client owns its Link for the duration of one invocation. It is not safe
// for concurrent use: every exchange is strictly sequential on the wire and
// interleaving two of them desynchronizes the stub.
type Client struct {
	link   Link
	config Config
}

// New creates a Client on an open Link.
//
// Example:
//
//	link, _ := wdcprotocol.OpenSerial("/dev/ttyUSB0", wdcprotocol.DefaultLinkConfig())
//	client := wdcprotocol.New(link,
//	    wdcprotocol.WithLogger(slog.Default()),
//	    wdcprotocol.WithStallTimeout(5*time.Second),
//	)
//	defer client.Close()
func New(link Link, opts ...Option) *Client {
	if link == nil {
		panic("link cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Client{
		link:   link,
		config: cfg,
	}
}

// Close releases the Link.
func (c *Client) Close() error {
	return c.link.Close()
}

// Sync brings host and stub into byte alignment. It writes a zero probe and
// waits for a zero reply, retrying on silence up to the configured number of
// attempts. Stray non-zero replies are logged and retried without counting
// against that budget unless a stray limit is configured.
func (c *Client) Sync(ctx context.Context) error {
	silent, strays := 0, 0
	var buf [1]byte

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := c.write("sync probe", []byte{SyncByte}); err != nil {
			return err
		}

		n, err := c.link.Read(buf[:])
		if err != nil {
			return &TransportError{Op: "read sync reply", Cause: err}
		}

		switch {
		case n == 0:
			silent++
			c.logDebug("no sync reply", "attempt", silent)
			if silent >= c.config.SyncAttempts {
				return ErrSyncExhausted
			}
		case buf[0] != SyncByte:
			strays++
			c.logWarn("stray byte during sync", "byte", fmt.Sprintf("0x%02X", buf[0]))
			if c.config.StrayLimit > 0 && strays >= c.config.StrayLimit {
				return ErrSyncExhausted
			}
		default:
			return nil
		}
	}
}

// sendCommand frames one command byte. A bad ack triggers a handshake and a
// fresh framing attempt; only the handshake's own budget bounds the retries.
func (c *Client) sendCommand(ctx context.Context, code CommandCode) error {
	for {
		if c.config.ResyncBeforeFrame {
			if err := c.Sync(ctx); err != nil {
				return err
			}
		}

		if err := c.write("frame start", []byte{FrameStartLow, FrameStartHigh}); err != nil {
			return err
		}

		ack, err := c.readByte(ctx)
		if err != nil {
			return err
		}

		if ack != AckByte {
			c.logWarn("bad frame ack, resyncing",
				"command", code.String(),
				"ack", fmt.Sprintf("0x%02X", ack),
			)
			if err := c.Sync(ctx); err != nil {
				return err
			}
			continue
		}

		if err := c.write("command", []byte{byte(code)}); err != nil {
			return err
		}
		c.logDebug("frame sent", "command", code.String())
		c.settle()
		return nil
	}
}

// encodeAddress packs a 24-bit address little-endian. Higher bits are
// dropped.
func encodeAddress(addr uint32) []byte {
	return []byte{byte(addr), byte(addr >> 8), byte(addr >> 16)}
}

// encodeCount packs a 16-bit count little-endian. Higher bits are dropped.
func encodeCount(count int) []byte {
	return []byte{byte(count), byte(count >> 8)}
}

// sendAddressCount writes the address then the count, each in one write.
func (c *Client) sendAddressCount(addr uint32, count int) error {
	if err := c.write("address", encodeAddress(addr)); err != nil {
		return err
	}
	if err := c.write("count", encodeCount(count)); err != nil {
		return err
	}
	c.settle()
	return nil
}

// readByte reads exactly one byte. Reads returning nothing are retried; with
// a stall timeout configured they fail once the link has been idle too long.
func (c *Client) readByte(ctx context.Context) (byte, error) {
	var buf [1]byte
	var idleSince time.Time

	for {
		n, err := c.link.Read(buf[:])
		if err != nil {
			return 0, &TransportError{Op: "read", Cause: err}
		}
		if n == 1 {
			return buf[0], nil
		}

		if err := ctx.Err(); err != nil {
			return 0, err
		}

		if c.config.StallTimeout > 0 {
			if idleSince.IsZero() {
				idleSince = time.Now()
			} else if time.Since(idleSince) > c.config.StallTimeout {
				return 0, &TransportError{Op: "read", Cause: ErrStalled}
			}
		}
	}
}

// write sends p as a single Link write.
func (c *Client) write(what string, p []byte) error {
	n, err := c.link.Write(p)
	if err != nil {
		return &TransportError{Op: "write " + what, Cause: err}
	}
	if n != len(p) {
		return &TransportError{
			Op:    "write " + what,
			Cause: fmt.Errorf("short write: %d of %d bytes", n, len(p)),
		}
	}
	return nil
}

// settle waits for the stub to dispatch what it was just sent.
func (c *Client) settle() {
	if c.config.SettleDelay > 0 {
		time.Sleep(c.config.SettleDelay)
	}
}

// reportProgress calls the progress callback if configured.
func (c *Client) reportProgress(p Progress) {
	if c.config.ProgressCallback != nil {
		c.config.ProgressCallback(p)
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Client) logDebug(msg string, keysAndValues ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Client) logInfo(msg string, keysAndValues ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}

// logWarn logs a warning if a logger is configured.
func (c *Client) logWarn(msg string, keysAndValues ...any) {
	if c.config.Logger != nil {
		c.config.Logger.Warn(msg, keysAndValues...)
	}
}
