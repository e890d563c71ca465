package wdcprotocol

import "time"

// Logger is the logging surface used by Client. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Warn(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}

// Progress reports how far a payload transfer has come.
type Progress struct {
	Op    CommandCode
	Done  int
	Total int
}

// ProgressCallback is called after every payload byte.
type ProgressCallback func(Progress)

// Config holds the client configuration.
type Config struct {
	// Logger is used for protocol diagnostics (optional)
	Logger Logger

	// ProgressCallback is called during payload transfers (optional)
	ProgressCallback ProgressCallback

	// SettleDelay is the pause after a frame and after address/count
	SettleDelay time.Duration

	// ByteDelay is the pause between payload bytes on write
	ByteDelay time.Duration

	// SyncAttempts is the number of silent probes before ErrSyncExhausted
	SyncAttempts int

	// StrayLimit bounds non-zero handshake replies. Zero keeps the stub's
	// historical behavior of retrying forever.
	StrayLimit int

	// StallTimeout bounds how long a frame ack or payload read may return
	// nothing. Zero waits forever.
	StallTimeout time.Duration

	// ResyncBeforeFrame runs the handshake before every frame start
	ResyncBeforeFrame bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		SettleDelay:  DefaultSettleDelay,
		ByteDelay:    DefaultByteDelay,
		SyncAttempts: DefaultSyncAttempts,
	}
}

// Option is a functional option for configuring the Client.
type Option func(*Config)

// WithLogger sets a logger for protocol diagnostics.
//
// Example:
//
//	client := wdcprotocol.New(link, wdcprotocol.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithProgressCallback sets a callback to track payload transfers.
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithSettleDelay sets the pause after a frame and after address/count.
func WithSettleDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.SettleDelay = d
		}
	}
}

// WithByteDelay sets the pause between payload bytes on write.
func WithByteDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ByteDelay = d
		}
	}
}

// WithSyncAttempts sets how many silent probes the handshake tolerates.
func WithSyncAttempts(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SyncAttempts = n
		}
	}
}

// WithStrayLimit makes the handshake give up after n non-zero replies.
func WithStrayLimit(n int) Option {
	return func(c *Config) {
		if n >= 0 {
			c.StrayLimit = n
		}
	}
}

// WithStallTimeout fails ack and payload reads that return nothing for
// longer than d.
//
// Example:
//
//	client := wdcprotocol.New(link, wdcprotocol.WithStallTimeout(5*time.Second))
func WithStallTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.StallTimeout = d
		}
	}
}

// WithResyncBeforeFrame runs the handshake before every frame start.
func WithResyncBeforeFrame(resync bool) Option {
	return func(c *Config) {
		c.ResyncBeforeFrame = resync
	}
}
