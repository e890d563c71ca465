package wdcprotocol

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

// Link is the duplex byte channel to the stub.
//
// Read must return (0, nil) when its bounded timeout expires without data;
// the handshake counts those as silent probes. Any non-nil error is treated
// as a transport failure.
type Link interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Close() error
}

// LinkConfig configures a serial Link.
type LinkConfig struct {
	// BaudRate is the UART speed of the board's USB bridge
	BaudRate int

	// ReadTimeout bounds every Read call
	ReadTimeout time.Duration
}

// DefaultLinkConfig returns the settings the stub expects.
func DefaultLinkConfig() LinkConfig {
	return LinkConfig{
		BaudRate:    DefaultBaudRate,
		ReadTimeout: DefaultReadTimeout,
	}
}

// SerialLink is a Link over a serial device.
type SerialLink struct {
	port serial.Port
	path string
}

// OpenSerial opens the serial device at path as an 8N1 Link with a bounded
// read timeout. Pending input from before the open is discarded.
func OpenSerial(path string, cfg LinkConfig) (*SerialLink, error) {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	port, err := serial.Open(path, &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, &TransportError{Op: "open " + path, Cause: err}
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		port.Close()
		return nil, &TransportError{Op: "configure " + path, Cause: err}
	}

	// Power-up noise from the bridge would otherwise be read as replies.
	if err := port.ResetInputBuffer(); err != nil {
		port.Close()
		return nil, &TransportError{Op: "flush " + path, Cause: err}
	}

	return &SerialLink{port: port, path: path}, nil
}

// Path returns the device path the link was opened on.
func (l *SerialLink) Path() string {
	return l.path
}

// Read implements Link. It returns (0, nil) when the read timeout expires.
func (l *SerialLink) Read(p []byte) (int, error) {
	return l.port.Read(p)
}

// Write implements Link.
func (l *SerialLink) Write(p []byte) (int, error) {
	return l.port.Write(p)
}

// Close releases the device.
func (l *SerialLink) Close() error {
	return l.port.Close()
}

// PortInfo describes a serial port found during discovery.
type PortInfo struct {
	Name    string
	IsUSB   bool
	VID     string
	PID     string
	Serial  string
	Product string
}

// IsBoard reports whether the port is the board's USB bridge.
func (p PortInfo) IsBoard() bool {
	return p.IsUSB &&
		strings.EqualFold(p.VID, BoardVID) &&
		strings.EqualFold(p.PID, BoardPID)
}

// portLister is replaced in tests.
var portLister = func() ([]*enumerator.PortDetails, error) {
	return enumerator.GetDetailedPortsList()
}

// DiscoverPorts lists serial ports sorted by name. Unless all is set only
// ports that look like the board's USB bridge are returned.
func DiscoverPorts(all bool) ([]PortInfo, error) {
	details, err := portLister()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate ports: %w", err)
	}

	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		info := PortInfo{
			Name:    d.Name,
			IsUSB:   d.IsUSB,
			VID:     d.VID,
			PID:     d.PID,
			Serial:  d.SerialNumber,
			Product: d.Product,
		}
		if all || info.IsBoard() {
			ports = append(ports, info)
		}
	}

	sort.Slice(ports, func(i, j int) bool {
		return ports[i].Name < ports[j].Name
	})

	return ports, nil
}

// DiscoverPort returns the only board port. It fails with ErrNoPort or
// ErrAmbiguousPort when there is not exactly one.
func DiscoverPort() (string, error) {
	ports, err := DiscoverPorts(false)
	if err != nil {
		return "", err
	}
	switch len(ports) {
	case 0:
		return "", ErrNoPort
	case 1:
		return ports[0].Name, nil
	default:
		names := make([]string, len(ports))
		for i, p := range ports {
			names[i] = p.Name
		}
		return "", fmt.Errorf("%w: %s", ErrAmbiguousPort, strings.Join(names, ", "))
	}
}
