// =============================================================================
// port.go - Port Resolution and Connection
// =============================================================================
//
// Decides which serial device to use and opens it. The order is:
//
//  1. --port on the command line
//  2. $WDCMON_PORT
//  3. the single FTDI bridge found by enumeration
//
// Discovery fails with a usage error when no board or more than one board
// is attached, so the user is told to pick one with --port.
//
// =============================================================================

package main

import (
	"os"

	"github.com/sxbtools/wdcmon/wdcprotocol"
)

// openLink opens the serial device. Tests replace it with a scripted link.
var openLink = func(path string, cfg wdcprotocol.LinkConfig) (wdcprotocol.Link, error) {
	return wdcprotocol.OpenSerial(path, cfg)
}

// resolvePort returns the device to open.
func resolvePort(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if env := os.Getenv(portEnvVar); env != "" {
		return env, nil
	}
	return wdcprotocol.DiscoverPort()
}

// connect resolves the port, opens it at the requested speed and wraps it
// in a protocol client that logs through logger.
func connect(args arguments, logger wdcprotocol.Logger) (*wdcprotocol.Client, error) {
	path, err := resolvePort(args.port)
	if err != nil {
		return nil, err
	}

	cfg := wdcprotocol.DefaultLinkConfig()
	cfg.BaudRate = args.baud

	link, err := openLink(path, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("port open", "path", path, "baud", cfg.BaudRate)

	return wdcprotocol.New(link, wdcprotocol.WithLogger(logger)), nil
}

// homeDir returns the user's home directory, or "" if unknown.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}
