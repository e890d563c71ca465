package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/sxbtools/wdcmon/wdcprotocol"
)

func TestResolvePortPrecedence(t *testing.T) {
	t.Setenv(portEnvVar, "/dev/from-env")

	if got, err := resolvePort("/dev/explicit"); err != nil || got != "/dev/explicit" {
		t.Errorf("resolvePort(explicit) = %q, %v", got, err)
	}
	if got, err := resolvePort(""); err != nil || got != "/dev/from-env" {
		t.Errorf("resolvePort(\"\") = %q, %v", got, err)
	}
}

func TestConnectUsesBaudRate(t *testing.T) {
	var gotCfg wdcprotocol.LinkConfig
	saved := openLink
	openLink = func(path string, cfg wdcprotocol.LinkConfig) (wdcprotocol.Link, error) {
		gotCfg = cfg
		return &scriptLink{}, nil
	}
	t.Cleanup(func() { openLink = saved })

	args, _ := parseArguments([]string{"-p", "/dev/x", "--baud", "9600"})
	client, err := connect(args, newLogger(io.Discard, false))
	if err != nil {
		t.Fatalf("connect() error = %v", err)
	}
	defer client.Close()

	if gotCfg.BaudRate != 9600 {
		t.Errorf("BaudRate = %d, want 9600", gotCfg.BaudRate)
	}
	if gotCfg.ReadTimeout != wdcprotocol.DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want %v", gotCfg.ReadTimeout, wdcprotocol.DefaultReadTimeout)
	}
}

func TestConnectOpenFailure(t *testing.T) {
	openErr := &wdcprotocol.TransportError{Op: "open /dev/x", Cause: errors.New("permission denied")}
	saved := openLink
	openLink = func(string, wdcprotocol.LinkConfig) (wdcprotocol.Link, error) {
		return nil, openErr
	}
	t.Cleanup(func() { openLink = saved })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	var stdout, stderr bytes.Buffer
	if code := run(ctx, []string{"-p", "/dev/x", "-a", "sync"}, &stdout, &stderr); code != exitFailure {
		t.Errorf("exit code = %d, want %d", code, exitFailure)
	}
	if !strings.Contains(stderr.String(), "permission denied") {
		t.Errorf("stderr = %q", stderr.String())
	}
}
