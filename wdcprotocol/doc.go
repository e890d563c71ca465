// Package wdcprotocol is a host-side client for the monitor stub in the ROM
// of the WDC W65C816SXB and W65C02SXB boards.
//
// # Protocol Overview
//
// The stub speaks a small binary protocol over the board's USB serial
// bridge. Every command is framed by a two byte sync pattern that the stub
// acknowledges with 0xCC; a missing acknowledgement means the two sides have
// lost byte alignment and a handshake (a zero probe answered by zero) puts
// them back in step.
//
//	55 AA -> CC, <command>, [address (3 bytes LE), count (2 bytes LE)], [payload]
//
// Payload bytes are moved one per transfer, because the bridge drops data
// when more than a byte is in flight.
//
// # Basic Usage
//
//	link, err := wdcprotocol.OpenSerial("/dev/ttyUSB0", wdcprotocol.DefaultLinkConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := wdcprotocol.New(link)
//	defer client.Close()
//
//	// Dump 256 bytes of memory
//	hw := wdcprotocol.NewHexWriter(os.Stdout, 0x1000, wdcprotocol.DefaultHexFormat)
//	err = client.Read(ctx, wdcprotocol.AddressRange{Start: 0x1000, Count: 256}, hw)
//	hw.Flush()
//
//	// Load and run a 6502 program
//	err = client.WriteBytes(ctx, 0x0800, program)
//	err = client.Execute(ctx, 0x0800, wdcprotocol.Mode6502, wdcprotocol.ExecSync)
//
// # Parsing Input
//
// Address expressions and write targets are parsed before any I/O:
//
//	r, err := wdcprotocol.ParseRange("1000-100f")   // start 0x1000, count 16
//	r, err = wdcprotocol.ParseRange("2000,10")      // start 0x2000, count 10
//	t, err := wdcprotocol.ParseTarget("prog.bin@8000")
//
// Parse failures are *ParseError values; IsUsageError tells them apart from
// transport failures (*TransportError) and ErrSyncExhausted.
//
// # Thread Safety
//
// A Client is used by one goroutine at a time. The protocol has no request
// identifiers, so concurrent exchanges would corrupt each other on the wire.
package wdcprotocol
