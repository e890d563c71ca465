package wdcprotocol

import (
	"strconv"
	"strings"
)

// ParseRange parses an address expression. The first matching grammar wins:
//
//	<hex>-<hex>      inclusive start and end
//	<hex>,<decimal>  start and byte count
//	<decimal>        single address, count 1
//
// Hex fields may carry a "$" or "0x" prefix.
func ParseRange(expr string) (AddressRange, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return AddressRange{}, newMissingArgumentError("address expression required")
	}

	if i := strings.Index(expr, "-"); i >= 0 {
		start, ok := parseHexAddress(expr[:i])
		if !ok {
			return AddressRange{}, newInvalidAddressError(expr[:i])
		}
		end, ok := parseHexAddress(expr[i+1:])
		if !ok {
			return AddressRange{}, newInvalidAddressError(expr[i+1:])
		}
		if end < start {
			return AddressRange{}, newInvalidRangeError(expr)
		}
		count := int(end-start) + 1
		if count > MaxCount {
			return AddressRange{}, newInvalidCountError(strconv.Itoa(count))
		}
		return AddressRange{Start: start, Count: count}, nil
	}

	if i := strings.Index(expr, ","); i >= 0 {
		start, ok := parseHexAddress(expr[:i])
		if !ok {
			return AddressRange{}, newInvalidAddressError(expr[:i])
		}
		countStr := strings.TrimSpace(expr[i+1:])
		count, err := strconv.ParseUint(countStr, 10, 16)
		if err != nil || count == 0 {
			return AddressRange{}, newInvalidCountError(countStr)
		}
		return AddressRange{Start: start, Count: int(count)}, nil
	}

	addr, err := strconv.ParseUint(expr, 10, 32)
	if err != nil || addr > MaxAddress {
		return AddressRange{}, newInvalidAddressError(expr)
	}
	return AddressRange{Start: uint32(addr), Count: 1}, nil
}

// ParseTarget parses a write target of the form <name>@<hex>. The last "@"
// separates the name so names may contain one.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Target{}, newMissingArgumentError("write target required (name@address)")
	}

	i := strings.LastIndex(s, "@")
	if i <= 0 {
		return Target{}, newInvalidTargetError(s)
	}

	addr, ok := parseHexAddress(s[i+1:])
	if !ok {
		return Target{}, newInvalidAddressError(s[i+1:])
	}
	return Target{Name: s[:i], Address: addr}, nil
}

// ParseEntry parses a hex entry address for execute.
func ParseEntry(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, newMissingArgumentError("entry address required")
	}
	addr, ok := parseHexAddress(s)
	if !ok {
		return 0, newInvalidAddressError(s)
	}
	return addr, nil
}

// parseHexAddress parses a 24-bit hex address with an optional $ or 0x
// prefix.
func parseHexAddress(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		s = s[1:]
	} else if strings.HasPrefix(strings.ToLower(s), "0x") {
		s = s[2:]
	}
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseUint(s, 16, 32)
	if err != nil || val > MaxAddress {
		return 0, false
	}
	return uint32(val), true
}
