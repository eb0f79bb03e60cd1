//go:build linux

package usbfs

import (
	"errors"
	"testing"
)

func deviceDesc() []byte {
	d := make([]byte, 18)
	d[0] = 18
	d[1] = descTypeDevice
	d[17] = 2 // bNumConfigurations
	return d
}

func configDesc(value byte) []byte {
	return []byte{9, descTypeConfig, 0, 0, 1, value, 0, 0x80, 0x32}
}

func interfaceDesc(number, alt byte) []byte {
	return []byte{9, descTypeInterface, number, alt, 2, 0, 0, 0, 0}
}

func endpointDesc(addr, attrs byte) []byte {
	return []byte{7, descTypeEndpoint, addr, attrs, 0x40, 0x00, 8}
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestParseEndpoints(t *testing.T) {
	blob := concat(
		deviceDesc(),
		// First configuration: wrong interface, must be skipped.
		configDesc(1),
		interfaceDesc(0, 0),
		endpointDesc(0x81, transferTypeInterrupt),
		// Second configuration: the one that talks.
		configDesc(2),
		interfaceDesc(0, 0),
		endpointDesc(0x82, transferTypeInterrupt),
		endpointDesc(0x02, transferTypeInterrupt),
	)
	ep, err := parseEndpoints(blob)
	if err != nil {
		t.Fatalf("parseEndpoints: %v", err)
	}
	if ep.configValue != 2 {
		t.Errorf("configValue = %d, want 2", ep.configValue)
	}
	if ep.rx != 0x82 || ep.tx != 0x02 {
		t.Errorf("endpoints rx=%#02x tx=%#02x, want rx=0x82 tx=0x02", ep.rx, ep.tx)
	}
}

func TestParseEndpointsIgnoresOtherInterfaces(t *testing.T) {
	blob := concat(
		deviceDesc(),
		configDesc(1),
		configDesc(2),
		interfaceDesc(1, 0), // not interface 0
		endpointDesc(0x83, transferTypeInterrupt),
		endpointDesc(0x03, transferTypeInterrupt),
		interfaceDesc(0, 0),
		endpointDesc(0x81, transferTypeInterrupt),
		endpointDesc(0x01, transferTypeInterrupt),
	)
	ep, err := parseEndpoints(blob)
	if err != nil {
		t.Fatalf("parseEndpoints: %v", err)
	}
	if ep.rx != 0x81 || ep.tx != 0x01 {
		t.Errorf("endpoints rx=%#02x tx=%#02x, want rx=0x81 tx=0x01", ep.rx, ep.tx)
	}
}

func TestParseEndpointsAmbiguousRoles(t *testing.T) {
	blob := concat(
		deviceDesc(),
		configDesc(1),
		configDesc(2),
		interfaceDesc(0, 0),
		// Two input endpoints, no output: roles cannot be assigned.
		endpointDesc(0x81, transferTypeInterrupt),
		endpointDesc(0x82, transferTypeInterrupt),
	)
	if _, err := parseEndpoints(blob); !errors.Is(err, ErrEndpointRoles) {
		t.Errorf("got %v, want ErrEndpointRoles", err)
	}
}

func TestParseEndpointsSingleConfiguration(t *testing.T) {
	blob := concat(
		deviceDesc(),
		configDesc(1),
		interfaceDesc(0, 0),
		endpointDesc(0x81, transferTypeInterrupt),
		endpointDesc(0x01, transferTypeInterrupt),
	)
	if _, err := parseEndpoints(blob); err == nil {
		t.Error("expected an error for a device with one configuration")
	}
}

func TestParseEndpointsMalformed(t *testing.T) {
	if _, err := parseEndpoints([]byte{9, descTypeConfig, 0}); err == nil {
		t.Error("expected an error for a truncated descriptor")
	}
	if _, err := parseEndpoints([]byte{0, 0, 0, 0}); err == nil {
		t.Error("expected an error for a zero-length descriptor")
	}
}

func TestDevNodePath(t *testing.T) {
	if got, want := devNodePath(1, 9), "/dev/bus/usb/001/009"; got != want {
		t.Errorf("devNodePath = %q, want %q", got, want)
	}
}
