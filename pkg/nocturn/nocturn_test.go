package nocturn

import (
	"encoding/hex"
	"reflect"
	"testing"
)

func TestControlName(t *testing.T) {
	for _, tc := range []struct {
		cc   byte
		want string
	}{
		{64, "incrementor 1"},
		{71, "incrementor 8"},
		{72, "slider"},
		{74, "speed dial"},
		{81, "speed dial press"},
		{96, "incrementor 1 touch"},
		{103, "incrementor 8 touch"},
		{112, "button 1"},
		{127, "button 16"},
		{0, "cc 0"},
	} {
		if got := ControlName(tc.cc); got != tc.want {
			t.Errorf("ControlName(%d) = %q, want %q", tc.cc, got, tc.want)
		}
	}
}

func TestIsTouch(t *testing.T) {
	for cc := byte(0); cc < 128; cc++ {
		want := cc >= 96 && cc <= 103
		if got := IsTouch(cc); got != want {
			t.Errorf("IsTouch(%d) = %v, want %v", cc, got, want)
		}
	}
}

func TestRingModes(t *testing.T) {
	valid := []RingMode{0x00, 0x10, 0x20, 0x30, 0x40, 0x50}
	for _, m := range valid {
		if !m.Valid() {
			t.Errorf("mode %#x should be valid", byte(m))
		}
		parsed, err := ParseRingMode(m.String())
		if err != nil || parsed != m {
			t.Errorf("ParseRingMode(%q) = %v, %v", m.String(), parsed, err)
		}
	}
	for _, m := range []RingMode{0x01, 0x60, 0xf0} {
		if m.Valid() {
			t.Errorf("mode %#x should be invalid", byte(m))
		}
	}
	if _, err := ParseRingMode("bogus"); err == nil {
		t.Error("ParseRingMode accepted bogus mode")
	}
}

func TestLEDMessages(t *testing.T) {
	msg, err := RingValue(1, 0x60)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xb0, 0x40, 0x60}; !reflect.DeepEqual(msg, want) {
		t.Errorf("RingValue(1) = %x, want %x", msg, want)
	}

	msg, err = RingModeMessage(8, RingSingle)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xb0, 0x4f, 0x40}; !reflect.DeepEqual(msg, want) {
		t.Errorf("RingModeMessage(8) = %x, want %x", msg, want)
	}

	if want := []byte{0xb0, 0x50, 0x30}; !reflect.DeepEqual(SpeedDialValue(0x30), want) {
		t.Errorf("SpeedDialValue = %x, want %x", SpeedDialValue(0x30), want)
	}

	msg, err = ButtonLamp(16, true)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte{0xb0, 0x7f, 0x7f}; !reflect.DeepEqual(msg, want) {
		t.Errorf("ButtonLamp(16, on) = %x, want %x", msg, want)
	}

	for _, fail := range []error{
		func() error { _, err := RingValue(0, 0); return err }(),
		func() error { _, err := RingValue(9, 0); return err }(),
		func() error { _, err := RingModeMessage(1, 0x07); return err }(),
		func() error { _, err := ButtonLamp(17, false); return err }(),
	} {
		if fail == nil {
			t.Error("out of range LED message was accepted")
		}
	}
}

func TestDefaultSetupIsValidHex(t *testing.T) {
	for _, s := range DefaultSetup() {
		if _, err := hex.DecodeString(s); err != nil {
			t.Errorf("setup string %q: %v", s, err)
		}
	}
}
