package bridge

import (
	"errors"
	"testing"

	"github.com/nocturnd/nocturnd/pkg/wire"
)

func TestDispatcherForwardsControlChanges(t *testing.T) {
	port := &fakePort{}
	d := &Dispatcher{Port: port, Channel: 0}

	// Touch sensors (96..103) are only suppressed from logging; they are
	// forwarded exactly like any other controller.
	d.HandleMessage(wire.Message{Status: 0xb0, Channel: 0, Data1: 100, Data2: 127})
	d.HandleMessage(wire.Message{Status: 0xb0, Channel: 0, Data1: 72, Data2: 64})

	want := []sentCC{{0, 100, 127}, {0, 72, 64}}
	if len(port.sent) != len(want) {
		t.Fatalf("forwarded %+v, want %+v", port.sent, want)
	}
	for i := range want {
		if port.sent[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, port.sent[i], want[i])
		}
	}
}

func TestDispatcherIgnoresOtherStatuses(t *testing.T) {
	port := &fakePort{}
	d := &Dispatcher{Port: port}
	d.HandleMessage(wire.Message{Status: 0x90, Channel: 0, Data1: 60, Data2: 100})
	if len(port.sent) != 0 {
		t.Errorf("non control change was forwarded: %+v", port.sent)
	}
}

func TestDispatcherSendFailureIsNotFatal(t *testing.T) {
	port := &fakePort{sendErr: errors.New("port gone")}
	d := &Dispatcher{Port: port}
	d.HandleMessage(wire.Message{Status: 0xb0, Data1: 72, Data2: 1})

	// Recovery on the port must let later messages through.
	port.sendErr = nil
	d.HandleMessage(wire.Message{Status: 0xb0, Data1: 72, Data2: 2})
	if len(port.sent) != 1 || port.sent[0].value != 2 {
		t.Errorf("got %+v, want the post-failure event only", port.sent)
	}
}

func TestDispatcherInboundControlChange(t *testing.T) {
	dev := &fakeDevice{}
	d := &Dispatcher{Port: &fakePort{}, Device: dev}
	d.HandleControlChange(0, 64, 0x40)

	if len(dev.sent) != 1 {
		t.Fatalf("device got %d writes, want 1", len(dev.sent))
	}
	if want := []byte{0xb0, 64, 0x40}; string(dev.sent[0]) != string(want) {
		t.Errorf("wrote %x, want %x", dev.sent[0], want)
	}

	// Without a connected device the event is dropped, not an error.
	d.Device = nil
	d.HandleControlChange(0, 64, 0x41)
	if len(dev.sent) != 1 {
		t.Errorf("write reached a torn down device: %x", dev.sent)
	}
}
