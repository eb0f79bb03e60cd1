// Package bridge contains the core of nocturnd: the single threaded event
// loop that multiplexes USB transfer readiness and MIDI readiness over one
// poll(2) call, the dispatcher translating decoded device messages into
// MIDI control changes (and MIDI back into LED writes), and the supervisor
// that reconnects whenever the device goes away.
package bridge

import (
	"errors"
	"time"
)

// PollFD is one readiness descriptor to merge into the loop's wait.
type PollFD struct {
	FD     int32
	Events int16
}

// CompleteFunc is invoked once per finished receive, successful or not,
// with the received bytes on success.
type CompleteFunc func(data []byte, err error)

// TransferHost is the USB transfer subsystem as seen by the event loop.
type TransferHost interface {
	// PollDescriptors returns the subsystem's current readiness
	// descriptors. The set may change between loop iterations.
	PollDescriptors() []PollFD

	// NextDeadline returns the subsystem's next internal deadline, if it
	// has one. Without a deadline the loop waits indefinitely.
	NextDeadline() (time.Duration, bool)

	// HandleEvents gives the subsystem a zero-timeout processing tick:
	// dispatch completed transfers and advance internal timers. An error
	// is unrecoverable and ends the loop.
	HandleEvents() error
}

// Endpoint is the connected device's transfer surface.
type Endpoint interface {
	// SendRaw writes p to the output endpoint with a bounded timeout.
	SendRaw(p []byte) (int, error)

	// BeginReceive submits one asynchronous read into buf. Completion is
	// reported through complete during a later HandleEvents tick. At most
	// one receive may be outstanding; buf must stay valid until the
	// completion fires.
	BeginReceive(buf []byte, complete CompleteFunc) error
}

// MIDIPort is the host MIDI subsystem boundary.
type MIDIPort interface {
	// PollDescriptors returns the port's readiness descriptors. These are
	// assumed static for the process lifetime.
	PollDescriptors() []PollFD

	// DeliverPending delivers one pending input event, if any.
	DeliverPending() error

	// SendControlChange emits one outbound control change event.
	SendControlChange(channel, controller, value byte) error
}

// Session is one live connection to the device, produced by the
// supervisor's connect function and torn down on any loop failure.
type Session struct {
	Host   TransferHost
	Device Endpoint
	Close  func() error
}

// ErrPollSetOverflow is returned by the loop when the combined descriptor
// count exceeds its fixed bound. This is a configuration error, not a
// runtime condition to ride out.
var ErrPollSetOverflow = errors.New("poll descriptor set overflow")
