package bridge

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"

	"github.com/nocturnd/nocturnd/pkg/wire"
)

// receiveSize bounds one interrupt read from the device. The Nocturn never
// sends more than a few messages per transfer interval.
const receiveSize = 10

// maxPollDescriptors bounds the combined poll set. Exceeding it means the
// transfer subsystem grew descriptors beyond anything this device setup
// can produce, so the loop fails loudly instead of truncating.
const maxPollDescriptors = 32

// Loop is one run of the event loop over a connected session. It is
// single threaded: all completion callbacks and MIDI deliveries happen
// inline between poll waits.
type Loop struct {
	Host     TransferHost
	Device   Endpoint
	Port     MIDIPort
	Dispatch *Dispatcher

	// rx backs the in-flight receive. It lives as long as the loop so the
	// transfer layer can write into it whenever the completion lands.
	rx       [receiveSize]byte
	decoder  wire.Decoder
	resubmit bool

	// pollFn stands in for unix.Poll in tests.
	pollFn func(fds []unix.PollFd, timeoutMS int) (int, error)
}

// Run services the session until an unrecoverable error or until ctx is
// canceled. Cancellation is a clean shutdown and returns nil; everything
// else returns the loop-fatal error.
func (l *Loop) Run(ctx context.Context) error {
	poll := l.pollFn
	if poll == nil {
		poll = unix.Poll
	}

	l.decoder.Reset()
	l.resubmit = false
	if err := l.Device.BeginReceive(l.rx[:], l.onReceiveComplete); err != nil {
		return fmt.Errorf("submitting receive: %w", err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		// Rebuild the poll set: transfer descriptors first, so the index
		// ranges [0,usb) and [usb,len) split the two subsystems cleanly
		// when the wait returns.
		usb := l.Host.PollDescriptors()
		mid := l.Port.PollDescriptors()
		if len(usb)+len(mid) > maxPollDescriptors {
			return fmt.Errorf("%w: %d transfer + %d MIDI descriptors", ErrPollSetOverflow, len(usb), len(mid))
		}
		fds := make([]unix.PollFd, 0, len(usb)+len(mid))
		for _, d := range usb {
			fds = append(fds, unix.PollFd{Fd: d.FD, Events: d.Events})
		}
		for _, d := range mid {
			fds = append(fds, unix.PollFd{Fd: d.FD, Events: d.Events})
		}

		timeoutMS := -1
		if d, ok := l.Host.NextDeadline(); ok {
			timeoutMS = int(d.Milliseconds())
		}

		if _, err := poll(fds, timeoutMS); err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("polling transfer and MIDI descriptors: %w", err)
		}

		// The transfer subsystem gets its tick no matter whether the wait
		// returned for readiness or timed out; it dispatches completed
		// transfers and advances internal timers either way.
		if err := l.Host.HandleEvents(); err != nil {
			return fmt.Errorf("handling transfer events: %w", err)
		}

		for i := len(usb); i < len(fds); i++ {
			if fds[i].Revents&unix.POLLIN != 0 {
				if err := l.Port.DeliverPending(); err != nil {
					glog.Errorf("Could not deliver MIDI input: %v", err)
				}
			}
		}

		if l.resubmit {
			l.resubmit = false
			if err := l.Device.BeginReceive(l.rx[:], l.onReceiveComplete); err != nil {
				return fmt.Errorf("resubmitting receive: %w", err)
			}
		}
	}
}

// onReceiveComplete runs inline during HandleEvents. Transfer failures are
// transient here: they skip decoding but still request a resubmit so
// polling continues; persistent failures surface as submit or handle
// errors instead.
func (l *Loop) onReceiveComplete(data []byte, err error) {
	l.resubmit = true
	if err != nil {
		glog.V(1).Infof("Receive failed: %v", err)
		return
	}
	for _, m := range l.decoder.Feed(data) {
		l.Dispatch.HandleMessage(m)
	}
}
