package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/golang/glog"
)

// Supervisor reconnects to the device forever: connect, send the setup
// payload, run the event loop until it fails, wait, try again. It returns
// only when its context is canceled.
type Supervisor struct {
	// Connect establishes a fresh session with the device.
	Connect func() (*Session, error)
	// Setup payloads are written to the device once per successful
	// connect, in order, before the loop starts.
	Setup [][]byte
	// Dispatch is shared across sessions; its Device is swapped on every
	// reconnect so inbound MIDI reaches the current session.
	Dispatch *Dispatcher
	// Port is the process-lifetime MIDI port.
	Port MIDIPort
	// Backoff between attempts after a failure. Defaults to one second.
	// Fixed, no growth: the usual failure is simply an unplugged device.
	Backoff time.Duration

	// sleep stands in for a timer wait in tests.
	sleep func(ctx context.Context, d time.Duration)
}

// Run supervises until ctx is canceled.
func (s *Supervisor) Run(ctx context.Context) error {
	backoff := s.Backoff
	if backoff == 0 {
		backoff = time.Second
	}
	sleep := s.sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) {
			select {
			case <-ctx.Done():
			case <-time.After(d):
			}
		}
	}

	failed := false
	for {
		if ctx.Err() != nil {
			return nil
		}
		if failed {
			glog.Infof("Reconnecting in %v", backoff)
			sleep(ctx, backoff)
			if ctx.Err() != nil {
				return nil
			}
		}
		failed = true

		sess, err := s.Connect()
		if err != nil {
			glog.Errorf("Could not connect: %v", err)
			continue
		}

		if err := s.initialize(sess); err != nil {
			glog.Errorf("Could not initialize device: %v", err)
			s.teardown(sess)
			continue
		}

		s.Dispatch.Device = sess.Device
		loop := &Loop{
			Host:     sess.Host,
			Device:   sess.Device,
			Port:     s.Port,
			Dispatch: s.Dispatch,
		}
		err = loop.Run(ctx)
		s.teardown(sess)
		if err == nil {
			// Clean shutdown via ctx.
			return nil
		}
		glog.Errorf("Session ended: %v", err)
	}
}

func (s *Supervisor) initialize(sess *Session) error {
	for i, p := range s.Setup {
		n, err := sess.Device.SendRaw(p)
		if err != nil {
			return fmt.Errorf("sending setup transfer %d: %w", i, err)
		}
		glog.V(1).Infof("Setup transfer %d: wrote %d bytes", i, n)
	}
	return nil
}

func (s *Supervisor) teardown(sess *Session) {
	s.Dispatch.Device = nil
	if sess.Close == nil {
		return
	}
	if err := sess.Close(); err != nil {
		glog.Errorf("Could not close session: %v", err)
	}
}
