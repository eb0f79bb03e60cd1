// Package midiport exposes a virtual MIDI port pair to the rest of the
// host and adapts it to the bridge's readiness-descriptor model. The
// rtmidi driver delivers input on its own thread; an internal pipe
// re-serializes those events onto the event loop so everything downstream
// of the port stays single threaded.
package midiport

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"gitlab.com/gomidi/midi"
	"gitlab.com/gomidi/rtmididrv"
	"golang.org/x/sys/unix"

	"github.com/nocturnd/nocturnd/pkg/bridge"
	"github.com/nocturnd/nocturnd/pkg/wire"
)

const queueSize = 128

type ccEvent struct {
	channel    byte
	controller byte
	value      byte
}

// Port is an open virtual MIDI input/output pair.
type Port struct {
	drv *rtmididrv.Driver
	in  midi.In
	out midi.Out

	onCC   func(channel, controller, value byte)
	events chan ccEvent
	pr, pw *os.File

	closeOnce sync.Once
	closeErr  error
}

var _ bridge.MIDIPort = (*Port)(nil)

// Open creates virtual input and output ports under the given name and
// starts listening. Control change messages arriving on the input are
// queued and later handed to onCC by DeliverPending; other message kinds
// are dropped, the device has no use for them.
func Open(name string, onCC func(channel, controller, value byte)) (*Port, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("initializing MIDI driver: %w", err)
	}
	in, err := drv.OpenVirtualIn(name)
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("opening virtual input %q: %w", name, err)
	}
	out, err := drv.OpenVirtualOut(name)
	if err != nil {
		in.Close()
		drv.Close()
		return nil, fmt.Errorf("opening virtual output %q: %w", name, err)
	}
	pr, pw, err := os.Pipe()
	if err != nil {
		out.Close()
		in.Close()
		drv.Close()
		return nil, fmt.Errorf("creating readiness pipe: %w", err)
	}

	p := &Port{
		drv:    drv,
		in:     in,
		out:    out,
		onCC:   onCC,
		events: make(chan ccEvent, queueSize),
		pr:     pr,
		pw:     pw,
	}
	if err := in.SetListener(p.listen); err != nil {
		p.Close()
		return nil, fmt.Errorf("installing MIDI listener: %w", err)
	}
	glog.Infof("MIDI ports %q ready", name)
	return p, nil
}

// listen runs on the rtmidi thread. It never blocks: a full queue drops
// the event rather than stalling the driver.
func (p *Port) listen(data []byte, _ int64) {
	if len(data) < 3 || data[0]&wire.StatusMask != wire.StatusControlChange {
		return
	}
	ev := ccEvent{
		channel:    data[0] & wire.ChannelMask,
		controller: data[1] & 0x7f,
		value:      data[2] & 0x7f,
	}
	select {
	case p.events <- ev:
		// One pipe byte per queued event keeps the poll set accounting
		// exact: readable means at least one event is waiting.
		if _, err := p.pw.Write([]byte{1}); err != nil {
			glog.V(1).Infof("Readiness pipe write failed: %v", err)
		}
	default:
		glog.Warningf("MIDI input queue full, dropping cc %d=%d", ev.controller, ev.value)
	}
}

// PollDescriptors returns the readiness pipe's read end. It is static for
// the life of the port.
func (p *Port) PollDescriptors() []bridge.PollFD {
	return []bridge.PollFD{{FD: int32(p.pr.Fd()), Events: unix.POLLIN}}
}

// DeliverPending consumes one queued input event and hands it to the
// handler. Delivering with nothing queued is a no-op.
func (p *Port) DeliverPending() error {
	var b [1]byte
	if _, err := p.pr.Read(b[:]); err != nil {
		return fmt.Errorf("draining readiness pipe: %w", err)
	}
	select {
	case ev := <-p.events:
		p.onCC(ev.channel, ev.controller, ev.value)
	default:
	}
	return nil
}

// SendControlChange emits one control change on the output port.
func (p *Port) SendControlChange(channel, controller, value byte) error {
	msg := wire.ControlChange(channel, controller, value)
	if _, err := p.out.Write(msg[:]); err != nil {
		return fmt.Errorf("sending cc %d=%d: %w", controller, value, err)
	}
	return nil
}

// Close tears down the ports and the driver.
func (p *Port) Close() error {
	p.closeOnce.Do(func() {
		var errs error
		if err := p.in.StopListening(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := p.in.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := p.out.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		if err := p.drv.Close(); err != nil {
			errs = multierror.Append(errs, err)
		}
		p.pw.Close()
		p.pr.Close()
		p.closeErr = errs
	})
	return p.closeErr
}

// ListPorts returns the names of the MIDI input and output ports visible
// on the host.
func ListPorts() (ins, outs []string, err error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, nil, fmt.Errorf("initializing MIDI driver: %w", err)
	}
	defer drv.Close()

	inPorts, err := drv.Ins()
	if err != nil {
		return nil, nil, fmt.Errorf("listing inputs: %w", err)
	}
	outPorts, err := drv.Outs()
	if err != nil {
		return nil, nil, fmt.Errorf("listing outputs: %w", err)
	}
	for _, p := range inPorts {
		ins = append(ins, p.String())
	}
	for _, p := range outPorts {
		outs = append(outs, p.String())
	}
	return ins, outs, nil
}
