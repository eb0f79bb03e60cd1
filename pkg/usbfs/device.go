//go:build linux

package usbfs

import (
	"errors"
	"fmt"
	"time"
	"unsafe"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sys/unix"

	"github.com/nocturnd/nocturnd/pkg/bridge"
)

var (
	// ErrNotFound means no attached device matched the requested identity.
	ErrNotFound = errors.New("device not found")
	// ErrEndpointRoles means the interrupt endpoints could not be split
	// into one input and one output by their address direction bit.
	ErrEndpointRoles = errors.New("could not determine endpoint roles")
	// ErrReceivePending means BeginReceive was called while a receive was
	// already in flight. At most one may be outstanding.
	ErrReceivePending = errors.New("a receive is already outstanding")
)

const sendTimeout = 500 * time.Millisecond

// Device is an open, claimed usbfs device. It implements both the
// bridge's transfer host (readiness descriptors, event tick) and its
// endpoint (send, async receive): with usbfs both live on the same fd.
type Device struct {
	fd   int
	node string
	rxEP byte
	txEP byte

	// pending keeps the in-flight URB and its buffer reachable until the
	// kernel hands the URB back through a reap.
	pending *pendingReceive
}

var (
	_ bridge.TransferHost = (*Device)(nil)
	_ bridge.Endpoint     = (*Device)(nil)
)

type pendingReceive struct {
	u   urb
	buf []byte
	fn  bridge.CompleteFunc
}

// Open locates the device matching vid:pid, selects its second
// configuration, resolves the interrupt endpoint pair and claims
// interface 0.
func Open(vid, pid uint16) (*Device, error) {
	node, err := findDeviceNode(vid, pid)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Open(node, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", node, err)
	}
	d := &Device{fd: fd, node: node}
	if err := d.setup(); err != nil {
		unix.Close(fd)
		return nil, err
	}
	glog.Infof("Connected to %s (rx %#02x, tx %#02x)", node, d.rxEP, d.txEP)
	return d, nil
}

func (d *Device) setup() error {
	blob, err := d.readDescriptors()
	if err != nil {
		return fmt.Errorf("reading descriptors: %w", err)
	}
	eps, err := parseEndpoints(blob)
	if err != nil {
		return err
	}

	// Harmless when no kernel driver is bound.
	d.detachKernelDriver(0)

	cfg := int32(eps.configValue)
	if _, err := ioctl(d.fd, reqSetConfiguration, unsafe.Pointer(&cfg)); err != nil {
		return fmt.Errorf("setting configuration %d: %w", eps.configValue, err)
	}
	iface := int32(0)
	if _, err := ioctl(d.fd, reqClaimInterface, unsafe.Pointer(&iface)); err != nil {
		return fmt.Errorf("claiming interface 0: %w", err)
	}

	d.rxEP, d.txEP = eps.rx, eps.tx
	return nil
}

// readDescriptors reads the full descriptor blob the node serves: device
// descriptor plus every configuration descriptor.
func (d *Device) readDescriptors() ([]byte, error) {
	var blob []byte
	buf := make([]byte, 4096)
	for {
		n, err := unix.Read(d.fd, buf)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return blob, nil
		}
		blob = append(blob, buf[:n]...)
	}
}

func (d *Device) detachKernelDriver(iface int32) {
	req := driverIoctl{ifno: iface, ioctlCode: int32(reqDisconnect)}
	if _, err := ioctl(d.fd, reqDriverIoctl, unsafe.Pointer(&req)); err != nil && err != unix.ENODATA {
		glog.V(1).Infof("Detaching kernel driver from %s: %v", d.node, err)
	}
}

// SendRaw writes p to the output endpoint synchronously, bounded by a
// fixed timeout. Used for setup payloads and LED feedback alike.
func (d *Device) SendRaw(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	bt := bulkTransfer{
		endpoint: uint32(d.txEP),
		length:   uint32(len(p)),
		timeout:  uint32(sendTimeout / time.Millisecond),
		data:     uintptr(unsafe.Pointer(&p[0])),
	}
	n, err := ioctl(d.fd, reqBulk, unsafe.Pointer(&bt))
	if err != nil {
		return 0, fmt.Errorf("interrupt write to %#02x: %w", d.txEP, err)
	}
	return n, nil
}

// BeginReceive submits one interrupt URB on the input endpoint. The
// completion surfaces through HandleEvents; buf must stay valid until
// then.
func (d *Device) BeginReceive(buf []byte, complete bridge.CompleteFunc) error {
	if d.pending != nil {
		return ErrReceivePending
	}
	p := &pendingReceive{buf: buf, fn: complete}
	p.u = urb{
		typ:          urbTypeInterrupt,
		endpoint:     d.rxEP,
		buffer:       uintptr(unsafe.Pointer(&buf[0])),
		bufferLength: int32(len(buf)),
	}
	if _, err := ioctl(d.fd, reqSubmitURB, unsafe.Pointer(&p.u)); err != nil {
		return fmt.Errorf("submitting receive urb: %w", err)
	}
	d.pending = p
	return nil
}

// PollDescriptors returns the usbfs node's fd. The kernel signals URB
// completion as write readiness on it.
func (d *Device) PollDescriptors() []bridge.PollFD {
	return []bridge.PollFD{{FD: int32(d.fd), Events: unix.POLLOUT}}
}

// NextDeadline always reports no deadline: the usbfs layer keeps no
// internal timers, completions arrive as fd readiness.
func (d *Device) NextDeadline() (time.Duration, bool) {
	return 0, false
}

// HandleEvents reaps completed URBs without blocking and invokes their
// completion callbacks. A vanished device is unrecoverable here; transfer
// level failures are reported to the callback instead.
func (d *Device) HandleEvents() error {
	for {
		var reaped uintptr
		if _, err := ioctl(d.fd, reqReapURBNDelay, unsafe.Pointer(&reaped)); err != nil {
			if err == unix.EAGAIN {
				return nil
			}
			if err == unix.ENODEV {
				return fmt.Errorf("device %s disconnected: %w", d.node, err)
			}
			return fmt.Errorf("reaping urb: %w", err)
		}
		p := d.pending
		if p == nil || reaped != uintptr(unsafe.Pointer(&p.u)) {
			glog.Warningf("Reaped unexpected urb %#x", reaped)
			continue
		}
		d.pending = nil

		var data []byte
		var terr error
		if p.u.status != 0 {
			terr = fmt.Errorf("transfer on %#02x: %w", d.rxEP, unix.Errno(uintptr(-p.u.status)))
		} else {
			data = p.buf[:p.u.actualLength]
		}
		p.fn(data, terr)
	}
}

// Close discards any in-flight receive, releases the interface and closes
// the node.
func (d *Device) Close() error {
	var errs error
	if d.pending != nil {
		if _, err := ioctl(d.fd, reqDiscardURB, unsafe.Pointer(&d.pending.u)); err != nil && err != unix.EINVAL && err != unix.ENODEV {
			errs = multierror.Append(errs, fmt.Errorf("discarding urb: %w", err))
		}
		d.pending = nil
	}
	iface := int32(0)
	if _, err := ioctl(d.fd, reqReleaseInterface, unsafe.Pointer(&iface)); err != nil && err != unix.ENODEV {
		errs = multierror.Append(errs, fmt.Errorf("releasing interface: %w", err))
	}
	if err := unix.Close(d.fd); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("closing %s: %w", d.node, err))
	}
	return errs
}
