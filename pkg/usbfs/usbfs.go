//go:build linux

// Package usbfs talks to a single USB interrupt device through the Linux
// usbfs character device, the same path libusb takes. It exposes the
// device node's file descriptor as a readiness descriptor so the bridge
// can fold URB completions into its poll set.
package usbfs

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// urb mirrors the kernel's struct usbdevfs_urb on 64-bit targets.
type urb struct {
	typ          uint8
	endpoint     uint8
	status       int32
	flags        uint32
	buffer       uintptr
	bufferLength int32
	actualLength int32
	startFrame   int32
	streamID     uint32
	errorCount   int32
	signr        uint32
	userContext  uintptr
}

// bulkTransfer mirrors struct usbdevfs_bulktransfer. usbfs services
// interrupt endpoints through the bulk path, as libusb does.
type bulkTransfer struct {
	endpoint uint32
	length   uint32
	timeout  uint32
	data     uintptr
}

// driverIoctl mirrors struct usbdevfs_ioctl, used to forward an ioctl to
// the kernel driver bound to an interface (here: to disconnect it).
type driverIoctl struct {
	ifno      int32
	ioctlCode int32
	data      uintptr
}

const urbTypeInterrupt = 1

// ioctl request numbers, encoded like the kernel's _IO/_IOR/_IOW/_IOWR
// macros with type 'U'.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	usbdevfsType = 'U'
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | usbdevfsType<<8 | nr
}

var (
	reqBulk             = ioc(iocRead|iocWrite, 2, unsafe.Sizeof(bulkTransfer{}))
	reqSetConfiguration = ioc(iocRead, 5, 4)
	reqSubmitURB        = ioc(iocRead, 10, unsafe.Sizeof(urb{}))
	reqDiscardURB       = ioc(iocNone, 11, 0)
	reqReapURBNDelay    = ioc(iocWrite, 13, unsafe.Sizeof(uintptr(0)))
	reqClaimInterface   = ioc(iocRead, 15, 4)
	reqReleaseInterface = ioc(iocRead, 16, 4)
	reqDriverIoctl      = ioc(iocRead|iocWrite, 18, unsafe.Sizeof(driverIoctl{}))
	reqDisconnect       = ioc(iocNone, 22, 0)
)

func ioctl(fd int, req uintptr, arg unsafe.Pointer) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
	if errno != 0 {
		return int(r), errno
	}
	return int(r), nil
}
