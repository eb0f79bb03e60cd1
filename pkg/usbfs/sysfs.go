//go:build linux

package usbfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysfsUSBPath = "/sys/bus/usb/devices"

// findDeviceNode scans sysfs for the first device matching vid:pid and
// returns its /dev/bus/usb node path.
func findDeviceNode(vid, pid uint16) (string, error) {
	entries, err := os.ReadDir(sysfsUSBPath)
	if err != nil {
		return "", fmt.Errorf("scanning %s: %w", sysfsUSBPath, err)
	}
	for _, e := range entries {
		name := e.Name()
		// Skip root hubs (usb1, usb2, ...) and interface entries (1-1:1.0).
		if strings.HasPrefix(name, "usb") || strings.Contains(name, ":") {
			continue
		}
		dir := filepath.Join(sysfsUSBPath, name)
		v, err := readHexAttr(dir, "idVendor")
		if err != nil {
			continue
		}
		p, err := readHexAttr(dir, "idProduct")
		if err != nil {
			continue
		}
		if v != vid || p != pid {
			continue
		}
		bus, err := readDecAttr(dir, "busnum")
		if err != nil {
			return "", fmt.Errorf("device %s has no bus number: %w", name, err)
		}
		dev, err := readDecAttr(dir, "devnum")
		if err != nil {
			return "", fmt.Errorf("device %s has no device number: %w", name, err)
		}
		return devNodePath(bus, dev), nil
	}
	return "", ErrNotFound
}

func devNodePath(bus, dev uint64) string {
	return fmt.Sprintf("/dev/bus/usb/%03d/%03d", bus, dev)
}

func readHexAttr(dir, attr string) (uint16, error) {
	s, err := readAttr(dir, attr)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", attr, err)
	}
	return uint16(v), nil
}

func readDecAttr(dir, attr string) (uint64, error) {
	s, err := readAttr(dir, attr)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", attr, err)
	}
	return v, nil
}

func readAttr(dir, attr string) (string, error) {
	raw, err := os.ReadFile(filepath.Join(dir, attr))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
