//go:build linux

package usbfs

import "fmt"

// Descriptor parsing for the raw blob read from a usbfs node: the device
// descriptor followed by every configuration descriptor, back to back.
const (
	descTypeDevice    = 1
	descTypeConfig    = 2
	descTypeInterface = 4
	descTypeEndpoint  = 5

	endpointDirIn         = 0x80
	transferTypeMask      = 0x03
	transferTypeInterrupt = 0x03
)

// endpointPair is what a connect needs from the descriptors: which
// configuration value to select and the addresses of the two interrupt
// endpoints, split by direction.
type endpointPair struct {
	configValue byte
	rx, tx      byte
}

// parseEndpoints walks the descriptor blob and extracts the interrupt
// endpoints of the second configuration's interface 0, altsetting 0. The
// second configuration being the one that talks is empirical knowledge
// about the hardware, not something the descriptors advertise.
func parseEndpoints(blob []byte) (endpointPair, error) {
	var (
		ep        endpointPair
		haveRx    bool
		haveTx    bool
		configIdx = -1
		inConfig  bool
		inIface   bool
	)

	for i := 0; i+2 <= len(blob); {
		length := int(blob[i])
		typ := blob[i+1]
		if length < 2 || i+length > len(blob) {
			return ep, fmt.Errorf("malformed descriptor at offset %d", i)
		}
		switch typ {
		case descTypeConfig:
			if length < 6 {
				return ep, fmt.Errorf("short configuration descriptor at offset %d", i)
			}
			configIdx++
			inConfig = configIdx == 1
			inIface = false
			if inConfig {
				ep.configValue = blob[i+5]
			}
		case descTypeInterface:
			if inConfig && length >= 4 {
				inIface = blob[i+2] == 0 && blob[i+3] == 0
			}
		case descTypeEndpoint:
			if inConfig && inIface && length >= 4 && blob[i+3]&transferTypeMask == transferTypeInterrupt {
				addr := blob[i+2]
				if addr&endpointDirIn != 0 {
					ep.rx = addr
					haveRx = true
				} else {
					ep.tx = addr
					haveTx = true
				}
			}
		}
		i += length
	}

	if configIdx < 1 {
		return ep, fmt.Errorf("device exposes %d configuration(s), need the second one", configIdx+1)
	}
	if !haveRx || !haveTx {
		return ep, ErrEndpointRoles
	}
	return ep, nil
}
