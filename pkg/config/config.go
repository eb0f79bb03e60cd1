// Package config loads the device setup payload. The bytes the Nocturn
// receives on connect are opaque, device specific configuration (LED ring
// demos, optional handshake strings), so they are data, not code.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/golang/glog"

	"github.com/nocturnd/nocturnd/pkg/nocturn"
)

// Setup holds the payloads sent to the device after a successful connect,
// one interrupt transfer each, in order.
type Setup struct {
	Payloads [][]byte
}

type setupFile struct {
	// Setup is a list of hex strings, each one outgoing transfer.
	Setup []string `json:"setup"`
}

// DefaultPath returns the XDG location of the setup file.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "nocturnd", "setup.json")
}

// LoadSetup reads the setup payload from path, or from DefaultPath when
// path is empty. A missing file yields the built-in default payload;
// anything else that goes wrong is an error.
func LoadSetup(path string) (*Setup, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
	case os.IsNotExist(err) && !explicit:
		glog.V(1).Infof("No setup file at %s, using built-in payload", path)
		return parseSetup(nocturn.DefaultSetup())
	default:
		return nil, fmt.Errorf("reading setup file: %w", err)
	}

	var sf setupFile
	if err := json.Unmarshal(raw, &sf); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	glog.Infof("Using setup payload from %s (%d transfers)", path, len(sf.Setup))
	return parseSetup(sf.Setup)
}

func parseSetup(entries []string) (*Setup, error) {
	s := &Setup{}
	for i, hs := range entries {
		p, err := hex.DecodeString(hs)
		if err != nil {
			return nil, fmt.Errorf("setup entry %d (%q): %w", i, hs, err)
		}
		if len(p) == 0 {
			return nil, fmt.Errorf("setup entry %d is empty", i)
		}
		s.Payloads = append(s.Payloads, p)
	}
	return s, nil
}
