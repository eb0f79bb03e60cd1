package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadSetupFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.json")
	data := []byte(`{"setup": ["b04800", "b04060"]}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSetup(path)
	if err != nil {
		t.Fatalf("LoadSetup: %v", err)
	}
	want := [][]byte{{0xb0, 0x48, 0x00}, {0xb0, 0x40, 0x60}}
	if !reflect.DeepEqual(s.Payloads, want) {
		t.Errorf("got %x, want %x", s.Payloads, want)
	}
}

func TestLoadSetupMissingExplicitPath(t *testing.T) {
	if _, err := LoadSetup(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing explicit path")
	}
}

func TestLoadSetupBadHex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.json")
	if err := os.WriteFile(path, []byte(`{"setup": ["zz"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSetup(path); err == nil {
		t.Error("expected error for invalid hex")
	}
}

func TestLoadSetupBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "setup.json")
	if err := os.WriteFile(path, []byte(`{`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSetup(path); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
