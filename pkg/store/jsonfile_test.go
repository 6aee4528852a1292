package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempStore(t *testing.T) *JSONFile {
	t.Helper()
	return NewJSONFile(filepath.Join(t.TempDir(), "lanmap.json"))
}

func TestGetAbsentFile(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Get("fav_devices"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound for absent file", err)
	}
}

func TestGetAbsentKey(t *testing.T) {
	s := tempStore(t)
	if err := s.Set("other", 42); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := s.Get("fav_devices"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound for absent key", err)
	}
}

func TestSetGetRoundTrip(t *testing.T) {
	s := tempStore(t)

	value := []any{"printer", []string{"192.168.178.50", "aa:bb:cc:dd:ee:01"}, 1000}
	if err := s.Set("fav_devices", []any{value}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	raw, err := s.Get("fav_devices")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	var decoded []json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("stored value is not a list: %v", err)
	}
	if len(decoded) != 1 {
		t.Errorf("stored list has %d entries, want 1", len(decoded))
	}
}

func TestSetIsFullReplace(t *testing.T) {
	s := tempStore(t)

	if err := s.Set("fav_devices", []string{"a", "b", "c"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("fav_devices", []string{"d"}); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	raw, err := s.Get("fav_devices")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var value []string
	if err := json.Unmarshal(raw, &value); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(value) != 1 || value[0] != "d" {
		t.Errorf("value = %v, want full replacement [d]", value)
	}
}

func TestSetPreservesOtherKeys(t *testing.T) {
	s := tempStore(t)

	if err := s.Set("fav_devices", []string{"a"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Set("other", "value"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, err := s.Get("fav_devices"); err != nil {
		t.Errorf("Get(fav_devices) error = %v after writing another key", err)
	}
}

func TestBackupAbsentFile(t *testing.T) {
	s := tempStore(t)
	if _, err := s.Backup(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("Backup() error = %v, want ErrNotFound", err)
	}
}

func TestBackupCopiesDocument(t *testing.T) {
	s := tempStore(t)
	if err := s.Set("fav_devices", []string{"a"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	destination, err := s.Backup("")
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if !strings.HasPrefix(destination, s.Path()+".") || !strings.HasSuffix(destination, ".bak") {
		t.Errorf("destination = %s, want timestamped sibling of %s", destination, s.Path())
	}

	source, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read source: %v", err)
	}
	copied, err := os.ReadFile(destination)
	if err != nil {
		t.Fatalf("read backup: %v", err)
	}
	if string(source) != string(copied) {
		t.Error("backup content differs from source")
	}
}

func TestBackupExplicitDestination(t *testing.T) {
	s := tempStore(t)
	if err := s.Set("fav_devices", []string{"a"}); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	want := filepath.Join(t.TempDir(), "copy.json")
	destination, err := s.Backup(want)
	if err != nil {
		t.Fatalf("Backup() error = %v", err)
	}
	if destination != want {
		t.Errorf("destination = %s, want %s", destination, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("backup file missing: %v", err)
	}
}
