package store

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tidwall/gjson"
)

// JSONFile is a Store backed by a single JSON object on disk. Every Set
// rewrites the whole file, so a crash before the write leaves the prior
// document intact.
type JSONFile struct {
	path string
}

// NewJSONFile creates a store backed by the JSON document at path. The
// file does not have to exist.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

var _ Store = (*JSONFile)(nil)

// Path returns the backing file path.
func (s *JSONFile) Path() string {
	return s.path
}

// Get extracts the value under key without decoding the whole document.
func (s *JSONFile) Get(key string) (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	result := gjson.GetBytes(data, key)
	if !result.Exists() {
		return nil, ErrNotFound
	}
	return json.RawMessage(result.Raw), nil
}

// Set stores value under key, replacing the full document on disk.
func (s *JSONFile) Set(key string, value any) error {
	document := make(map[string]json.RawMessage)

	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, &document); err != nil {
			return fmt.Errorf("document at %s is not a JSON object: %w", s.path, err)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key %s: %w", key, err)
	}
	document[key] = raw

	encoded, err := json.Marshal(document)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, encoded, 0644)
}

// Document returns the entire raw document.
func (s *JSONFile) Document() (json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Backup copies the document to destination. When destination is empty a
// timestamped sibling of the source file is used.
func (s *JSONFile) Backup(destination string) (string, error) {
	data, err := s.Document()
	if err != nil {
		return "", err
	}

	if destination == "" {
		destination = s.path + "." + time.Now().Format("20060102150405") + ".bak"
	}
	if err := os.WriteFile(destination, data, 0644); err != nil {
		return "", err
	}
	return destination, nil
}
