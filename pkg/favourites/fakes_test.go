package favourites

import (
	"context"
	"encoding/json"
	"time"

	"github.com/homebox/lanmap/pkg/store"
	"github.com/homebox/lanmap/pkg/types"
)

// fakeProber serves canned answers and records what was asked.
type fakeProber struct {
	rangeResult  []types.Device
	probeResults map[string][]types.Device
	probeCalls   []string
	rangeCalls   int
}

func (p *fakeProber) Probe(_ context.Context, target string, _ time.Duration) ([]types.Device, error) {
	p.probeCalls = append(p.probeCalls, target)
	return p.probeResults[target], nil
}

func (p *fakeProber) ProbeRange(_ context.Context, _ string, _ time.Duration) ([]types.Device, error) {
	p.rangeCalls++
	return p.rangeResult, nil
}

// memoryStore is an in-memory Store that counts writes.
type memoryStore struct {
	documents map[string]json.RawMessage
	writes    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{documents: make(map[string]json.RawMessage)}
}

func (s *memoryStore) Get(key string) (json.RawMessage, error) {
	raw, ok := s.documents[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return raw, nil
}

func (s *memoryStore) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.documents[key] = raw
	s.writes++
	return nil
}

func (s *memoryStore) Document() (json.RawMessage, error) {
	if len(s.documents) == 0 {
		return nil, store.ErrNotFound
	}
	return json.Marshal(s.documents)
}

func (s *memoryStore) Backup(destination string) (string, error) {
	if _, err := s.Document(); err != nil {
		return "", err
	}
	if destination == "" {
		destination = "memory.bak"
	}
	return destination, nil
}

// favouritesIn decodes the persisted list under key for assertions.
func (s *memoryStore) favouritesIn(key string) []types.Favourite {
	var favourites []types.Favourite
	if raw, ok := s.documents[key]; ok {
		_ = json.Unmarshal(raw, &favourites)
	}
	return favourites
}
