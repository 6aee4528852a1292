package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Favourite is a named, persisted device identity tracked across passes.
type Favourite struct {
	Name     string
	IP       string
	MAC      string
	LastSeen int64 // unix seconds, 0 = never seen
}

// LastSeenTime returns LastSeen as a time.Time.
func (f Favourite) LastSeenTime() time.Time {
	return time.Unix(f.LastSeen, 0)
}

// The persisted wire shape is the positional tuple
// [name, [ip, mac], lastSeen], kept for compatibility with existing
// deployments. A two-element tuple (no lastSeen) is accepted on read.

// MarshalJSON implements json.Marshaler.
func (f Favourite) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Name, [2]string{f.IP, f.MAC}, f.LastSeen})
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Favourite) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("favourite is not a tuple: %w", err)
	}
	if len(tuple) < 2 {
		return fmt.Errorf("favourite tuple has %d elements, want at least 2", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &f.Name); err != nil {
		return fmt.Errorf("favourite name: %w", err)
	}
	var pair [2]string
	if err := json.Unmarshal(tuple[1], &pair); err != nil {
		return fmt.Errorf("favourite address pair: %w", err)
	}
	f.IP, f.MAC = pair[0], pair[1]
	f.LastSeen = 0
	if len(tuple) > 2 {
		// older writers recorded fractional timestamps
		var seen float64
		if err := json.Unmarshal(tuple[2], &seen); err != nil {
			return fmt.Errorf("favourite lastSeen: %w", err)
		}
		f.LastSeen = int64(seen)
	}
	return nil
}
