package favourites

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/homebox/lanmap/pkg/probe"
	"github.com/homebox/lanmap/pkg/store"
	"github.com/homebox/lanmap/pkg/types"
)

// DefaultKey is the document key the favourites list is persisted under.
const DefaultKey = "fav_devices"

// ErrUnresolvable is returned when a hardware address cannot be determined
// for a save operation. The operation aborts without a partial write.
var ErrUnresolvable = errors.New("hardware address could not be resolved")

// Service manages the persisted favourites list.
type Service struct {
	store        store.Store
	prober       probe.Prober
	key          string
	probeTimeout time.Duration
}

// NewService creates a favourites service. An empty key selects DefaultKey.
func NewService(st store.Store, prober probe.Prober, key string, probeTimeout time.Duration) *Service {
	if key == "" {
		key = DefaultKey
	}
	if probeTimeout <= 0 {
		probeTimeout = 2 * time.Second
	}
	return &Service{store: st, prober: prober, key: key, probeTimeout: probeTimeout}
}

// Load returns the persisted favourites. An absent document or key yields
// an empty list, not an error.
func (s *Service) Load() ([]types.Favourite, error) {
	raw, err := s.store.Get(s.key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var favourites []types.Favourite
	if err := json.Unmarshal(raw, &favourites); err != nil {
		return nil, fmt.Errorf("favourites under key %s are malformed: %w", s.key, err)
	}
	return favourites, nil
}

// Save stores a favourite under name, overwriting any existing records
// with the same name. A missing hardware address is resolved from the
// snapshot when one is given, otherwise by a direct probe; when neither
// yields one the save aborts with ErrUnresolvable and nothing is written.
// A non-positive lastSeen means now.
func (s *Service) Save(ctx context.Context, name, ip, mac string, lastSeen int64, snapshot types.Snapshot) error {
	if lastSeen <= 0 {
		lastSeen = time.Now().Unix()
	}

	if mac == "" {
		resolved, err := s.resolveMAC(ctx, ip, snapshot)
		if err != nil {
			return err
		}
		mac = resolved
	}
	mac = types.NormalizeMAC(mac)

	favourites, err := s.Load()
	if err != nil {
		return err
	}

	kept := make([]types.Favourite, 0, len(favourites)+1)
	for _, favourite := range favourites {
		if favourite.Name != name {
			kept = append(kept, favourite)
		}
	}
	kept = append(kept, types.Favourite{Name: name, IP: ip, MAC: mac, LastSeen: lastSeen})

	return s.persist(kept)
}

// Delete removes all records named name and reports whether any existed.
// Nothing is written when there was nothing to remove.
func (s *Service) Delete(name string) (bool, error) {
	favourites, err := s.Load()
	if err != nil {
		return false, err
	}

	kept := make([]types.Favourite, 0, len(favourites))
	for _, favourite := range favourites {
		if favourite.Name != name {
			kept = append(kept, favourite)
		}
	}
	if len(kept) == len(favourites) {
		return false, nil
	}

	if err := s.persist(kept); err != nil {
		return false, err
	}
	return true, nil
}

// Backup writes a copy of the whole document next to the source (or to
// destination when given) and returns the path written.
func (s *Service) Backup(destination string) (string, error) {
	return s.store.Backup(destination)
}

// resolveMAC finds the hardware address for ip, from the snapshot when one
// is available, by direct probe otherwise.
func (s *Service) resolveMAC(ctx context.Context, ip string, snapshot types.Snapshot) (string, error) {
	for _, device := range snapshot {
		if device.IP == ip {
			return device.MAC, nil
		}
	}
	if len(snapshot) > 0 {
		// Caller supplied a snapshot and the address is not in it
		return "", fmt.Errorf("%w: %s not in snapshot", ErrUnresolvable, ip)
	}

	devices, err := s.prober.Probe(ctx, ip, s.probeTimeout)
	if err != nil || len(devices) == 0 {
		return "", fmt.Errorf("%w: no response from %s", ErrUnresolvable, ip)
	}
	return devices[0].MAC, nil
}

// persist rewrites the whole favourites list under the service key.
func (s *Service) persist(favourites []types.Favourite) error {
	return s.store.Set(s.key, favourites)
}
