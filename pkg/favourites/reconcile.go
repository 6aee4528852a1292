package favourites

import (
	"context"
	"time"

	"github.com/homebox/lanmap/pkg/probe"
	"github.com/homebox/lanmap/pkg/store"
	"github.com/homebox/lanmap/pkg/types"
	"github.com/rs/xid"
)

// ConflictSuffix is appended to the favourite name of the derived record
// that preserves the foreign hardware identity observed at the old address
// when a conflict is split.
const ConflictSuffix = "_CONFLICT_OLDIP_NEWMAC"

// ReconcilerOptions tunes a reconciliation pass.
type ReconcilerOptions struct {
	// Key is the document key of the favourites list (DefaultKey if empty)
	Key string
	// Range is the address range a pass snapshots (CIDR or single IP)
	Range string
	// Timeout bounds the full-range snapshot probe (default 2s)
	Timeout time.Duration
	// RetryTimeout bounds the single targeted recovery probe issued for a
	// favourite that did not appear in the snapshot (default 2s)
	RetryTimeout time.Duration
}

func (o *ReconcilerOptions) withDefaults() {
	if o.Key == "" {
		o.Key = DefaultKey
	}
	if o.Timeout <= 0 {
		o.Timeout = 2 * time.Second
	}
	if o.RetryTimeout <= 0 {
		o.RetryTimeout = 2 * time.Second
	}
}

// Event is one structured entry of a reconciliation pass, one per
// favourite processed. Presentation is left to the caller.
type Event struct {
	Name      string
	State     MatchState
	Online    bool
	Recovered bool // offline in the snapshot, answered the targeted retry
	IP        string
	MAC       string
	NewIP     string // observed address for the MAC (ip-moved, conflict)
	NewMAC    string // observed MAC at the address (mac-moved, conflict)
	LastSeen  int64
}

// Report is the outcome of one reconciliation pass.
type Report struct {
	PassID  string
	Now     int64
	Online  []types.Favourite
	Updated []types.Favourite
	Events  []Event
}

// Reconciler runs reconciliation passes: snapshot the range once, classify
// every favourite against it, and persist the updated list in a single
// whole-document write at the end of the pass.
type Reconciler struct {
	prober  probe.Prober
	service *Service
	options ReconcilerOptions
}

// NewReconciler creates a reconciler over the given collaborators.
func NewReconciler(prober probe.Prober, st store.Store, options ReconcilerOptions) *Reconciler {
	options.withDefaults()
	return &Reconciler{
		prober:  prober,
		service: NewService(st, prober, options.Key, options.RetryTimeout),
		options: options,
	}
}

// Service returns the favourites service sharing this reconciler's store
// and key.
func (r *Reconciler) Service() *Service {
	return r.service
}

// Run performs one full reconciliation pass and persists the result.
func (r *Reconciler) Run(ctx context.Context) (*Report, error) {
	favourites, err := r.service.Load()
	if err != nil {
		return nil, err
	}

	snapshot, err := r.prober.ProbeRange(ctx, r.options.Range, r.options.Timeout)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	online, updated, events := r.reconcile(ctx, favourites, snapshot, now)

	// The one write of the pass, after every favourite has been processed
	if err := r.service.persist(updated); err != nil {
		return nil, err
	}

	return &Report{
		PassID:  xid.New().String(),
		Now:     now,
		Online:  online,
		Updated: updated,
		Events:  events,
	}, nil
}

// reconcile classifies every favourite against the snapshot and builds the
// online report and the updated record list. It never aborts partway: a
// favourite whose status cannot be resolved is carried unchanged.
func (r *Reconciler) reconcile(ctx context.Context, favourites []types.Favourite, snapshot types.Snapshot, now int64) (online, updated []types.Favourite, events []Event) {
	online = make([]types.Favourite, 0, len(favourites))
	updated = make([]types.Favourite, 0, len(favourites))
	events = make([]Event, 0, len(favourites))

	for _, favourite := range favourites {
		match := Classify(favourite.IP, favourite.MAC, snapshot)
		event := Event{
			Name:     favourite.Name,
			State:    match.State,
			IP:       favourite.IP,
			MAC:      favourite.MAC,
			NewIP:    match.IPAt,
			NewMAC:   match.MACAt,
			LastSeen: favourite.LastSeen,
		}

		if match.State == StateNone {
			// The range sweep may have missed a slow-to-respond host, give
			// it one targeted chance before declaring it offline
			devices, err := r.prober.Probe(ctx, favourite.IP, r.options.RetryTimeout)
			if err == nil && len(devices) > 0 {
				match.State = StateExact
				event.State = StateExact
				event.Recovered = true
			}
		}

		switch match.State {
		case StateExact:
			event.Online = true
			online = append(online, favourite)
			updated = append(updated, types.Favourite{
				Name: favourite.Name, IP: favourite.IP, MAC: favourite.MAC, LastSeen: now,
			})

		case StateIPMoved:
			// The hardware identity answered from a new address
			event.Online = true
			online = append(online, types.Favourite{
				Name: favourite.Name, IP: match.IPAt, MAC: favourite.MAC, LastSeen: favourite.LastSeen,
			})
			updated = append(updated, types.Favourite{
				Name: favourite.Name, IP: match.IPAt, MAC: favourite.MAC, LastSeen: now,
			})

		case StateConflict:
			// Trust the hardware identity over the address: follow the MAC
			// to its new address, and keep the squatter at the old address
			// under a derived name instead of silently dropping it
			event.Online = true
			online = append(online, types.Favourite{
				Name: favourite.Name, IP: match.IPAt, MAC: favourite.MAC, LastSeen: favourite.LastSeen,
			})
			updated = append(updated,
				types.Favourite{
					Name: favourite.Name, IP: match.IPAt, MAC: favourite.MAC, LastSeen: now,
				},
				types.Favourite{
					Name: favourite.Name + ConflictSuffix, IP: favourite.IP, MAC: match.MACAt, LastSeen: now,
				},
			)

		case StateMACMoved:
			// The address answers with a foreign hardware identity. That
			// is no proof the favourite is gone, so the binding is kept
			// as-is rather than silently lost
			updated = append(updated, favourite)

		case StateNone:
			// Offline, carry unchanged with the original lastSeen
			updated = append(updated, favourite)
		}

		events = append(events, event)
	}

	return online, updated, events
}
