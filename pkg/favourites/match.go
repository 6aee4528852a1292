package favourites

import (
	"github.com/homebox/lanmap/pkg/types"
)

// MatchState classifies one favourite against a snapshot.
type MatchState int

const (
	// StateNone - neither the address nor the hardware address was observed
	StateNone MatchState = iota
	// StateIPMoved - the hardware address was observed at a different address
	StateIPMoved
	// StateMACMoved - the address is occupied by a different hardware address
	StateMACMoved
	// StateConflict - both partial matches hold at once
	StateConflict
	// StateExact - some device matches both address and hardware address
	StateExact
)

// String implements fmt.Stringer.
func (s MatchState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateIPMoved:
		return "ip-moved"
	case StateMACMoved:
		return "mac-moved"
	case StateConflict:
		return "conflict"
	case StateExact:
		return "exact"
	default:
		return "unknown"
	}
}

// Match is the result of classifying a favourite against a snapshot.
// IPAt carries the address the favourite's hardware address was observed
// at (StateIPMoved, StateConflict). MACAt carries the hardware address
// observed at the favourite's address (StateMACMoved, StateConflict).
type Match struct {
	State MatchState
	IPAt  string
	MACAt string
}

// Classify matches the (ip, mac) pair of a favourite against a snapshot.
// Pure and total over any snapshot, including empty ones and snapshots
// with duplicate entries, where the first device by scan order wins for
// partial matches.
func Classify(ip, mac string, snapshot types.Snapshot) Match {
	// An exact match anywhere in the snapshot takes precedence, so the
	// whole snapshot is scanned before any partial match is concluded: a
	// duplicate occupying the address must not mask an exact match that
	// appears later in scan order.
	for _, device := range snapshot {
		if device.IP == ip && device.MAC == mac {
			return Match{State: StateExact}
		}
	}

	var ipAt, macAt string
	for _, device := range snapshot {
		if macAt == "" && device.IP == ip {
			macAt = device.MAC
		}
		if ipAt == "" && device.MAC == mac {
			ipAt = device.IP
		}
	}

	switch {
	case ipAt != "" && macAt != "":
		return Match{State: StateConflict, IPAt: ipAt, MACAt: macAt}
	case macAt != "":
		return Match{State: StateMACMoved, MACAt: macAt}
	case ipAt != "":
		return Match{State: StateIPMoved, IPAt: ipAt}
	default:
		return Match{State: StateNone}
	}
}
