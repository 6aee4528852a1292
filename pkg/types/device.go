package types

import (
	"net"
	"strings"
)

// Device is one observed (address, hardware address) pair from a probe.
// It only lives for the duration of a single snapshot.
type Device struct {
	IP  string
	MAC string
}

// Snapshot is the set of devices observed by one probing pass. The
// producer enforces no uniqueness, duplicates are possible and callers
// must tolerate them (first match by scan order wins).
type Snapshot = []Device

// NormalizeMAC returns the canonical lowercase colon-separated form of a
// hardware address, or the input unchanged if it does not parse.
func NormalizeMAC(mac string) string {
	hw, err := net.ParseMAC(mac)
	if err != nil {
		return strings.ToLower(mac)
	}
	return hw.String()
}
