// Package probe resolves network addresses to hardware addresses.
// Resolution is performed in a slow fashion
// - UDP packets are sent to the target IPs to trigger OS ARP resolution
// - the prober waits for resolution to settle within the timeout window
// - the ARP table is read to collect the responders
//
// Non-responders are simply absent from the result, a timeout is never an
// error.
package probe

import (
	"context"
	"time"

	"github.com/homebox/lanmap/pkg/types"
)

// Prober sends link-layer resolution requests to one address or an address
// range and returns the observed (address, hardware address) pairs within
// a timeout window.
type Prober interface {
	// Probe resolves a single target address.
	Probe(ctx context.Context, target string, timeout time.Duration) ([]types.Device, error)
	// ProbeRange resolves all responders in a CIDR range (or single IP).
	ProbeRange(ctx context.Context, target string, timeout time.Duration) ([]types.Device, error)
}
