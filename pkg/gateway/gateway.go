// Package gateway checks reachability of candidate gateway addresses.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/homebox/lanmap/pkg/probe"
	"github.com/projectdiscovery/gologger"
)

// ErrNoneReachable is returned when no candidate gateway responds.
var ErrNoneReachable = errors.New("no gateway candidate is reachable")

// FindReachable probes the candidates in order and returns the first one
// that answers. A probe error on one candidate counts as unreachable and
// never aborts the iteration.
func FindReachable(ctx context.Context, prober probe.Prober, candidates []string, timeout time.Duration) (string, error) {
	for _, candidate := range candidates {
		if Reachable(ctx, prober, candidate, timeout) {
			return candidate, nil
		}
		gologger.Verbose().Msgf("gateway %s is not reachable", candidate)
	}
	return "", ErrNoneReachable
}

// Reachable probes a single candidate and reports whether it answered.
func Reachable(ctx context.Context, prober probe.Prober, candidate string, timeout time.Duration) bool {
	devices, err := prober.Probe(ctx, candidate, timeout)
	if err != nil {
		return false
	}
	return len(devices) > 0
}
