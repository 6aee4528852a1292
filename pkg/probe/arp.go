package probe

import (
	"context"
	"net"
	"time"

	"github.com/homebox/lanmap/pkg/netx"
	"github.com/homebox/lanmap/pkg/types"
	"github.com/projectdiscovery/gcache"
	mapsutil "github.com/projectdiscovery/utils/maps"
	syncutil "github.com/projectdiscovery/utils/sync"
)

// Options tunes the ARP prober.
type Options struct {
	// TriggerParallelism bounds concurrent UDP trigger dials (default 5)
	TriggerParallelism int
	// TriggerSpacing is the delay between trigger dials to avoid
	// overwhelming the network (default 10ms)
	TriggerSpacing time.Duration
	// CacheSize and CacheTTL bound the recent-answer cache used by
	// single-target probes (defaults 512, 30s)
	CacheSize int
	CacheTTL  time.Duration
}

func (o *Options) withDefaults() {
	if o.TriggerParallelism <= 0 {
		o.TriggerParallelism = 5
	}
	if o.TriggerSpacing <= 0 {
		o.TriggerSpacing = 10 * time.Millisecond
	}
	if o.CacheSize <= 0 {
		o.CacheSize = 512
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
}

// ARP discovers peers by triggering OS ARP resolution with short UDP dials
// and reading the resulting ARP table.
type ARP struct {
	options Options
	recent  gcache.Cache[string, types.Device]
}

// NewARP creates an ARP prober.
func NewARP(options Options) *ARP {
	options.withDefaults()
	return &ARP{
		options: options,
		recent: gcache.New[string, types.Device](options.CacheSize).
			LRU().
			Expiration(options.CacheTTL).
			Build(),
	}
}

var _ Prober = (*ARP)(nil)

// Probe resolves a single target address. Answers seen within CacheTTL are
// served from the recent-answer cache without touching the network, so a
// retry right after a sweep does not re-trigger resolution.
func (a *ARP) Probe(ctx context.Context, target string, timeout time.Duration) ([]types.Device, error) {
	if device, err := a.recent.GetIFPresent(target); err == nil {
		return []types.Device{device}, nil
	}

	devices, err := a.sweep(ctx, target, timeout)
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		if device.IP == target {
			_ = a.recent.Set(device.IP, device)
			return []types.Device{device}, nil
		}
	}
	return nil, nil
}

// ProbeRange resolves all responders in a CIDR range (or single IP) within
// the timeout window.
func (a *ARP) ProbeRange(ctx context.Context, target string, timeout time.Duration) ([]types.Device, error) {
	devices, err := a.sweep(ctx, target, timeout)
	if err != nil {
		return nil, err
	}
	for _, device := range devices {
		_ = a.recent.Set(device.IP, device)
	}
	return devices, nil
}

// sweep triggers ARP resolution for every host in the target range, waits
// for the table to settle, then collects the entries inside the range.
func (a *ARP) sweep(ctx context.Context, target string, timeout time.Duration) ([]types.Device, error) {
	ips, network, err := netx.ExpandRange(target)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, nil
	}

	// Infrastructure addresses answer first, so trigger them first
	SortByPriority(ips, network)

	deadline := time.Now().Add(timeout)

	awg, err := syncutil.New(syncutil.WithSize(a.options.TriggerParallelism))
	if err != nil {
		return nil, err
	}

	for _, ip := range ips {
		select {
		case <-ctx.Done():
			goto done
		default:
		}
		if time.Now().After(deadline) {
			break
		}

		awg.Add()
		go func(targetIP net.IP) {
			defer awg.Done()

			// The dial itself is expected to fail, it only exists to make
			// the OS issue the ARP request
			conn, err := net.DialTimeout("udp", net.JoinHostPort(targetIP.String(), "12345"), 50*time.Millisecond)
			if err != nil {
				return
			}
			_ = conn.Close()
		}(ip)

		time.Sleep(a.options.TriggerSpacing)
	}

done:
	awg.Wait()

	// Let the ARP table settle for whatever remains of the window
	if remaining := time.Until(deadline); remaining > 0 {
		select {
		case <-time.After(remaining):
		case <-ctx.Done():
		}
	}

	table, err := readARPTable()
	if err != nil {
		return nil, err
	}

	seen := mapsutil.NewSyncLockMap[string, types.Device]()
	for _, device := range table {
		if !a.inRange(device, ips, network) {
			continue
		}
		if _, exists := seen.Get(device.IP); !exists {
			_ = seen.Set(device.IP, device)
		}
	}

	var result []types.Device
	for _, ip := range ips {
		if device, ok := seen.Get(ip.String()); ok {
			result = append(result, device)
		}
	}
	return result, nil
}

// inRange reports whether a table entry belongs to the swept target set.
func (a *ARP) inRange(device types.Device, ips []net.IP, network *net.IPNet) bool {
	ip := net.ParseIP(device.IP)
	if ip == nil {
		return false
	}
	if network != nil {
		return network.Contains(ip)
	}
	for _, candidate := range ips {
		if candidate.Equal(ip) {
			return true
		}
	}
	return false
}
