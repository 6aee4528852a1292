package netx

import (
	"fmt"
	"net"

	"github.com/projectdiscovery/mapcidr"
)

// LocalNetworks24 returns all local network interfaces as /24 IPNet ranges (IPv4 only)
func LocalNetworks24() ([]*net.IPNet, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	var networks []*net.IPNet
	seen := make(map[string]struct{})

	for _, iface := range interfaces {
		// Skip loopback and down interfaces
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			// Only process IPv4 addresses
			ip := ipNet.IP.To4()
			if ip == nil {
				continue
			}

			// Only process private networks
			if !ip.IsPrivate() {
				continue
			}

			// Convert to /24 network
			mask24 := net.CIDRMask(24, 32)
			network24 := &net.IPNet{
				IP:   ip.Mask(mask24),
				Mask: mask24,
			}

			// Avoid duplicates
			key := network24.String()
			if _, exists := seen[key]; exists {
				continue
			}
			seen[key] = struct{}{}

			networks = append(networks, network24)
		}
	}

	return networks, nil
}

// ExpandRange expands a CIDR or single IP into the list of host IPs it
// covers, excluding network and broadcast addresses.
func ExpandRange(target string) ([]net.IP, *net.IPNet, error) {
	// A bare IP is a range of one
	if ip := net.ParseIP(target); ip != nil {
		return []net.IP{ip}, nil, nil
	}

	_, network, err := net.ParseCIDR(target)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid target %s (must be CIDR or IP): %w", target, err)
	}

	addrs, err := mapcidr.IPAddresses(network.String())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to expand CIDR %s: %w", network.String(), err)
	}

	var ips []net.IP
	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil {
			continue
		}
		if IsNetworkOrBroadcast(ip, network) {
			continue
		}
		ips = append(ips, ip)
	}

	return ips, network, nil
}

// IsNetworkOrBroadcast checks if an IP is the network or broadcast address
func IsNetworkOrBroadcast(ip net.IP, network *net.IPNet) bool {
	if network == nil {
		return false
	}

	// Network address
	if ip.Equal(network.IP) {
		return true
	}

	// Broadcast address
	broadcast := make(net.IP, len(network.IP))
	copy(broadcast, network.IP)
	for i := range broadcast {
		broadcast[i] |= ^network.Mask[i]
	}
	return ip.Equal(broadcast)
}
