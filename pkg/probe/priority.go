package probe

import (
	"net"
	"sort"

	"github.com/homebox/lanmap/pkg/netx"
)

// Priority tiers based on real-world address allocation patterns in home
// and small-office networks. Higher scores answer more often.
const (
	tierInfrastructure = 100 // .1, .254 (routers/gateways)
	tierReserved       = 90  // .2-.5, .250-.253
	tierEarlyDHCP      = 80  // .6-.10
	tierDHCPPool       = 50  // .50-.200
	tierLongTail       = 20  // everything else
	tierExcluded       = 0   // network/broadcast
)

// SortByPriority orders IPs so that the addresses most likely to be online
// are triggered first. Ties break by ascending address for deterministic
// sweeps. IPv6 and non-/24 shapes keep the long-tail default.
func SortByPriority(ips []net.IP, network *net.IPNet) {
	sort.SliceStable(ips, func(i, j int) bool {
		pi, pj := priority(ips[i], network), priority(ips[j], network)
		if pi != pj {
			return pi > pj
		}
		return compareIP(ips[i], ips[j]) < 0
	})
}

// priority scores one address by its last octet.
func priority(ip net.IP, network *net.IPNet) int {
	ip4 := ip.To4()
	if ip4 == nil {
		return tierLongTail
	}
	if netx.IsNetworkOrBroadcast(ip, network) {
		return tierExcluded
	}

	switch octet := int(ip4[3]); {
	case octet == 1 || octet == 254:
		return tierInfrastructure
	case octet >= 2 && octet <= 5, octet >= 250 && octet <= 253:
		return tierReserved
	case octet >= 6 && octet <= 10:
		return tierEarlyDHCP
	case octet >= 50 && octet <= 200:
		return tierDHCPPool
	default:
		return tierLongTail
	}
}

// compareIP compares two IPs byte-wise. IPv4 always sorts before IPv6.
func compareIP(ip1, ip2 net.IP) int {
	ip1v4 := ip1.To4()
	ip2v4 := ip2.To4()

	if ip1v4 != nil && ip2v4 == nil {
		return -1
	}
	if ip1v4 == nil && ip2v4 != nil {
		return 1
	}
	if ip1v4 != nil {
		ip1, ip2 = ip1v4, ip2v4
	}

	for i := 0; i < len(ip1) && i < len(ip2); i++ {
		if ip1[i] < ip2[i] {
			return -1
		}
		if ip1[i] > ip2[i] {
			return 1
		}
	}
	if len(ip1) != len(ip2) {
		if len(ip1) < len(ip2) {
			return -1
		}
		return 1
	}
	return 0
}
