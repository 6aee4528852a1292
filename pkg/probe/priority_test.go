package probe

import (
	"net"
	"testing"

	"github.com/homebox/lanmap/pkg/netx"
)

func TestPriorityTiers(t *testing.T) {
	_, network, _ := net.ParseCIDR("192.168.178.0/24")

	tests := []struct {
		name string
		ip   string
		want int
	}{
		{name: "router .1", ip: "192.168.178.1", want: tierInfrastructure},
		{name: "gateway .254", ip: "192.168.178.254", want: tierInfrastructure},
		{name: "reserved .2", ip: "192.168.178.2", want: tierReserved},
		{name: "reserved .250", ip: "192.168.178.250", want: tierReserved},
		{name: "early dhcp .6", ip: "192.168.178.6", want: tierEarlyDHCP},
		{name: "dhcp pool .100", ip: "192.168.178.100", want: tierDHCPPool},
		{name: "long tail .25", ip: "192.168.178.25", want: tierLongTail},
		{name: "long tail .240", ip: "192.168.178.240", want: tierLongTail},
		{name: "network .0", ip: "192.168.178.0", want: tierExcluded},
		{name: "broadcast .255", ip: "192.168.178.255", want: tierExcluded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := priority(net.ParseIP(tt.ip), network); got != tt.want {
				t.Errorf("priority(%s) = %d, want %d", tt.ip, got, tt.want)
			}
		})
	}
}

func TestSortByPriorityOrdering(t *testing.T) {
	ips, network, err := netx.ExpandRange("192.168.178.0/24")
	if err != nil {
		t.Fatalf("ExpandRange() error = %v", err)
	}

	SortByPriority(ips, network)

	// Priorities must be non-increasing across the sorted slice
	for i := 1; i < len(ips); i++ {
		if priority(ips[i], network) > priority(ips[i-1], network) {
			t.Fatalf("IPs not in priority order at index %d: %s after %s", i, ips[i], ips[i-1])
		}
	}

	// Infrastructure addresses come first
	first := ips[0].To4()
	second := ips[1].To4()
	if first == nil || second == nil {
		t.Fatal("expected IPv4 addresses")
	}
	if first[3] != 1 || second[3] != 254 {
		t.Errorf("first two IPs = .%d, .%d, want .1 and .254", first[3], second[3])
	}
}

func TestSortByPriorityDeterministic(t *testing.T) {
	first, network, _ := netx.ExpandRange("192.168.178.0/24")
	second, _, _ := netx.ExpandRange("192.168.178.0/24")

	SortByPriority(first, network)
	SortByPriority(second, network)

	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("ordering not deterministic at index %d: %s vs %s", i, first[i], second[i])
		}
	}
}

func TestCompareIP(t *testing.T) {
	tests := []struct {
		name string
		ip1  string
		ip2  string
		want int
	}{
		{name: "ip1 < ip2", ip1: "192.168.178.1", ip2: "192.168.178.2", want: -1},
		{name: "ip1 > ip2", ip1: "192.168.178.2", ip2: "192.168.178.1", want: 1},
		{name: "equal", ip1: "192.168.178.1", ip2: "192.168.178.1", want: 0},
		{name: "ipv4 before ipv6", ip1: "192.168.178.1", ip2: "2001:db8::1", want: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := compareIP(net.ParseIP(tt.ip1), net.ParseIP(tt.ip2)); got != tt.want {
				t.Errorf("compareIP() = %d, want %d", got, tt.want)
			}
		})
	}
}
