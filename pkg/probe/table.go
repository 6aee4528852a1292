package probe

import (
	"net"

	"github.com/homebox/lanmap/pkg/types"
)

// tableEntry validates one raw table line into a Device with a canonical
// lowercase MAC. IPv4 only.
func tableEntry(ipStr, macStr string) (types.Device, bool) {
	ip := net.ParseIP(ipStr)
	if ip == nil || ip.To4() == nil {
		return types.Device{}, false
	}

	mac, err := net.ParseMAC(macStr)
	if err != nil {
		return types.Device{}, false
	}

	return types.Device{IP: ip.String(), MAC: mac.String()}, true
}
