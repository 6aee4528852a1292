//go:build windows

package probe

import (
	"bufio"
	"fmt"
	"os/exec"
	"strings"

	"github.com/homebox/lanmap/pkg/types"
)

// readARPTable reads the local ARP table on Windows using 'arp -a' command
func readARPTable() ([]types.Device, error) {
	cmd := exec.Command("arp", "-a")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to execute arp -a: %w", err)
	}

	var devices []types.Device
	scanner := bufio.NewScanner(strings.NewReader(string(output)))

	// Windows arp -a output has two sections: Interface and ARP entries
	// Format example:
	// Interface: 192.168.1.100 --- 0xa
	//   Internet Address      Physical Address      Type
	//   192.168.1.1           aa-bb-cc-dd-ee-ff     dynamic
	//   192.168.1.255         ff-ff-ff-ff-ff-ff     static

	inARPTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.Contains(line, "Internet Address") && strings.Contains(line, "Physical Address") {
			inARPTable = true
			continue
		}

		if strings.HasPrefix(line, "Interface:") {
			inARPTable = false
			continue
		}

		if !inARPTable {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		ipStr := fields[0]
		macStr := fields[1]

		// Skip incomplete and broadcast entries
		if macStr == "incomplete" || strings.HasPrefix(macStr, "ff-ff-ff-ff-ff-ff") {
			continue
		}

		// Windows MAC format uses dashes
		macStr = strings.ReplaceAll(macStr, "-", ":")

		device, ok := tableEntry(ipStr, macStr)
		if !ok {
			continue
		}
		devices = append(devices, device)
	}

	return devices, scanner.Err()
}
