// Package favourites tracks named device identities across network scans.
// It classifies each persisted favourite against a scan snapshot, decides
// what the new persisted record should look like, and reports which
// favourites are currently online. When address and hardware identity
// disagree, the hardware address wins: addresses are reassigned by DHCP
// all the time, hardware addresses are not.
package favourites
