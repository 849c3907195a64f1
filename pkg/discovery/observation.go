package discovery

import (
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

// IPv6Address is a classified IPv6 address as carried by an Observation or
// stored on a DeviceRecord. The textual form has any zone identifier
// stripped before comparison; Zone retains it separately so scope
// information is not lost.
type IPv6Address struct {
	Addr string
	Kind netutil.IPv6Kind
	Zone string
}

// NewIPv6Address classifies raw (which may carry a "%zone" suffix) and
// returns the address in normalised form. ok is false when raw does not
// parse as an IPv6 address.
func NewIPv6Address(raw string) (IPv6Address, bool) {
	bare, zone := netutil.StripZone(raw)
	addr, kind, ok := netutil.ClassifyIPv6(bare)
	if !ok {
		return IPv6Address{}, false
	}
	return IPv6Address{Addr: addr, Kind: kind, Zone: zone}, true
}

// ServiceDescriptor describes a single discovered network service.
type ServiceDescriptor struct {
	Port    int
	Proto   string // "tcp" or "udp"
	Name    string
	Version string
}

// key identifies a ServiceDescriptor for (port, protocol) de-duplication.
type serviceKey struct {
	port  int
	proto string
}

func (s ServiceDescriptor) key() serviceKey {
	return serviceKey{port: s.Port, proto: s.Proto}
}

// Source tags the discovery method that produced an Observation.
type Source string

const (
	SourceARP       Source = "arp"
	SourceNDP       Source = "ndp"
	SourceActiveTCP Source = "active-scan"
	SourcePassive   Source = "passive-capture"
	SourceMDNS      Source = "mdns"
	SourceSSDP      Source = "ssdp"
	SourceNetBIOS   Source = "netbios"
	SourceDHCP      Source = "dhcp"
)

// Observation is a single, immutable report from one source at one instant.
// A zero Observation (no identifiers) is never emitted onto the channel the
// Correlator reads from.
type Observation struct {
	Source      Source
	Timestamp   time.Time
	MAC         string
	IPv4        string
	IPv6        []IPv6Address
	Hostname    string
	FQDN        string
	Workgroup   string
	Manufacturer string
	OS          string
	Ports       []int
	Services    []ServiceDescriptor
	ServiceTags []string
}

// HasIdentifier reports whether the Observation carries at least one of
// MAC, IPv4, or any IPv6 address - the minimum required for it to ever
// result in a stored DeviceRecord.
func (o Observation) HasIdentifier() bool {
	return o.MAC != "" || o.IPv4 != "" || len(o.IPv6) > 0
}
