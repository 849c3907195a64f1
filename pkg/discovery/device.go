package discovery

import (
	"sort"
	"time"
)

// DeviceRecord is the canonical merged entity produced by the Correlator.
// It is never constructed directly by drivers; it comes into existence
// only through Correlator.OnObservation and is mutated only by merge.
//
// DeviceRecord carries no mutex: the Correlator is its sole writer and
// publishes copies (see Snapshot) to observers, so concurrent readers
// never race with the single mutating goroutine.
type DeviceRecord struct {
	MAC          string
	IPv4         string
	IPv6         []IPv6Address
	Hostname     string
	FQDN         string
	Workgroup    string
	Manufacturer string
	OSRaw        string // explicit OS string as reported by a scanner, pre-classification
	OSFamily     string
	OSVersion    string
	Model        string
	Usage        string
	UsageScore   int
	Ports        map[int]struct{}
	Services     map[serviceKey]ServiceDescriptor
	Sources      map[Source]struct{}
	DiscoveredVia map[Source]struct{}
	FirstSeen    time.Time
	LastSeen     time.Time
	Confidence   int
}

// newDeviceRecord allocates a DeviceRecord ready to receive its first merge.
func newDeviceRecord() *DeviceRecord {
	return &DeviceRecord{
		Ports:         make(map[int]struct{}),
		Services:      make(map[serviceKey]ServiceDescriptor),
		Sources:       make(map[Source]struct{}),
		DiscoveredVia: make(map[Source]struct{}),
	}
}

// hasIPv6 reports whether addr (already zone-stripped) is already present.
func (d *DeviceRecord) hasIPv6(addr string) bool {
	for _, existing := range d.IPv6 {
		if existing.Addr == addr {
			return true
		}
	}
	return false
}

// merge folds obs into d under the first-non-empty-wins rule for scalars,
// set-union for collections, and min/max tracking of first_seen/last_seen
// across every observation merged so far, independent of arrival order
// (spec.md §4.6 "Merge rules", §8 "Order independence of final state").
func (d *DeviceRecord) merge(obs Observation) {
	if d.FirstSeen.IsZero() || obs.Timestamp.Before(d.FirstSeen) {
		d.FirstSeen = obs.Timestamp
	}
	if obs.Timestamp.After(d.LastSeen) {
		d.LastSeen = obs.Timestamp
	}

	if d.MAC == "" && obs.MAC != "" {
		d.MAC = obs.MAC
	}
	if d.IPv4 == "" && obs.IPv4 != "" {
		d.IPv4 = obs.IPv4
	}
	if d.Hostname == "" && obs.Hostname != "" {
		d.Hostname = obs.Hostname
	}
	if d.FQDN == "" && obs.FQDN != "" {
		d.FQDN = obs.FQDN
	}
	if d.Workgroup == "" && obs.Workgroup != "" {
		d.Workgroup = obs.Workgroup
	}
	if d.Manufacturer == "" && obs.Manufacturer != "" {
		d.Manufacturer = obs.Manufacturer
	}
	if d.OSRaw == "" && obs.OS != "" {
		d.OSRaw = obs.OS
	}

	for _, ip6 := range obs.IPv6 {
		if !d.hasIPv6(ip6.Addr) {
			d.IPv6 = append(d.IPv6, ip6)
		}
	}

	for _, p := range obs.Ports {
		d.Ports[p] = struct{}{}
	}

	for _, svc := range obs.Services {
		k := svc.key()
		d.Ports[svc.Port] = struct{}{}
		existing, ok := d.Services[k]
		if !ok || len(svc.Version) > len(existing.Version) {
			d.Services[k] = svc
		}
	}

	if obs.Source != "" {
		d.Sources[obs.Source] = struct{}{}
		d.DiscoveredVia[obs.Source] = struct{}{}
	}
}

// PrimaryIdentifier returns the identifier the Correlator would use to key
// a new record built solely from this state, preferring MAC, then IPv4,
// then the first IPv6 address (spec.md §4.6 "Keying").
func (d *DeviceRecord) PrimaryIdentifier() (kind string, value string, ok bool) {
	switch {
	case d.MAC != "":
		return "mac", d.MAC, true
	case d.IPv4 != "":
		return "ipv4", d.IPv4, true
	case len(d.IPv6) > 0:
		return "ipv6", d.IPv6[0].Addr, true
	default:
		return "", "", false
	}
}

// SortedPorts returns the open-port set in ascending order.
func (d *DeviceRecord) SortedPorts() []int {
	out := make([]int, 0, len(d.Ports))
	for p := range d.Ports {
		out = append(out, p)
	}
	sort.Ints(out)
	return out
}

// SortedServices returns the de-duplicated service list ordered by port
// then protocol, for deterministic serialisation.
func (d *DeviceRecord) SortedServices() []ServiceDescriptor {
	out := make([]ServiceDescriptor, 0, len(d.Services))
	for _, s := range d.Services {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Port != out[j].Port {
			return out[i].Port < out[j].Port
		}
		return out[i].Proto < out[j].Proto
	})
	return out
}

// IsDualStack reports whether the record has both an IPv4 and at least one
// non-link-local-only... (kept simple: any IPv4 and any IPv6 present).
func (d *DeviceRecord) IsDualStack() bool {
	return d.IPv4 != "" && len(d.IPv6) > 0
}

// Snapshot returns a deep, detached copy of d safe to hand to observers
// outside the Correlator goroutine.
func (d *DeviceRecord) Snapshot() *DeviceRecord {
	cp := &DeviceRecord{
		MAC:          d.MAC,
		IPv4:         d.IPv4,
		Hostname:     d.Hostname,
		FQDN:         d.FQDN,
		Workgroup:    d.Workgroup,
		Manufacturer: d.Manufacturer,
		OSRaw:        d.OSRaw,
		OSFamily:     d.OSFamily,
		OSVersion:    d.OSVersion,
		Model:        d.Model,
		Usage:        d.Usage,
		UsageScore:   d.UsageScore,
		FirstSeen:    d.FirstSeen,
		LastSeen:     d.LastSeen,
		Confidence:   d.Confidence,
		Ports:        make(map[int]struct{}, len(d.Ports)),
		Services:     make(map[serviceKey]ServiceDescriptor, len(d.Services)),
		Sources:      make(map[Source]struct{}, len(d.Sources)),
		DiscoveredVia: make(map[Source]struct{}, len(d.DiscoveredVia)),
	}
	cp.IPv6 = append(cp.IPv6, d.IPv6...)
	for p := range d.Ports {
		cp.Ports[p] = struct{}{}
	}
	for k, v := range d.Services {
		cp.Services[k] = v
	}
	for s := range d.Sources {
		cp.Sources[s] = struct{}{}
	}
	for s := range d.DiscoveredVia {
		cp.DiscoveredVia[s] = struct{}{}
	}
	return cp
}
