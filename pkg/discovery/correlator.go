package discovery

import (
	"sync"

	"github.com/corvidae-labs/netwatch/pkg/discovery/classify"
	"github.com/corvidae-labs/netwatch/pkg/discovery/oui"
)

// handle is a stable, generational reference to a slot in the Correlator's
// arena. Indexes store handles rather than pointers so that absorbing one
// record into another only requires rewriting index entries, never chasing
// or invalidating a pointer graph (spec.md §9 "Multi-identifier keying
// without cycles").
type handle struct {
	slot int
	gen  int
}

type arenaSlot struct {
	record *DeviceRecord
	gen    int
	live   bool
}

// Correlator is the single-owner keyed device store. All mutation happens
// on whichever goroutine calls OnObservation; callers are expected to
// serialise calls to it themselves (the Orchestrator does this by running
// a single consumer loop over the observation channel).
type Correlator struct {
	mu sync.RWMutex // taken by OnObservation (write) and the snapshot readers (read)

	arena []arenaSlot
	free  []int

	byMAC  map[string]handle
	byIPv4 map[string]handle
	byIPv6 map[string]handle

	classifier *classify.Classifier
	ouiReg     *oui.Registry
}

// NewCorrelator constructs an empty Correlator. ouiReg may be nil, in
// which case manufacturer resolution is simply skipped.
func NewCorrelator(classifier *classify.Classifier, ouiReg *oui.Registry) *Correlator {
	return &Correlator{
		byMAC:      make(map[string]handle),
		byIPv4:     make(map[string]handle),
		byIPv6:     make(map[string]handle),
		classifier: classifier,
		ouiReg:     ouiReg,
	}
}

func (c *Correlator) alloc(rec *DeviceRecord) handle {
	if len(c.free) > 0 {
		i := c.free[len(c.free)-1]
		c.free = c.free[:len(c.free)-1]
		c.arena[i].gen++
		c.arena[i].record = rec
		c.arena[i].live = true
		return handle{slot: i, gen: c.arena[i].gen}
	}
	c.arena = append(c.arena, arenaSlot{record: rec, gen: 1, live: true})
	return handle{slot: len(c.arena) - 1, gen: 1}
}

func (c *Correlator) resolve(h handle) *DeviceRecord {
	if h.slot < 0 || h.slot >= len(c.arena) {
		return nil
	}
	s := c.arena[h.slot]
	if !s.live || s.gen != h.gen {
		return nil
	}
	return s.record
}

// OnObservation ingests one Observation, creating or updating a
// DeviceRecord and keeping the MAC/IPv4/IPv6 indexes consistent. Zero-value
// Observations carrying no identifier are rejected (spec.md §3 invariant).
func (c *Correlator) OnObservation(obs Observation) (rec *DeviceRecord, created bool) {
	if !obs.HasIdentifier() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var found handle
	hit := false
	if obs.MAC != "" {
		if h, ok := c.byMAC[obs.MAC]; ok {
			found, hit = h, true
		}
	}
	if !hit && obs.IPv4 != "" {
		if h, ok := c.byIPv4[obs.IPv4]; ok {
			found, hit = h, true
		}
	}
	if !hit {
		for _, ip6 := range obs.IPv6 {
			if h, ok := c.byIPv6[ip6.Addr]; ok {
				found, hit = h, true
				break
			}
		}
	}

	var target *DeviceRecord
	if hit {
		target = c.resolve(found)
	}
	if target == nil {
		target = newDeviceRecord()
		found = c.alloc(target)
		created = true
	}

	target.merge(obs)
	c.reindex(found, target)
	c.enrich(target)

	return target, created
}

// enrich resolves manufacturer via OUI (when still unset) and runs the
// classifier to (re)derive OS family/version, usage, and the composite
// confidence score (spec.md §4.6 "Enrichment hook").
func (c *Correlator) enrich(rec *DeviceRecord) {
	if rec.Manufacturer == "" && rec.MAC != "" && c.ouiReg != nil {
		if vendor, ok := c.ouiReg.Lookup(rec.MAC); ok {
			rec.Manufacturer = vendor
		}
	}

	if c.classifier == nil {
		return
	}

	result := c.classifier.Classify(classify.Input{
		MAC:          rec.MAC,
		HasIPv4:      rec.IPv4 != "",
		IPv6Count:    len(rec.IPv6),
		Hostname:     rec.Hostname,
		Manufacturer: rec.Manufacturer,
		OSRaw:        rec.OSRaw,
		OSFamily:     rec.OSFamily,
		Model:        rec.Model,
		Usage:        rec.Usage,
		Ports:        rec.Ports,
	})
	rec.OSFamily = result.OSFamily
	rec.OSVersion = result.OSVersion
	rec.Usage = result.Usage
	rec.UsageScore = result.UsageScore
	rec.Confidence = result.Confidence
}

// reindex ensures every identifier now present on rec points at h, merging
// in any previously-independent record that shares one of rec's newly
// learnt identifiers (spec.md §4.6 "Dual-stack unification").
func (c *Correlator) reindex(h handle, rec *DeviceRecord) {
	if rec.MAC != "" {
		c.absorbIfDifferent(c.byMAC[rec.MAC], h, rec)
		c.byMAC[rec.MAC] = h
	}
	if rec.IPv4 != "" {
		c.absorbIfDifferent(c.byIPv4[rec.IPv4], h, rec)
		c.byIPv4[rec.IPv4] = h
	}
	for _, ip6 := range rec.IPv6 {
		c.absorbIfDifferent(c.byIPv6[ip6.Addr], h, rec)
		c.byIPv6[ip6.Addr] = h
	}
}

// absorbIfDifferent merges the record at old into keeper (rewriting all
// index entries that pointed at old) when old resolves to a live record
// distinct from keeper. A zero-value old handle (the default returned by a
// missing map entry) never resolves to anything live, so this is a no-op
// for genuinely new identifiers.
func (c *Correlator) absorbIfDifferent(old, keeper handle, rec *DeviceRecord) {
	if old == keeper {
		return
	}
	absorbed := c.resolve(old)
	if absorbed == nil || absorbed == rec {
		return
	}

	for mac, h := range c.byMAC {
		if h == old {
			c.byMAC[mac] = keeper
		}
	}
	for ip4, h := range c.byIPv4 {
		if h == old {
			c.byIPv4[ip4] = keeper
		}
	}
	for ip6, h := range c.byIPv6 {
		if h == old {
			c.byIPv6[ip6] = keeper
		}
	}

	for _, ip6 := range absorbed.IPv6 {
		if !rec.hasIPv6(ip6.Addr) {
			rec.IPv6 = append(rec.IPv6, ip6)
		}
	}
	for p := range absorbed.Ports {
		rec.Ports[p] = struct{}{}
	}
	for k, s := range absorbed.Services {
		if existing, ok := rec.Services[k]; !ok || len(s.Version) > len(existing.Version) {
			rec.Services[k] = s
		}
	}
	for s := range absorbed.Sources {
		rec.Sources[s] = struct{}{}
	}
	for s := range absorbed.DiscoveredVia {
		rec.DiscoveredVia[s] = struct{}{}
	}
	if rec.Hostname == "" {
		rec.Hostname = absorbed.Hostname
	}
	if rec.Manufacturer == "" {
		rec.Manufacturer = absorbed.Manufacturer
	}
	if absorbed.FirstSeen.Before(rec.FirstSeen) || rec.FirstSeen.IsZero() {
		rec.FirstSeen = absorbed.FirstSeen
	}
	if absorbed.LastSeen.After(rec.LastSeen) {
		rec.LastSeen = absorbed.LastSeen
	}

	c.arena[old.slot].live = false
	c.arena[old.slot].record = nil
	c.free = append(c.free, old.slot)
}

// GetDevices returns a snapshot of every live Device Record.
func (c *Correlator) GetDevices() []*DeviceRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*DeviceRecord, 0, len(c.arena))
	seen := make(map[*DeviceRecord]struct{})
	for _, s := range c.arena {
		if !s.live || s.record == nil {
			continue
		}
		if _, dup := seen[s.record]; dup {
			continue
		}
		seen[s.record] = struct{}{}
		out = append(out, s.record.Snapshot())
	}
	return out
}

// GetByMAC looks up a Device Record by exact MAC match.
func (c *Correlator) GetByMAC(mac string) (*DeviceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	h, ok := c.byMAC[mac]
	if !ok {
		return nil, false
	}
	rec := c.resolve(h)
	if rec == nil {
		return nil, false
	}
	return rec.Snapshot(), true
}

// GetByIP looks up a Device Record by exact IPv4 or IPv6 match.
func (c *Correlator) GetByIP(ip string) (*DeviceRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if h, ok := c.byIPv4[ip]; ok {
		if rec := c.resolve(h); rec != nil {
			return rec.Snapshot(), true
		}
	}
	if h, ok := c.byIPv6[ip]; ok {
		if rec := c.resolve(h); rec != nil {
			return rec.Snapshot(), true
		}
	}
	return nil, false
}

// Clear resets the Correlator to its initial empty state.
func (c *Correlator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.arena = nil
	c.free = nil
	c.byMAC = make(map[string]handle)
	c.byIPv4 = make(map[string]handle)
	c.byIPv6 = make(map[string]handle)
}
