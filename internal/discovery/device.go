package discovery

import (
	"net"
	"strings"
	"time"

	coredisc "github.com/corvidae-labs/netwatch/pkg/discovery"
)

// Device is the flat, UI-facing projection of a DeviceRecord: the table and
// detail views only ever need a handful of scalar fields and don't care
// about the Correlator's internal merge bookkeeping.
type Device struct {
	IP           net.IP              // Primary IP address (identity key)
	MAC          string              // MAC if known
	DisplayName  string              // Reverse DNS or reported name
	Manufacturer string              // Vendor from OUI or protocol metadata
	Model        string              // Reported model
	Services     map[string]int      // service name -> port (or 0 if unknown)
	Sources      map[string]struct{} // scanners that contributed info
	FirstSeen    time.Time           // first time any scanner saw the device
	LastSeen     time.Time           // last time any scanner saw the device
	ExtraData    map[string]string   // additional key/value metadata (OS, workgroup, usage, ...)

	// OpenPorts and LastPortScan are populated on demand by an interactive
	// port scan triggered from the detail view; the Orchestrator never
	// writes these.
	OpenPorts    map[string][]int
	LastPortScan time.Time
}

// NewDevice builds a Device with initialized maps and current timestamp as last seen.
func NewDevice(ip net.IP) Device {
	now := time.Now()
	return Device{
		IP:        ip,
		Services:  map[string]int{},
		Sources:   map[string]struct{}{},
		FirstSeen: now,
		LastSeen:  now,
		ExtraData: map[string]string{},
		OpenPorts: map[string][]int{},
	}
}

// FromRecord projects a DeviceRecord snapshot into the table's flat model.
// It is the seam between the Orchestrator's merged-entity representation
// and the view layer.
func FromRecord(rec *coredisc.DeviceRecord) Device {
	d := NewDevice(net.ParseIP(rec.IPv4))
	d.MAC = rec.MAC
	if rec.FQDN != "" {
		d.DisplayName = rec.FQDN
	} else {
		d.DisplayName = rec.Hostname
	}
	d.Manufacturer = rec.Manufacturer
	d.Model = rec.Model
	d.FirstSeen = rec.FirstSeen
	d.LastSeen = rec.LastSeen

	for _, svc := range rec.SortedServices() {
		name := svc.Name
		if name == "" {
			name = strings.ToLower(svc.Proto)
		}
		d.Services[name] = svc.Port
	}
	for src := range rec.Sources {
		d.Sources[string(src)] = struct{}{}
	}
	if rec.OSFamily != "" {
		d.ExtraData["os"] = rec.OSFamily
	} else if rec.OSRaw != "" {
		d.ExtraData["os"] = rec.OSRaw
	}
	if rec.Workgroup != "" {
		d.ExtraData["workgroup"] = rec.Workgroup
	}
	if rec.Usage != "" {
		d.ExtraData["usage"] = rec.Usage
	}
	for _, ip6 := range rec.IPv6 {
		d.ExtraData["ipv6"] = ip6.Addr
		break
	}
	return d
}

// Merge merges fields from 'other' into d, preferring non-empty/newer data and unioning maps.
func (d *Device) Merge(other *Device) {
	if other == nil {
		return
	}
	if d.IP == nil && other.IP != nil {
		d.IP = other.IP
	}
	if d.MAC == "" && other.MAC != "" {
		d.MAC = other.MAC
	}
	if d.DisplayName == "" && other.DisplayName != "" {
		d.DisplayName = other.DisplayName
	}
	if d.Manufacturer == "" && other.Manufacturer != "" {
		d.Manufacturer = other.Manufacturer
	}
	if d.Model == "" && other.Model != "" {
		d.Model = other.Model
	}
	if d.Services == nil {
		d.Services = map[string]int{}
	}
	for name, port := range other.Services {
		if existing, ok := d.Services[name]; !ok || existing == 0 {
			d.Services[name] = port
		}
	}
	if d.Sources == nil {
		d.Sources = map[string]struct{}{}
	}
	for src := range other.Sources {
		d.Sources[src] = struct{}{}
	}
	if d.ExtraData == nil {
		d.ExtraData = map[string]string{}
	}
	for k, v := range other.ExtraData {
		if _, ok := d.ExtraData[k]; !ok {
			d.ExtraData[k] = v
		}
	}
	if d.FirstSeen.IsZero() || (!other.FirstSeen.IsZero() && other.FirstSeen.Before(d.FirstSeen)) {
		d.FirstSeen = other.FirstSeen
	}
	if other.LastSeen.After(d.LastSeen) {
		d.LastSeen = other.LastSeen
	}
}
