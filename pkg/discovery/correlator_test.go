package discovery

import (
	"context"
	"testing"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery/classify"
	"github.com/corvidae-labs/netwatch/pkg/discovery/oui"
)

func newTestCorrelator(t *testing.T) *Correlator {
	t.Helper()
	reg, err := oui.New(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return NewCorrelator(classify.New(), reg)
}

// Seed scenario 1: ARP observation then passive ICMPv6 same MAC.
func TestCorrelatorSeedScenario1ARPThenNDPSameMAC(t *testing.T) {
	c := newTestCorrelator(t)
	ip6, _ := NewIPv6Address("fe80::1")

	c.OnObservation(Observation{Source: SourceARP, Timestamp: time.Unix(1, 0), MAC: "AA:BB:CC:DD:EE:01", IPv4: "192.168.1.10"})
	rec, _ := c.OnObservation(Observation{Source: SourceNDP, Timestamp: time.Unix(2, 0), MAC: "AA:BB:CC:DD:EE:01", IPv6: []IPv6Address{ip6}})

	if rec.IPv4 != "192.168.1.10" || len(rec.IPv6) != 1 {
		t.Fatalf("expected single record with both addresses, got ipv4=%q ipv6=%v", rec.IPv4, rec.IPv6)
	}
	if _, ok := rec.DiscoveredVia[SourceARP]; !ok {
		t.Error("expected arp in discovered_via")
	}
	if _, ok := rec.DiscoveredVia[SourceNDP]; !ok {
		t.Error("expected ndp in discovered_via")
	}
	if len(c.GetDevices()) != 1 {
		t.Errorf("expected exactly one device record, got %d", len(c.GetDevices()))
	}
}

// Seed scenario 2: IPv4 observation then later MAC linking.
func TestCorrelatorSeedScenario2LateMACLinking(t *testing.T) {
	c := newTestCorrelator(t)
	c.OnObservation(Observation{Source: SourceMDNS, Timestamp: time.Unix(1, 0), IPv4: "192.168.1.20", Hostname: "host-a"})
	rec, _ := c.OnObservation(Observation{Source: SourceARP, Timestamp: time.Unix(2, 0), IPv4: "192.168.1.20", MAC: "11:22:33:44:55:66"})

	if rec.Hostname != "host-a" {
		t.Errorf("expected hostname preserved, got %q", rec.Hostname)
	}
	byMAC, ok := c.GetByMAC("11:22:33:44:55:66")
	if !ok || byMAC.IPv4 != "192.168.1.20" {
		t.Error("expected MAC index to resolve to the same record")
	}
	if len(c.GetDevices()) != 1 {
		t.Errorf("expected exactly one device record, got %d", len(c.GetDevices()))
	}
}

// Seed scenario 5: dual observations disagree on hostname.
func TestCorrelatorSeedScenario5HostnameFirstWins(t *testing.T) {
	c := newTestCorrelator(t)
	c.OnObservation(Observation{Source: SourceARP, Timestamp: time.Unix(1, 0), MAC: "AA:BB:CC:DD:EE:02", Hostname: "router"})
	rec, _ := c.OnObservation(Observation{Source: SourceSSDP, Timestamp: time.Unix(2, 0), MAC: "AA:BB:CC:DD:EE:02", Hostname: "gateway"})

	if rec.Hostname != "router" {
		t.Errorf("Hostname = %q, want %q", rec.Hostname, "router")
	}
	if len(rec.Sources) != 2 {
		t.Errorf("expected sources enlarged to 2, got %d", len(rec.Sources))
	}
}

// Seed scenario 6: manufacturer resolved from OUI table alone.
func TestCorrelatorSeedScenario6ManufacturerByOUI(t *testing.T) {
	c := newTestCorrelator(t)
	rec, _ := c.OnObservation(Observation{Source: SourceARP, Timestamp: time.Unix(1, 0), MAC: "00:1A:11:AA:BB:CC", IPv4: "192.168.1.5"})

	if rec.Manufacturer != "Google Inc." {
		t.Errorf("Manufacturer = %q, want Google Inc.", rec.Manufacturer)
	}
	if rec.Confidence < 55 {
		t.Errorf("Confidence = %d, want >= 55", rec.Confidence)
	}
}

func TestCorrelatorRejectsObservationWithNoIdentifier(t *testing.T) {
	c := newTestCorrelator(t)
	_, created := c.OnObservation(Observation{Source: SourceMDNS, Timestamp: time.Unix(1, 0), Hostname: "orphan"})
	if created {
		t.Error("expected observation with no identifier to be rejected")
	}
	if len(c.GetDevices()) != 0 {
		t.Error("expected no device record to be created")
	}
}

func TestCorrelatorGetByIPv6(t *testing.T) {
	c := newTestCorrelator(t)
	ip6, _ := NewIPv6Address("2001:db8::1")
	c.OnObservation(Observation{Source: SourcePassive, Timestamp: time.Unix(1, 0), IPv6: []IPv6Address{ip6}})

	rec, ok := c.GetByIP("2001:db8::1")
	if !ok {
		t.Fatal("expected lookup by ipv6 to succeed")
	}
	if len(rec.IPv6) != 1 {
		t.Errorf("expected one ipv6 address, got %d", len(rec.IPv6))
	}
}

func TestCorrelatorClear(t *testing.T) {
	c := newTestCorrelator(t)
	c.OnObservation(Observation{Source: SourceARP, Timestamp: time.Unix(1, 0), MAC: "AA:BB:CC:DD:EE:03", IPv4: "192.168.1.30"})
	c.Clear()
	if len(c.GetDevices()) != 0 {
		t.Error("expected correlator to be empty after Clear")
	}
	if _, ok := c.GetByMAC("AA:BB:CC:DD:EE:03"); ok {
		t.Error("expected MAC index to be cleared")
	}
}
