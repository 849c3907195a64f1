package netutil

import (
	"net"
	"testing"
)

func TestNormalizeMAC(t *testing.T) {
	cases := map[string]string{
		"0:0:5e:0:1:f":       "00:00:5E:00:01:0F",
		"00-1A-11-AA-BB-CC":  "00:1A:11:AA:BB:CC",
		"001A11AABBCC":       "00:1A:11:AA:BB:CC",
		"aa:bb:cc:dd:ee:ff":  "AA:BB:CC:DD:EE:FF",
		"ff:ff:ff:ff:ff:fff": "",
	}
	for in, want := range cases {
		got, ok := NormalizeMAC(in)
		if want == "" {
			if ok {
				t.Errorf("NormalizeMAC(%q) = %q, want failure", in, got)
			}
			continue
		}
		if !ok || got != want {
			t.Errorf("NormalizeMAC(%q) = %q,%v want %q", in, got, ok, want)
		}
	}
}

func TestMACPredicates(t *testing.T) {
	if !IsBroadcastMAC("FF:FF:FF:FF:FF:FF") {
		t.Error("expected broadcast MAC to be recognised")
	}
	if !IsMulticastMAC("01:00:5E:00:00:01") {
		t.Error("expected multicast bit to be recognised")
	}
	if !IsLocallyAdministeredMAC("02:00:00:00:00:01") {
		t.Error("expected locally-administered bit to be recognised")
	}
}

func TestClassifyIPv6(t *testing.T) {
	cases := []struct {
		addr string
		kind IPv6Kind
		ok   bool
	}{
		{"fe80::1", IPv6LinkLocal, true},
		{"FE80::1%eth0", IPv6LinkLocal, true},
		{"fc00::1", IPv6UniqueLocal, true},
		{"ff02::fb", IPv6Multicast, true},
		{"::1", IPv6Loopback, true},
		{"2001:db8::1", IPv6Global, true},
		{"::", IPv6Unknown, true},
		{"not-an-ip", IPv6Unknown, false},
		{"192.168.1.1", IPv6Unknown, false},
	}
	for _, c := range cases {
		_, kind, ok := ClassifyIPv6(c.addr)
		if ok != c.ok || kind != c.kind {
			t.Errorf("ClassifyIPv6(%q) = %v,%v want %v,%v", c.addr, kind, ok, c.kind, c.ok)
		}
	}
}

func TestZoneStrippingMergesIdentity(t *testing.T) {
	a, _, _ := ClassifyIPv6("fe80::1%eth0")
	b, _, _ := ClassifyIPv6("fe80::1")
	if a != b {
		t.Errorf("zone-stripped addresses should be equal: %q vs %q", a, b)
	}
}

func TestCIDRRoundTrip(t *testing.T) {
	c, err := ParseCIDR("192.168.1.42/24")
	if err != nil {
		t.Fatal(err)
	}
	if c.Network().String() != "192.168.1.0" {
		t.Errorf("network = %s", c.Network())
	}
	if c.Broadcast().String() != "192.168.1.255" {
		t.Errorf("broadcast = %s", c.Broadcast())
	}
	if c.HostCount() != 254 {
		t.Errorf("host count = %d", c.HostCount())
	}
	firstInt := ipToUint32(c.FirstHost())
	lastInt := ipToUint32(c.LastHost())
	if int(lastInt-firstInt)+1 != c.HostCount() {
		t.Errorf("first+count-1 != last")
	}
}

func TestCIDRBoundaries(t *testing.T) {
	for _, bits := range []int{31, 32} {
		c := &CIDR{IP: net.ParseIP("10.0.0.0").To4(), Bits: bits}
		if c.HostCount() != 0 {
			t.Errorf("/%d host count = %d, want 0", bits, c.HostCount())
		}
	}
}

func TestCompareIPs(t *testing.T) {
	a := net.ParseIP("192.168.1.2")
	b := net.ParseIP("192.168.1.100")
	if !CompareIPs(a, b) {
		t.Error("expected .2 to sort before .100 numerically")
	}
	if CompareIPs(b, a) {
		t.Error("expected .100 to not sort before .2")
	}
}
