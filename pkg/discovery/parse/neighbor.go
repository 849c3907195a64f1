package parse

import (
	"bufio"
	"io"
	"net"
	"strings"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

// NeighborEntry is one resolved row from a neighbour-table tool, covering
// both the IPv4 ARP cache and the IPv6 NDP cache. Lines that carry no MAC
// (incomplete/failed entries) are skipped by the caller.
type NeighborEntry struct {
	IP    net.IP
	MAC   string
	State string
}

// ParseNeighborTable reads line-oriented output from the platform
// neighbour-table tool ("ip neigh show", "arp -a", "ndp -an", or the
// Windows "arp -a"/"netsh" equivalents) and returns every resolved entry.
// Unparseable lines are skipped rather than treated as fatal, since tool
// output varies across platforms and locales.
func ParseNeighborTable(r io.Reader) []NeighborEntry {
	var out []NeighborEntry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if entry, ok := parseNeighborLine(line); ok {
			out = append(out, entry)
		}
	}
	return out
}

func parseNeighborLine(line string) (NeighborEntry, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return NeighborEntry{}, false
	}

	var ipStr, mac, state string

	if looksLikeIP(fields[0]) && !(len(fields) > 1 && looksLikeMAC(fields[1])) {
		// "ip neigh show" / "ip -6 neigh show" style:
		// 192.168.1.1 dev eth0 lladdr aa:bb:cc:dd:ee:ff REACHABLE
		ipStr = fields[0]
		for i := 1; i < len(fields); i++ {
			switch fields[i] {
			case "lladdr":
				if i+1 < len(fields) {
					mac = fields[i+1]
				}
			case "FAILED", "INCOMPLETE", "REACHABLE", "STALE", "DELAY", "PROBE", "PERMANENT", "NOARP":
				state = fields[i]
			}
		}
	} else if strings.Contains(line, "(") && strings.Contains(line, ")") {
		// classic BSD/macOS "arp -a" style:
		// host.example.com (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]
		open := strings.Index(line, "(")
		closeIdx := strings.Index(line, ")")
		if open < 0 || closeIdx < open {
			return NeighborEntry{}, false
		}
		ipStr = strings.TrimSpace(line[open+1 : closeIdx])
		rest := fields
		for i, f := range rest {
			if f == "at" && i+1 < len(rest) {
				mac = rest[i+1]
			}
		}
	} else if len(fields) > 1 && looksLikeMAC(fields[1]) && strings.Contains(fields[0], ".") {
		// Windows "arp -a" style:
		// 192.168.1.1          aa-bb-cc-dd-ee-ff     dynamic
		ipStr = fields[0]
		mac = strings.ReplaceAll(fields[1], "-", ":")
		if len(fields) > 2 {
			state = fields[2]
		}
	} else {
		return NeighborEntry{}, false
	}

	ip := net.ParseIP(ipStr)
	if ip == nil || mac == "" {
		return NeighborEntry{}, false
	}
	canonical, ok := netutil.NormalizeMAC(mac)
	if !ok {
		return NeighborEntry{}, false
	}
	if strings.EqualFold(state, "FAILED") || strings.EqualFold(state, "INCOMPLETE") {
		return NeighborEntry{}, false
	}

	return NeighborEntry{IP: ip, MAC: canonical, State: state}, true
}

func looksLikeIP(s string) bool {
	return net.ParseIP(s) != nil
}

// looksLikeMAC is a loose candidate check used only to pick which line
// grammar applies; the actual parse and octet expansion is delegated to
// netutil.NormalizeMAC once a candidate field is identified.
func looksLikeMAC(s string) bool {
	s = strings.NewReplacer("-", ":").Replace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return false
	}
	for _, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return false
		}
	}
	return true
}

func lastField(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}

// ToObservations converts neighbour-table entries into Observations, one
// per entry, tagged with the given source (SourceARP or SourceNDP).
func ToObservations(entries []NeighborEntry, source discovery.Source) []discovery.Observation {
	now := time.Now()
	out := make([]discovery.Observation, 0, len(entries))
	for _, e := range entries {
		obs := discovery.Observation{
			Source:    source,
			Timestamp: now,
			MAC:       e.MAC,
		}
		if v4 := e.IP.To4(); v4 != nil {
			obs.IPv4 = v4.String()
		} else if addr, ok := discovery.NewIPv6Address(e.IP.String()); ok {
			obs.IPv6 = []discovery.IPv6Address{addr}
		}
		out = append(out, obs)
	}
	return out
}
