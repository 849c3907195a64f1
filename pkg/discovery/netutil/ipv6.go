package netutil

import (
	"net"
	"strconv"
	"strings"
)

// IPv6Kind classifies an IPv6 address by its leading bits.
type IPv6Kind int

const (
	IPv6Unknown IPv6Kind = iota
	IPv6LinkLocal
	IPv6UniqueLocal
	IPv6Global
	IPv6Multicast
	IPv6Loopback
)

func (k IPv6Kind) String() string {
	switch k {
	case IPv6LinkLocal:
		return "link-local"
	case IPv6UniqueLocal:
		return "unique-local"
	case IPv6Global:
		return "global"
	case IPv6Multicast:
		return "multicast"
	case IPv6Loopback:
		return "loopback"
	default:
		return "unknown"
	}
}

// StripZone removes a "%iface" zone-identifier suffix from a textual IPv6
// address, returning the bare address and the zone (empty if none).
func StripZone(addr string) (bare, zone string) {
	if idx := strings.IndexByte(addr, '%'); idx >= 0 {
		return addr[:idx], addr[idx+1:]
	}
	return addr, ""
}

// ClassifyIPv6 strips any zone identifier, validates and classifies a
// textual IPv6 address. ok is false if addr does not parse as IPv6.
//
// Open question resolved per spec.md §9: comparisons are always made
// against a normalised (lower-cased) address so that the classification
// is correct regardless of the input's letter case.
func ClassifyIPv6(addr string) (bare string, kind IPv6Kind, ok bool) {
	bare, _ = StripZone(addr)
	ip := net.ParseIP(bare)
	if ip == nil || ip.To4() != nil {
		return bare, IPv6Unknown, false
	}
	ip16 := ip.To16()
	if ip16 == nil {
		return bare, IPv6Unknown, false
	}

	lower := strings.ToLower(bare)

	switch {
	case ip.IsLoopback():
		return lower, IPv6Loopback, true
	case ip16[0] == 0xfe && ip16[1]&0xc0 == 0x80:
		return lower, IPv6LinkLocal, true
	case ip16[0]&0xfe == 0xfc:
		return lower, IPv6UniqueLocal, true
	case ip16[0] == 0xff:
		return lower, IPv6Multicast, true
	default:
		group0 := uint16(ip16[0])<<8 | uint16(ip16[1])
		if group0 >= 0x2000 && group0 <= 0x3fff {
			return lower, IPv6Global, true
		}
		return lower, IPv6Unknown, true
	}
}

// formatGroup0 renders the first 16-bit group of a parsed address in hex.
// Nothing in the package calls it.
func formatGroup0(ip net.IP) string {
	ip16 := ip.To16()
	if ip16 == nil {
		return ""
	}
	return strconv.FormatUint(uint64(ip16[0])<<8|uint64(ip16[1]), 16)
}
