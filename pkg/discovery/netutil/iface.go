package netutil

import (
	"fmt"
	"net"
	"sort"
)

// Iface carries the interface-level information every discovery driver
// needs: the interface itself, its IPv4 configuration, and any IPv6
// addresses it has that are worth probing (link-local excluded from this
// list would be wrong for NDP, so it is kept - multicast and loopback are
// the only IPv6 addresses excluded).
type Iface struct {
	Interface *net.Interface
	IPv4      net.IP
	IPv4Net   *net.IPNet
	IPv6      []net.IP
}

// Enumerate returns all non-loopback network interfaces, each carrying an
// optional IPv4+CIDR and any IPv6 addresses (excluding multicast and ::1).
func Enumerate() ([]Iface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}

	var out []Iface
	for i := range ifaces {
		ifi := ifaces[i]
		if ifi.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := ifi.Addrs()
		if err != nil {
			continue
		}

		info := Iface{Interface: &ifaces[i]}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if v4 := ipnet.IP.To4(); v4 != nil {
				if info.IPv4 == nil {
					info.IPv4 = v4
					info.IPv4Net = ipnet
				}
				continue
			}
			if ipnet.IP.IsMulticast() || ipnet.IP.IsLoopback() {
				continue
			}
			info.IPv6 = append(info.IPv6, ipnet.IP)
		}

		out = append(out, info)
	}

	return out, nil
}

// SelectPrimary picks the interface most likely to be the default LAN
// interface: one with an RFC1918 IPv4 address, ties broken by enumeration
// order (spec.md §4.1).
func SelectPrimary(ifaces []Iface) (*Iface, bool) {
	candidates := make([]Iface, 0, len(ifaces))
	for _, ifi := range ifaces {
		if ifi.Interface.Flags&net.FlagUp == 0 {
			continue
		}
		if ifi.IPv4 == nil {
			continue
		}
		candidates = append(candidates, ifi)
	}
	if len(candidates) == 0 {
		return nil, false
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := IsRFC1918(candidates[i].IPv4), IsRFC1918(candidates[j].IPv4)
		if pi != pj {
			return pi
		}
		return false // preserve enumeration order otherwise
	})

	return &candidates[0], true
}

// ByName looks up a single interface and resolves its addressing info.
func ByName(name string) (*Iface, error) {
	ifi, err := net.InterfaceByName(name)
	if err != nil {
		return nil, fmt.Errorf("interface %s: %w", name, err)
	}
	addrs, err := ifi.Addrs()
	if err != nil {
		return nil, fmt.Errorf("addresses for %s: %w", name, err)
	}

	info := &Iface{Interface: ifi}
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		if v4 := ipnet.IP.To4(); v4 != nil {
			if info.IPv4 == nil {
				info.IPv4 = v4
				info.IPv4Net = ipnet
			}
			continue
		}
		if ipnet.IP.IsMulticast() || ipnet.IP.IsLoopback() {
			continue
		}
		info.IPv6 = append(info.IPv6, ipnet.IP)
	}
	return info, nil
}

// DefaultByRoute mirrors the teacher's original heuristic: dial a UDP
// socket to a public address and see which local interface the kernel
// picked. SelectPrimary does not call it.
func DefaultByRoute() (*net.Interface, error) {
	conn, err := net.Dial("udp", "8.8.8.8:53")
	if err != nil {
		return nil, err
	}
	defer func() { _ = conn.Close() }()

	localAddr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected local addr type")
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}
			if ip != nil && ip.Equal(localAddr.IP) {
				return &ifaces[i], nil
			}
		}
	}
	return nil, fmt.Errorf("interface not found for IP %s", localAddr.IP)
}
