package parse

import (
	"encoding/binary"
	"net"
	"strings"
	"time"

	"github.com/insomniacslk/dhcp/dhcpv4"
	"github.com/insomniacslk/dhcp/dhcpv6"
	"golang.org/x/net/ipv6"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
)

// EtherType identifies the payload carried by an Ethernet II frame.
type EtherType uint16

const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
	EtherTypeIPv6 EtherType = 0x86DD
)

const (
	ethernetHeaderLen = 14
	ipv6HeaderLen     = 40
	arpIPv4PacketLen  = 28

	protoUDP   = 17
	protoICMP6 = 58

	dhcpServerPort  = 67
	dhcpClientPort  = 68
	netbiosNSPort   = 137
	dhcp6ServerPort = 547
	dhcp6ClientPort = 546
)

// Frame is a raw Ethernet II frame split into its header fields and
// payload, as handed to the passive-capture driver by a raw AF_PACKET
// socket.
type Frame struct {
	SrcMAC  net.HardwareAddr
	DstMAC  net.HardwareAddr
	Type    EtherType
	Payload []byte
}

// ParseEthernetFrame splits a raw captured frame into its header and
// payload. ok is false if raw is shorter than a minimal Ethernet header.
func ParseEthernetFrame(raw []byte) (Frame, bool) {
	if len(raw) < ethernetHeaderLen {
		return Frame{}, false
	}
	return Frame{
		DstMAC:  net.HardwareAddr(append([]byte(nil), raw[0:6]...)),
		SrcMAC:  net.HardwareAddr(append([]byte(nil), raw[6:12]...)),
		Type:    EtherType(binary.BigEndian.Uint16(raw[12:14])),
		Payload: raw[ethernetHeaderLen:],
	}, true
}

// ObservationFromARP decodes an Ethernet/ARP frame payload (IPv4 over
// Ethernet ARP only) into an Observation carrying the sender's MAC and
// IPv4 address, from either a request or a reply.
func ObservationFromARP(payload []byte) (discovery.Observation, bool) {
	if len(payload) < arpIPv4PacketLen {
		return discovery.Observation{}, false
	}
	hwType := binary.BigEndian.Uint16(payload[0:2])
	protoType := binary.BigEndian.Uint16(payload[2:4])
	hwSize := payload[4]
	protoSize := payload[5]
	if hwType != 1 || protoType != uint16(EtherTypeIPv4) || hwSize != 6 || protoSize != 4 {
		return discovery.Observation{}, false
	}

	senderMAC := net.HardwareAddr(payload[8:14])
	senderIP := net.IP(payload[14:18])

	obs := discovery.Observation{
		Source:    discovery.SourcePassive,
		Timestamp: time.Now(),
		MAC:       senderMAC.String(),
		IPv4:      senderIP.String(),
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

// ObservationFromDHCPFrame decodes a captured Ethernet/IPv4/UDP frame
// carrying a DHCP message (client DISCOVER/REQUEST to port 67, or server
// OFFER/ACK to port 68) into an Observation enriched with the client's
// claimed hostname, vendor class, and requested/assigned address. It
// returns false for any frame that is not a well-formed DHCP message.
func ObservationFromDHCPFrame(frame []byte) (discovery.Observation, bool) {
	pkt, ok := decodeDHCPFromIPv4Frame(frame)
	if !ok {
		return discovery.Observation{}, false
	}

	obs := discovery.Observation{
		Source:    discovery.SourceDHCP,
		Timestamp: time.Now(),
		MAC:       pkt.ClientHWAddr.String(),
	}
	if opt := pkt.Options.Get(dhcpv4.OptionHostName); opt != nil {
		obs.Hostname = string(opt)
	}
	if opt := pkt.Options.Get(dhcpv4.OptionClassIdentifier); opt != nil {
		obs.Manufacturer = string(opt)
	}
	// The assigned address (from a server's OFFER/ACK) takes priority over
	// the client's requested address (Option 50, carried on DISCOVER/REQUEST)
	// since it reflects what the host actually ends up with.
	if yiaddr := pkt.YourIPAddr; yiaddr != nil && !yiaddr.IsUnspecified() {
		obs.IPv4 = yiaddr.To4().String()
	} else if opt := pkt.Options.Get(dhcpv4.OptionRequestedIPAddress); len(opt) == 4 {
		obs.IPv4 = net.IP(opt).String()
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

func decodeDHCPFromIPv4Frame(frame []byte) (*dhcpv4.DHCPv4, bool) {
	_, _, _, dstPort, payload, ok := decodeIPv4UDP(frame)
	if !ok {
		return nil, false
	}
	if dstPort != dhcpServerPort && dstPort != dhcpClientPort {
		return nil, false
	}

	pkt, err := dhcpv4.FromBytes(payload)
	if err != nil {
		return nil, false
	}
	return pkt, true
}

// decodeIPv4UDP parses an Ethernet/IPv4/UDP frame and returns the source
// and destination addresses, ports, and UDP payload. ok is false for any
// frame that is not IPv4-over-UDP or is too short to hold a full header.
func decodeIPv4UDP(frame []byte) (srcIP, dstIP net.IP, srcPort, dstPort uint16, payload []byte, ok bool) {
	if len(frame) < ethernetHeaderLen+20+8 {
		return nil, nil, 0, 0, nil, false
	}
	if EtherType(binary.BigEndian.Uint16(frame[12:14])) != EtherTypeIPv4 {
		return nil, nil, 0, 0, nil, false
	}

	ipOffset := ethernetHeaderLen
	ihl := int(frame[ipOffset]&0x0f) * 4
	if ihl < 20 {
		return nil, nil, 0, 0, nil, false
	}
	if frame[ipOffset+9] != protoUDP {
		return nil, nil, 0, 0, nil, false
	}

	udpOffset := ipOffset + ihl
	if udpOffset+8 > len(frame) {
		return nil, nil, 0, 0, nil, false
	}

	src := net.IP(append([]byte(nil), frame[ipOffset+12:ipOffset+16]...))
	dst := net.IP(append([]byte(nil), frame[ipOffset+16:ipOffset+20]...))
	sport := binary.BigEndian.Uint16(frame[udpOffset : udpOffset+2])
	dport := binary.BigEndian.Uint16(frame[udpOffset+2 : udpOffset+4])

	payloadOffset := udpOffset + 8
	if payloadOffset >= len(frame) {
		return nil, nil, 0, 0, nil, false
	}
	return src, dst, sport, dport, frame[payloadOffset:], true
}

// ObservationFromNetBIOSFrame decodes a captured Ethernet/IPv4/UDP frame
// carrying a NetBIOS Name Service response (UDP port 137) into an
// Observation carrying the responder's computer name, workgroup, and MAC.
func ObservationFromNetBIOSFrame(frame []byte) (discovery.Observation, bool) {
	srcIP, _, srcPort, dstPort, payload, ok := decodeIPv4UDP(frame)
	if !ok {
		return discovery.Observation{}, false
	}
	if srcPort != netbiosNSPort && dstPort != netbiosNSPort {
		return discovery.Observation{}, false
	}
	return ParseNBSTATResponse(payload, srcIP)
}

// decodeIPv6 parses an Ethernet/IPv6 frame's fixed header (extension
// headers are not walked; captures of NDP/DHCPv6/UDP traffic on an
// ordinary LAN do not carry them). ok is false for any frame that is not
// IPv6 or too short to hold the fixed header.
func decodeIPv6(frame []byte) (nextHeader byte, srcIP, dstIP net.IP, payload []byte, ok bool) {
	if len(frame) < ethernetHeaderLen+ipv6HeaderLen {
		return 0, nil, nil, nil, false
	}
	if EtherType(binary.BigEndian.Uint16(frame[12:14])) != EtherTypeIPv6 {
		return 0, nil, nil, nil, false
	}
	ipOffset := ethernetHeaderLen
	nh := frame[ipOffset+6]
	src := net.IP(append([]byte(nil), frame[ipOffset+8:ipOffset+24]...))
	dst := net.IP(append([]byte(nil), frame[ipOffset+24:ipOffset+40]...))
	return nh, src, dst, frame[ipOffset+ipv6HeaderLen:], true
}

// ObservationFromDHCPv6Frame decodes a captured Ethernet/IPv6/UDP frame
// carrying a DHCPv6 message (client-to-server port 547, or server-to-client
// port 546) into an Observation carrying the client's MAC (from the DUID,
// when it is link-layer based), its FQDN (Option 39), and any non-link-local
// addresses it was assigned.
func ObservationFromDHCPv6Frame(frame []byte) (discovery.Observation, bool) {
	nh, srcIP, _, payload, ok := decodeIPv6(frame)
	if !ok || nh != protoUDP || len(payload) < 8 {
		return discovery.Observation{}, false
	}
	dstPort := binary.BigEndian.Uint16(payload[2:4])
	srcPort := binary.BigEndian.Uint16(payload[0:2])
	if dstPort != dhcp6ServerPort && dstPort != dhcp6ClientPort && srcPort != dhcp6ServerPort {
		return discovery.Observation{}, false
	}

	d, err := dhcpv6.FromBytes(payload[8:])
	if err != nil {
		return discovery.Observation{}, false
	}
	// Relayed DHCPv6 (RelayMessage) carries the original client message as
	// an encapsulated option rather than inline fields; not handled here,
	// since passive capture on the client's own segment never sees relays.
	msg, ok := d.(*dhcpv6.Message)
	if !ok {
		return discovery.Observation{}, false
	}

	obs := discovery.Observation{
		Source:    discovery.SourceDHCP,
		Timestamp: time.Now(),
	}

	if duid := msg.Options.ClientID(); duid != nil && len(duid.LinkLayerAddr) > 0 {
		obs.MAC = net.HardwareAddr(duid.LinkLayerAddr).String()
	}
	if fqdn := msg.Options.FQDN(); fqdn != nil && fqdn.DomainName != nil {
		obs.FQDN = strings.TrimSuffix(strings.Join(fqdn.DomainName.Labels, "."), ".")
	}
	for _, iana := range msg.Options.IANA() {
		for _, addr := range iana.Options.Addresses() {
			ip := addr.IPv6Addr
			if ip == nil || ip.IsLinkLocalUnicast() {
				continue
			}
			if v6, ok := discovery.NewIPv6Address(ip.String()); ok {
				obs.IPv6 = append(obs.IPv6, v6)
			}
		}
	}
	if srcIP != nil && !srcIP.IsLinkLocalUnicast() {
		if v6, ok := discovery.NewIPv6Address(srcIP.String()); ok {
			obs.IPv6 = append(obs.IPv6, v6)
		}
	}

	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

// icmpv6 Neighbor Discovery message types (RFC 4861 §4.3/§4.4).
const (
	icmp6OptSourceLinkLayerAddr = 1
	icmp6OptTargetLinkLayerAddr = 2
)

// ObservationFromICMPv6Frame decodes a captured Ethernet/IPv6/ICMPv6 frame
// carrying a Neighbor Solicitation or Neighbor Advertisement into an
// Observation carrying the advertiser/solicitor's link-layer address (from
// the NDP option, falling back to the Ethernet source MAC) and the target
// address the message concerns.
func ObservationFromICMPv6Frame(frame []byte) (discovery.Observation, bool) {
	eth, ok := ParseEthernetFrame(frame)
	if !ok {
		return discovery.Observation{}, false
	}
	nh, _, _, payload, ok := decodeIPv6(frame)
	if !ok || nh != protoICMP6 || len(payload) < 24 {
		return discovery.Observation{}, false
	}

	icmpType := payload[0]
	var targetOffset, optOffset int
	switch icmpType {
	case byte(ipv6.ICMPTypeNeighborSolicitation):
		targetOffset, optOffset = 8, 24
	case byte(ipv6.ICMPTypeNeighborAdvertisement):
		targetOffset, optOffset = 8, 24
	default:
		return discovery.Observation{}, false
	}
	target := net.IP(append([]byte(nil), payload[targetOffset:targetOffset+16]...))

	obs := discovery.Observation{
		Source:    discovery.SourceNDP,
		Timestamp: time.Now(),
		MAC:       eth.SrcMAC.String(),
	}
	if mac, ok := parseNDPLinkLayerOption(payload[optOffset:]); ok {
		obs.MAC = mac.String()
	}
	if !target.IsUnspecified() {
		if v6, ok := discovery.NewIPv6Address(target.String()); ok {
			obs.IPv6 = []discovery.IPv6Address{v6}
		}
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

// parseNDPLinkLayerOption walks NDP options (RFC 4861 §4.6.1) looking for a
// Source or Target Link-Layer Address option and returns its MAC.
func parseNDPLinkLayerOption(opts []byte) (net.HardwareAddr, bool) {
	for len(opts) >= 8 {
		optType := opts[0]
		optLen := int(opts[1]) * 8 // length is in units of 8 bytes
		if optLen == 0 || optLen > len(opts) {
			return nil, false
		}
		if (optType == icmp6OptSourceLinkLayerAddr || optType == icmp6OptTargetLinkLayerAddr) && optLen >= 8 {
			return net.HardwareAddr(append([]byte(nil), opts[2:8]...)), true
		}
		opts = opts[optLen:]
	}
	return nil, false
}

// ObservationsFromGenericFrame handles any Ethernet/IPv4 or Ethernet/IPv6
// frame that did not classify as ARP, DHCP, NetBIOS, or ICMPv6: it yields a
// (src MAC, src IP) pair unconditionally, plus a (dst MAC, dst IP) pair
// when the destination is a unicast address worth learning from (observing
// a unicast frame at all tells us the destination exists on the segment).
func ObservationsFromGenericFrame(eth Frame) []discovery.Observation {
	var srcIP, dstIP net.IP
	switch eth.Type {
	case EtherTypeIPv4:
		if len(eth.Payload) < 20 {
			return nil
		}
		srcIP = net.IP(append([]byte(nil), eth.Payload[12:16]...))
		dstIP = net.IP(append([]byte(nil), eth.Payload[16:20]...))
	case EtherTypeIPv6:
		if len(eth.Payload) < ipv6HeaderLen {
			return nil
		}
		srcIP = net.IP(append([]byte(nil), eth.Payload[8:24]...))
		dstIP = net.IP(append([]byte(nil), eth.Payload[24:40]...))
	default:
		return nil
	}

	now := time.Now()
	var out []discovery.Observation

	if src, ok := observationFromMACIP(eth.SrcMAC, srcIP, now); ok {
		out = append(out, src)
	}
	if !isBroadcastOrMulticast(eth.DstMAC, dstIP) {
		if dst, ok := observationFromMACIP(eth.DstMAC, dstIP, now); ok {
			out = append(out, dst)
		}
	}
	return out
}

func observationFromMACIP(mac net.HardwareAddr, ip net.IP, now time.Time) (discovery.Observation, bool) {
	obs := discovery.Observation{
		Source:    discovery.SourcePassive,
		Timestamp: now,
		MAC:       mac.String(),
	}
	if v4 := ip.To4(); v4 != nil {
		obs.IPv4 = v4.String()
	} else if v6, ok := discovery.NewIPv6Address(ip.String()); ok {
		obs.IPv6 = []discovery.IPv6Address{v6}
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}

func isBroadcastOrMulticast(mac net.HardwareAddr, ip net.IP) bool {
	if len(mac) > 0 && mac[0]&0x01 != 0 {
		return true
	}
	if ip.Equal(net.IPv4bcast) {
		return true
	}
	if ip.IsMulticast() {
		return true
	}
	return false
}
