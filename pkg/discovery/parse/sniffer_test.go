package parse

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func ethernetHeader(dst, src net.HardwareAddr, etherType EtherType) []byte {
	h := make([]byte, ethernetHeaderLen)
	copy(h[0:6], dst)
	copy(h[6:12], src)
	binary.BigEndian.PutUint16(h[12:14], uint16(etherType))
	return h
}

func ipv4Header(src, dst net.IP, proto byte, payloadLen int) []byte {
	h := make([]byte, 20)
	h[0] = 0x45
	binary.BigEndian.PutUint16(h[2:4], uint16(20+payloadLen))
	h[8] = 64
	h[9] = proto
	copy(h[12:16], src.To4())
	copy(h[16:20], dst.To4())
	return h
}

func udpHeader(srcPort, dstPort uint16, payloadLen int) []byte {
	h := make([]byte, 8)
	binary.BigEndian.PutUint16(h[0:2], srcPort)
	binary.BigEndian.PutUint16(h[2:4], dstPort)
	binary.BigEndian.PutUint16(h[4:6], uint16(8+payloadLen))
	return h
}

// buildDHCPv4Packet hand-encodes a minimal BOOTP/DHCP packet with the given
// client MAC, assigned address (yiaddr), hostname and vendor-class options.
func buildDHCPv4Packet(mac net.HardwareAddr, yiaddr net.IP, hostname, vendorClass string, requestedIP net.IP) []byte {
	pkt := make([]byte, 236)
	pkt[0] = 2 // BOOTREPLY
	pkt[1] = 1 // Ethernet
	pkt[2] = 6 // hlen
	if yiaddr != nil {
		copy(pkt[16:20], yiaddr.To4())
	}
	copy(pkt[28:34], mac)

	pkt = append(pkt, 99, 130, 83, 99) // magic cookie

	if hostname != "" {
		pkt = append(pkt, 12, byte(len(hostname)))
		pkt = append(pkt, []byte(hostname)...)
	}
	if vendorClass != "" {
		pkt = append(pkt, 60, byte(len(vendorClass)))
		pkt = append(pkt, []byte(vendorClass)...)
	}
	if requestedIP != nil {
		pkt = append(pkt, 50, 4)
		pkt = append(pkt, requestedIP.To4()...)
	}
	pkt = append(pkt, 255) // end option
	return pkt
}

func buildDHCPv4Frame(clientMAC net.HardwareAddr, dstPort uint16, dhcp []byte) []byte {
	frame := ethernetHeader(net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, clientMAC, EtherTypeIPv4)
	frame = append(frame, ipv4Header(net.IPv4(10, 0, 0, 5), net.IPv4(255, 255, 255, 255), protoUDP, 8+len(dhcp))...)
	frame = append(frame, udpHeader(dhcpServerPort, dstPort, len(dhcp))...)
	frame = append(frame, dhcp...)
	return frame
}

func TestObservationFromDHCPFrame_PrefersAssignedOverRequested(t *testing.T) {
	mac := net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	dhcp := buildDHCPv4Packet(mac, net.IPv4(192, 168, 1, 50), "my-laptop", "MSFT 5.0", net.IPv4(192, 168, 1, 99))
	frame := buildDHCPv4Frame(mac, dhcpClientPort, dhcp)

	obs, ok := ObservationFromDHCPFrame(frame)
	require.True(t, ok)
	require.Equal(t, "192.168.1.50", obs.IPv4)
	require.Equal(t, "my-laptop", obs.Hostname)
	require.Equal(t, "MSFT 5.0", obs.Manufacturer)
}

func TestObservationFromDHCPFrame_FallsBackToRequestedAddress(t *testing.T) {
	mac := net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x66}
	dhcp := buildDHCPv4Packet(mac, nil, "", "", net.IPv4(192, 168, 1, 77))
	frame := buildDHCPv4Frame(mac, dhcpServerPort, dhcp)

	obs, ok := ObservationFromDHCPFrame(frame)
	require.True(t, ok)
	require.Equal(t, "192.168.1.77", obs.IPv4)
}

func TestObservationFromDHCPFrame_RejectsNonDHCPPort(t *testing.T) {
	mac := net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x77}
	dhcp := buildDHCPv4Packet(mac, net.IPv4(192, 168, 1, 50), "", "", nil)
	frame := buildDHCPv4Frame(mac, 12345, dhcp)

	_, ok := ObservationFromDHCPFrame(frame)
	require.False(t, ok)
}

// buildNBSTATResponse hand-encodes a minimal NBSTAT response bearing one
// unique name and a MAC address, matching what ParseNBSTATResponse expects.
func buildNBSTATResponse(computerName string, mac net.HardwareAddr) []byte {
	header := make([]byte, nbnsHeaderLen)
	binary.BigEndian.PutUint16(header[6:8], 1) // ANCOUNT

	buf := append([]byte(nil), header...)
	buf = append(buf, encodeNBNSName(nbstatWildcardName)...)
	buf = append(buf, 0, 0x21, 0, 1) // TYPE=NBSTAT, CLASS=IN
	buf = append(buf, 0, 0, 0, 0)    // TTL

	nameField := make([]byte, 15)
	copy(nameField, computerName)
	rdata := []byte{1} // NUM_NAMES
	rdata = append(rdata, nameField...)
	rdata = append(rdata, 0x00)   // suffix
	rdata = append(rdata, 0, 0)   // flags (unique name)
	rdata = append(rdata, mac...) // MAC

	rdlength := make([]byte, 2)
	binary.BigEndian.PutUint16(rdlength, uint16(len(rdata)))
	buf = append(buf, rdlength...)
	buf = append(buf, rdata...)
	return buf
}

func TestObservationFromNetBIOSFrame_ExtractsComputerNameAndMAC(t *testing.T) {
	mac := net.HardwareAddr{0xaa, 0xbb, 0xcc, 0xdd, 0xee, 0xff}
	nbstat := buildNBSTATResponse("HOST1", mac)

	frame := ethernetHeader(net.HardwareAddr{1, 2, 3, 4, 5, 6}, mac, EtherTypeIPv4)
	frame = append(frame, ipv4Header(net.IPv4(192, 168, 1, 40), net.IPv4(192, 168, 1, 1), protoUDP, 8+len(nbstat))...)
	frame = append(frame, udpHeader(netbiosNSPort, 54321, len(nbstat))...)
	frame = append(frame, nbstat...)

	obs, ok := ObservationFromNetBIOSFrame(frame)
	require.True(t, ok)
	require.Equal(t, "HOST1", obs.Hostname)
	require.Equal(t, "192.168.1.40", obs.IPv4)
}

func buildICMPv6NDP(icmpType byte, target net.IP, linkLayerAddr net.HardwareAddr, optType byte) []byte {
	body := make([]byte, 8) // type, code, checksum, reserved/flags
	body[0] = icmpType
	body = append(body, target.To16()...)
	if linkLayerAddr != nil {
		opt := append([]byte{optType, 1}, linkLayerAddr...)
		body = append(body, opt...)
	}
	return body
}

func TestObservationFromICMPv6Frame_NeighborAdvertisement(t *testing.T) {
	srcMAC := net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x01}
	target := net.ParseIP("fe80::1")
	body := buildICMPv6NDP(136, target, net.HardwareAddr{0x02, 0x00, 0x00, 0x00, 0x00, 0x02}, icmp6OptTargetLinkLayerAddr)

	frame := ethernetHeader(net.HardwareAddr{0x33, 0x33, 0, 0, 0, 1}, srcMAC, EtherTypeIPv6)
	ipHdr := make([]byte, ipv6HeaderLen)
	ipHdr[6] = protoICMP6
	copy(ipHdr[8:24], net.ParseIP("fe80::2").To16())
	copy(ipHdr[24:40], net.ParseIP("ff02::1").To16())
	frame = append(frame, ipHdr...)
	frame = append(frame, body...)

	obs, ok := ObservationFromICMPv6Frame(frame)
	require.True(t, ok)
	require.Equal(t, "02:00:00:00:00:02", obs.MAC)
	require.Len(t, obs.IPv6, 1)
}

func TestObservationFromICMPv6Frame_RejectsNonNDPType(t *testing.T) {
	body := make([]byte, 32)
	body[0] = 128 // echo request, not NS/NA

	frame := ethernetHeader(net.HardwareAddr{1, 2, 3, 4, 5, 6}, net.HardwareAddr{6, 5, 4, 3, 2, 1}, EtherTypeIPv6)
	ipHdr := make([]byte, ipv6HeaderLen)
	ipHdr[6] = protoICMP6
	frame = append(frame, ipHdr...)
	frame = append(frame, body...)

	_, ok := ObservationFromICMPv6Frame(frame)
	require.False(t, ok)
}

func TestObservationsFromGenericFrame_IPv4SuppressesBroadcastDst(t *testing.T) {
	srcMAC := net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	dstMAC := net.HardwareAddr{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	raw := ethernetHeader(dstMAC, srcMAC, EtherTypeIPv4)
	raw = append(raw, ipv4Header(net.IPv4(192, 168, 1, 10), net.IPv4(192, 168, 1, 255), 6, 0)...)

	frame, ok := ParseEthernetFrame(raw)
	require.True(t, ok)

	obs := ObservationsFromGenericFrame(frame)
	require.Len(t, obs, 1)
	require.Equal(t, "192.168.1.10", obs[0].IPv4)
}

func TestObservationsFromGenericFrame_IPv4UnicastYieldsBothPairs(t *testing.T) {
	srcMAC := net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	dstMAC := net.HardwareAddr{0x66, 0x77, 0x88, 0x99, 0xaa, 0xbb}
	raw := ethernetHeader(dstMAC, srcMAC, EtherTypeIPv4)
	raw = append(raw, ipv4Header(net.IPv4(192, 168, 1, 10), net.IPv4(192, 168, 1, 20), 6, 0)...)

	frame, ok := ParseEthernetFrame(raw)
	require.True(t, ok)

	obs := ObservationsFromGenericFrame(frame)
	require.Len(t, obs, 2)
	require.Equal(t, "192.168.1.10", obs[0].IPv4)
	require.Equal(t, "192.168.1.20", obs[1].IPv4)
}

func TestObservationsFromGenericFrame_TooShortYieldsNone(t *testing.T) {
	raw := ethernetHeader(net.HardwareAddr{1, 2, 3, 4, 5, 6}, net.HardwareAddr{6, 5, 4, 3, 2, 1}, EtherTypeIPv4)
	raw = append(raw, []byte{1, 2, 3}...)

	frame, ok := ParseEthernetFrame(raw)
	require.True(t, ok)
	require.Nil(t, ObservationsFromGenericFrame(frame))
}
