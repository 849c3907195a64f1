package parse

import (
	"encoding/binary"
	"net"
	"strings"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
)

const (
	nbnsHeaderLen      = 12
	nbTypeNBSTAT       = 0x0021
	nbClassIN          = 0x0001
	nbstatWildcardName = "*"

	// nameFlagGroup marks a NetBIOS name-table entry as a group (workgroup)
	// name rather than a unique (host) name.
	nameFlagGroup = 0x8000
)

// EncodeNBSTATQuery builds a NetBIOS Name Service NODE STATUS (NBSTAT)
// query packet. Sent to UDP port 137, it asks the receiving host to return
// its full NetBIOS name table (computer name, workgroup, and MAC).
func EncodeNBSTATQuery(transactionID uint16) []byte {
	buf := make([]byte, 0, 50)

	header := make([]byte, nbnsHeaderLen)
	binary.BigEndian.PutUint16(header[0:2], transactionID)
	binary.BigEndian.PutUint16(header[4:6], 1) // QDCOUNT
	buf = append(buf, header...)

	buf = append(buf, encodeNBNSName(nbstatWildcardName)...)

	typeClass := make([]byte, 4)
	binary.BigEndian.PutUint16(typeClass[0:2], nbTypeNBSTAT)
	binary.BigEndian.PutUint16(typeClass[2:4], nbClassIN)
	return append(buf, typeClass...)
}

// encodeNBNSName applies NetBIOS first-level encoding: the name is padded
// (right, with zero bytes) to 16 bytes, then each byte's high and low
// nibble is mapped to a letter in 'A'..'P', producing 32 ASCII characters
// preceded by their length and followed by the DNS root label terminator.
func encodeNBNSName(name string) []byte {
	raw := make([]byte, 16)
	copy(raw, name)

	encoded := make([]byte, 0, 34)
	encoded = append(encoded, 0x20)
	for _, b := range raw {
		hi := (b >> 4) & 0x0f
		lo := b & 0x0f
		encoded = append(encoded, 'A'+hi, 'A'+lo)
	}
	return append(encoded, 0x00)
}

// ParseNBSTATResponse decodes one NBSTAT response datagram from the given
// sender into an Observation carrying its computer name, workgroup, and
// hardware address.
func ParseNBSTATResponse(raw []byte, from net.IP) (discovery.Observation, bool) {
	if len(raw) < nbnsHeaderLen+1 {
		return discovery.Observation{}, false
	}
	ancount := binary.BigEndian.Uint16(raw[6:8])
	if ancount == 0 {
		return discovery.Observation{}, false
	}

	pos := nbnsHeaderLen
	nameLen := int(raw[pos])
	pos++
	pos += nameLen + 1 // encoded name body + root label terminator
	if pos+10 > len(raw) {
		return discovery.Observation{}, false
	}
	pos += 8 // TYPE(2) CLASS(2) TTL(4)
	rdlength := int(binary.BigEndian.Uint16(raw[pos : pos+2]))
	pos += 2
	if rdlength <= 0 || pos >= len(raw) {
		return discovery.Observation{}, false
	}

	rdata := raw[pos:]
	if len(rdata) < 1 {
		return discovery.Observation{}, false
	}
	numNames := int(rdata[0])
	off := 1

	var hostname, workgroup string
	for i := 0; i < numNames && off+18 <= len(rdata); i++ {
		nameField := rdata[off : off+15]
		suffix := rdata[off+15]
		flags := binary.BigEndian.Uint16(rdata[off+16 : off+18])
		off += 18

		name := strings.TrimRight(string(nameField), " \x00")
		isGroup := flags&nameFlagGroup != 0

		switch {
		case isGroup && (suffix == 0x00 || suffix == 0x1e) && workgroup == "":
			workgroup = name
		case !isGroup && suffix == 0x00 && hostname == "":
			hostname = name
		}
	}

	var mac string
	if off+6 <= len(rdata) {
		mac = net.HardwareAddr(rdata[off : off+6]).String()
	}

	obs := discovery.Observation{
		Source:    discovery.SourceNetBIOS,
		Timestamp: time.Now(),
		Hostname:  hostname,
		Workgroup: workgroup,
		MAC:       mac,
	}
	if from != nil {
		if v4 := from.To4(); v4 != nil {
			obs.IPv4 = v4.String()
		}
	}
	if !obs.HasIdentifier() {
		return discovery.Observation{}, false
	}
	return obs, true
}
