package parse

import (
	"net"
	"strings"
	"testing"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/stretchr/testify/require"
)

func TestParseNeighborTable_LinuxIPNeighShow(t *testing.T) {
	in := "192.168.1.1 dev eth0 lladdr aa:bb:cc:dd:ee:ff REACHABLE\n" +
		"192.168.1.2 dev eth0 lladdr 00:11:22:33:44:55 FAILED\n" +
		"192.168.1.3 dev eth0  INCOMPLETE\n"

	entries := ParseNeighborTable(strings.NewReader(in))
	require.Len(t, entries, 1)
	require.Equal(t, "192.168.1.1", entries[0].IP.String())
	require.Equal(t, "AA:BB:CC:DD:EE:FF", entries[0].MAC)
}

func TestParseNeighborTable_AbbreviatedOctetsAreExpanded(t *testing.T) {
	in := "192.168.1.1 dev eth0 lladdr 0:0:5e:0:1:f REACHABLE\n"

	entries := ParseNeighborTable(strings.NewReader(in))
	require.Len(t, entries, 1)
	require.Equal(t, "00:00:5E:00:01:0F", entries[0].MAC)
}

func TestParseNeighborTable_BSDStyle(t *testing.T) {
	in := "host.example.com (192.168.1.1) at aa:bb:cc:dd:ee:ff on en0 ifscope [ethernet]\n"

	entries := ParseNeighborTable(strings.NewReader(in))
	require.Len(t, entries, 1)
	require.Equal(t, "192.168.1.1", entries[0].IP.String())
	require.Equal(t, "AA:BB:CC:DD:EE:FF", entries[0].MAC)
}

func TestParseNeighborTable_WindowsStyle(t *testing.T) {
	in := "192.168.1.1          aa-bb-cc-dd-ee-ff     dynamic\n"

	entries := ParseNeighborTable(strings.NewReader(in))
	require.Len(t, entries, 1)
	require.Equal(t, "AA:BB:CC:DD:EE:FF", entries[0].MAC)
}

func TestToObservations_SetsSourceAndIPFamily(t *testing.T) {
	entries := []NeighborEntry{
		{IP: net.ParseIP("192.168.1.1"), MAC: "AA:BB:CC:DD:EE:FF"},
		{IP: net.ParseIP("fe80::1"), MAC: "AA:BB:CC:DD:EE:00"},
	}
	obs := ToObservations(entries, discovery.SourceARP)
	require.Len(t, obs, 2)
	require.Equal(t, "192.168.1.1", obs[0].IPv4)
	require.Equal(t, discovery.SourceARP, obs[0].Source)
	require.Empty(t, obs[1].IPv4)
	require.Len(t, obs[1].IPv6, 1)
}
