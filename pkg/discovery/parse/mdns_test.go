package parse

import (
	"testing"

	"golang.org/x/net/dns/dnsmessage"

	"github.com/stretchr/testify/require"
)

func buildARecordPacket(t *testing.T, name string, ip [4]byte) []byte {
	t.Helper()
	builder := dnsmessage.NewBuilder(nil, dnsmessage.Header{Response: true})
	require.NoError(t, builder.StartAnswers())
	require.NoError(t, builder.AResource(
		dnsmessage.ResourceHeader{
			Name:  dnsmessage.MustNewName(name),
			Type:  dnsmessage.TypeA,
			Class: dnsmessage.ClassINET,
		},
		dnsmessage.AResource{A: ip},
	))
	raw, err := builder.Finish()
	require.NoError(t, err)
	return raw
}

func TestParseMDNSPacket_ARecordYieldsObservation(t *testing.T) {
	raw := buildARecordPacket(t, "host1.local.", [4]byte{192, 168, 1, 50})

	obs := ParseMDNSPacket(raw)
	require.Len(t, obs, 1)
	require.Equal(t, "192.168.1.50", obs[0].IPv4)
	require.Equal(t, "host1.local", obs[0].FQDN)
	require.Equal(t, "host1", obs[0].Hostname)
}

func TestParseMDNSPacket_MalformedReturnsNil(t *testing.T) {
	obs := ParseMDNSPacket([]byte{0x01, 0x02})
	require.Nil(t, obs)
}

func TestParseMDNSPacket_EmptyPacketYieldsNoObservations(t *testing.T) {
	builder := dnsmessage.NewBuilder(nil, dnsmessage.Header{Response: true})
	require.NoError(t, builder.StartAnswers())
	raw, err := builder.Finish()
	require.NoError(t, err)

	obs := ParseMDNSPacket(raw)
	require.Empty(t, obs)
}
