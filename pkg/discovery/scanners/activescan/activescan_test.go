package activescan

import (
	"context"
	"testing"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	d := New(nil, nil, discovery.ScanStandard)
	require.Equal(t, defaultBatchSize, d.BatchSize)
	require.Equal(t, "active-scan", d.Name())
}

func TestStop_IdempotentBeforeStart(t *testing.T) {
	d := New(nil, nil, discovery.ScanQuick)
	d.Stop()
	d.Stop()
}

func TestStart_RequiresCIDR(t *testing.T) {
	d := New(nil, nil, discovery.ScanStandard)
	out := make(chan discovery.Observation, 1)
	err := d.Start(context.Background(), out)
	require.Error(t, err)
}

func TestKnobsForLevel(t *testing.T) {
	quick := KnobsForLevel(discovery.ScanQuick)
	require.Equal(t, quickPorts, quick.Ports)
	require.False(t, quick.OSDetection)

	standard := KnobsForLevel(discovery.ScanStandard)
	require.Equal(t, standardPorts, standard.Ports)
	require.True(t, standard.OSDetection)

	thorough := KnobsForLevel(discovery.ScanThorough)
	require.True(t, thorough.OSDetection)
	require.Greater(t, len(thorough.Ports), len(standard.Ports))
}
