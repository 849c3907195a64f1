package ssdp

import (
	"context"
	"testing"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	iface := &netutil.Iface{}
	d := New(iface, true)
	require.Equal(t, iface, d.Iface)
	require.True(t, d.IPv6)
	require.Equal(t, "ssdp", d.Name())
}

func TestStop_IdempotentBeforeStart(t *testing.T) {
	d := New(nil, false)
	d.Stop()
	d.Stop()
}

func TestStart_RespectsSearchWindow(t *testing.T) {
	d := New(nil, false)
	d.SearchFor = 10 * time.Millisecond

	done := make(chan error, 1)
	out := make(chan discovery.Observation, 1)
	go func() { done <- d.Start(context.Background(), out) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return once the search window elapsed")
	}
}
