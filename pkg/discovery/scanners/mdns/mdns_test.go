package mdns

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
	d := New(iface)
	require.Equal(t, iface, d.Iface)
	require.Equal(t, "mdns", d.Name())
}

func TestStop_IdempotentBeforeStart(t *testing.T) {
	d := New(nil)
	d.Stop()
	d.Stop()
}

func TestStart_ContextCancelReturnsPromptly(t *testing.T) {
	d := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	out := make(chan discovery.Observation, 1)
	go func() { done <- d.Start(ctx, out) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after context cancellation")
	}
}
