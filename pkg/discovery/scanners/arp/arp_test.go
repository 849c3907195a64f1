package arp

import (
	"context"
	"testing"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	d := New("eth0")
	require.Equal(t, "eth0", d.IfaceName)
	require.Equal(t, "arp", d.Name())
}

func TestStop_IdempotentBeforeStart(t *testing.T) {
	d := New("")
	d.Stop()
	d.Stop()
}

func TestStart_CompletesOnUnknownInterface(t *testing.T) {
	d := New("")
	out := make(chan discovery.Observation, 1)

	done := make(chan error, 1)
	go func() { done <- d.Start(context.Background(), out) }()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return")
	}
}
