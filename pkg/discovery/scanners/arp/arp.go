// Package arp implements the IPv4 neighbour-table driver: a one-shot
// invocation of the platform's ARP tool whose textual output is handed to
// the neighbour-table parser (spec.md §4.4 "Neighbour-table driver").
package arp

import (
	"bytes"
	"context"
	"os/exec"
	"runtime"
	"sync"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/parse"
)

// Driver implements discovery.Driver for the ARP neighbour-table source.
type Driver struct {
	IfaceName string

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs an ARP Driver bound to the given interface name (used on
// platforms whose neighbour tool requires one).
func New(ifaceName string) *Driver {
	return &Driver{IfaceName: ifaceName}
}

func (d *Driver) Name() string { return "arp" }

// Stop cancels any in-flight invocation. Idempotent.
func (d *Driver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.stopped = true
	if d.cancel != nil {
		d.cancel()
	}
}

// Start invokes the platform ARP cache tool once, parses its output, and
// emits one Observation per resolved entry. Failure to invoke the tool is
// non-fatal: the driver simply completes with zero Observations
// (spec.md §4.4).
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	name, args := neighborCommand(d.IfaceName)
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil
	}

	entries := parse.ParseNeighborTable(bytes.NewReader(stdout.Bytes()))
	for _, obs := range parse.ToObservations(entries, discovery.SourceARP) {
		select {
		case out <- obs:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// neighborCommand returns the platform-appropriate IPv4 neighbour-table
// tool invocation.
func neighborCommand(iface string) (string, []string) {
	switch runtime.GOOS {
	case "linux":
		if iface != "" {
			return "ip", []string{"neigh", "show", "dev", iface}
		}
		return "ip", []string{"neigh", "show"}
	case "windows":
		return "arp", []string{"-a"}
	default: // darwin and other BSDs
		return "arp", []string{"-a"}
	}
}
