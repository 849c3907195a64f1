// Package ndp implements the IPv6 neighbour-table driver. It primes the
// kernel's neighbour cache with a multicast ICMPv6 echo to ff02::1, then
// invokes the platform's IPv6 neighbour-table tool and hands its output to
// the shared neighbour-table parser (spec.md §4.4 "Neighbour-table
// driver").
package ndp

import (
	"bytes"
	"context"
	"net"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv6"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/parse"
)

const allNodesMulticast = "ff02::1"

// Driver implements discovery.Driver for the IPv6 neighbour-table source.
type Driver struct {
	IfaceName string

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs an NDP Driver bound to the given interface name.
func New(ifaceName string) *Driver {
	return &Driver{IfaceName: ifaceName}
}

func (d *Driver) Name() string { return "ndp" }

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

// Start pings ff02::1 to populate the neighbour cache, then reads it back
// via the platform tool and emits one Observation per resolved entry.
// Both the priming ping and the tool invocation are best-effort: failure
// at either step is non-fatal (spec.md §4.4).
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	primeNeighborCache(ctx, d.IfaceName)

	name, args := neighborCommand(d.IfaceName)
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return nil
	}

	entries := parse.ParseNeighborTable(bytes.NewReader(stdout.Bytes()))
	for _, obs := range parse.ToObservations(entries, discovery.SourceNDP) {
		select {
		case out <- obs:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// primeNeighborCache sends one ICMPv6 echo request to the all-nodes
// multicast address so that hosts on the link populate the kernel's NDP
// cache before it is read back. Requires raw-socket privileges; silently
// does nothing if unavailable.
func primeNeighborCache(ctx context.Context, ifaceName string) {
	conn, err := icmp.ListenPacket("ip6:ipv6-icmp", "::")
	if err != nil {
		return
	}
	defer conn.Close()

	p := conn.IPv6PacketConn()
	if p != nil && ifaceName != "" {
		if ifi, err := net.InterfaceByName(ifaceName); err == nil {
			_ = p.SetMulticastInterface(ifi)
		}
	}

	msg := icmp.Message{
		Type: ipv6.ICMPTypeEchoRequest,
		Code: 0,
		Body: &icmp.Echo{ID: int(time.Now().UnixNano() & 0xffff), Seq: 1, Data: []byte("netwatch-ndp-prime")},
	}
	wb, err := msg.Marshal(nil)
	if err != nil {
		return
	}

	dst, err := net.ResolveIPAddr("ip6", allNodesMulticast)
	if err != nil {
		return
	}

	dctx, dcancel := context.WithTimeout(ctx, 2*time.Second)
	defer dcancel()
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	_, _ = conn.WriteTo(wb, dst)

	<-dctx.Done()
}

// neighborCommand returns the platform-appropriate IPv6 neighbour-table
// tool invocation.
func neighborCommand(iface string) (string, []string) {
	switch runtime.GOOS {
	case "linux":
		if iface != "" {
			return "ip", []string{"-6", "neigh", "show", "dev", iface}
		}
		return "ip", []string{"-6", "neigh", "show"}
	case "windows":
		return "netsh", []string{"interface", "ipv6", "show", "neighbors"}
	default: // darwin and other BSDs
		return "ndp", []string{"-an"}
	}
}
