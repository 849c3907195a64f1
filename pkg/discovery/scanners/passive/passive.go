// Package passive implements the passive-capture driver: a raw AF_PACKET
// listener that observes every Ethernet frame crossing the interface and
// classifies it as ARP, DHCPv4, DHCPv6, ICMPv6 neighbor discovery, NetBIOS
// name service, or a generic IPv4/IPv6 frame, without ever transmitting.
// Unlike the other drivers it is started once and left running for the
// remainder of a session, since hosts reveal themselves at unpredictable
// times (a laptop waking from sleep, a phone rejoining Wi-Fi).
package passive

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/mdlayher/packet"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/parse"
)

// ethPAll is Linux's ETH_P_ALL, requesting every EtherType rather than one
// specific protocol.
const ethPAll = 0x0003

// Driver implements discovery.Driver for the passive-capture source.
type Driver struct {
	IfaceName string

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs a passive-capture Driver bound to the given interface.
func New(ifaceName string) *Driver {
	return &Driver{IfaceName: ifaceName}
}

func (d *Driver) Name() string { return "passive" }

// Stop closes the capture socket. Idempotent.
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

// Start opens a raw AF_PACKET socket on the configured interface and emits
// Observations for every frame classify recognises, until ctx is canceled.
// Lack of raw-socket privilege is non-fatal: the driver simply contributes
// nothing.
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	ifi, err := net.InterfaceByName(d.IfaceName)
	if err != nil {
		return nil
	}

	conn, err := packet.Listen(ifi, packet.Raw, ethPAll, nil)
	if err != nil {
		return nil
	}
	defer func() { _ = conn.Close() }()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	buf := make([]byte, 65536)
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		n, _, err := conn.ReadFrom(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		raw := make([]byte, n)
		copy(raw, buf[:n])

		for _, obs := range classify(raw) {
			select {
			case out <- obs:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// classify turns one captured frame into zero or more Observations. A
// frame yields at most one Observation except the generic-frame fallback,
// which may contribute both a source and a destination pair.
func classify(raw []byte) []discovery.Observation {
	frame, ok := parse.ParseEthernetFrame(raw)
	if !ok {
		return nil
	}

	switch frame.Type {
	case parse.EtherTypeARP:
		if obs, ok := parse.ObservationFromARP(frame.Payload); ok {
			return []discovery.Observation{obs}
		}
		return nil
	case parse.EtherTypeIPv4:
		if obs, ok := parse.ObservationFromDHCPFrame(raw); ok {
			return []discovery.Observation{obs}
		}
		if obs, ok := parse.ObservationFromNetBIOSFrame(raw); ok {
			return []discovery.Observation{obs}
		}
		return parse.ObservationsFromGenericFrame(frame)
	case parse.EtherTypeIPv6:
		if obs, ok := parse.ObservationFromDHCPv6Frame(raw); ok {
			return []discovery.Observation{obs}
		}
		if obs, ok := parse.ObservationFromICMPv6Frame(raw); ok {
			return []discovery.Observation{obs}
		}
		return parse.ObservationsFromGenericFrame(frame)
	default:
		return nil
	}
}
