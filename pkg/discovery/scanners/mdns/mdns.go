// Package mdns implements the multicast-DNS (Bonjour/Avahi) driver. It
// joins 224.0.0.251:5353, repeatedly issues a DNS-SD "all services" PTR
// query, and hands every response packet to the shared mDNS wire parser
// (spec.md §4.4 "mDNS driver").
package mdns

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"golang.org/x/net/dns/dnsmessage"
	"golang.org/x/net/ipv4"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
	"github.com/corvidae-labs/netwatch/pkg/discovery/parse"
)

const (
	serviceDiscoveryQuery = "_services._dns-sd._udp.local."
	mdnsMulticastAddress  = "224.0.0.251"
	mdnsPort              = 5353
	maxBufferSize         = 16384
)

// Driver implements discovery.Driver for the mDNS source.
type Driver struct {
	Iface *netutil.Iface

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs an mDNS Driver bound to the given interface.
func New(iface *netutil.Iface) *Driver {
	return &Driver{Iface: iface}
}

func (d *Driver) Name() string { return "mdns" }

// Stop cancels any in-flight listen loop. Idempotent.
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

// Start joins the mDNS multicast group, issues periodic DNS-SD queries, and
// emits an Observation for every distinct host learnt from a response
// packet until ctx is canceled.
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	addr, err := net.ResolveUDPAddr("udp4", fmt.Sprintf("%s:%d", mdnsMulticastAddress, mdnsPort))
	if err != nil {
		return fmt.Errorf("resolve mdns multicast address: %w", err)
	}

	var local net.IP
	if d.Iface != nil {
		local = d.Iface.IPv4
	}
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: local, Port: 0})
	if err != nil {
		return nil // no usable IPv4 stack is non-fatal
	}
	defer func() { _ = conn.Close() }()

	if d.Iface != nil && d.Iface.Interface != nil {
		p := ipv4.NewPacketConn(conn)
		if err := p.JoinGroup(d.Iface.Interface, addr); err != nil {
			return nil // insufficient privilege to join multicast is non-fatal
		}
	}

	query := func() {
		msg := dnsmessage.Message{
			Header: dnsmessage.Header{ID: 0, RecursionDesired: false},
			Questions: []dnsmessage.Question{{
				Name:  dnsmessage.MustNewName(serviceDiscoveryQuery),
				Type:  dnsmessage.TypePTR,
				Class: dnsmessage.ClassINET,
			}},
		}
		if packet, err := msg.Pack(); err == nil {
			_, _ = conn.WriteToUDP(packet, addr)
		}
	}

	query()
	time.Sleep(50 * time.Millisecond)
	query()

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				query()
			}
		}
	}()

	buf := make([]byte, maxBufferSize)
	seen := make(map[string]struct{})
	for {
		if ctx.Err() != nil {
			return nil
		}
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, _, err := conn.ReadFromUDP(buf)
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
		for _, obs := range parse.ParseMDNSPacket(raw) {
			key := obs.FQDN
			if key == "" {
				key = obs.IPv4
			}
			if key != "" {
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			select {
			case out <- obs:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
