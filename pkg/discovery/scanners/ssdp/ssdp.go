// Package ssdp implements the SSDP (Simple Service Discovery Protocol)
// driver: it sends an M-SEARCH multicast and collects UPnP responses from
// devices advertising their services (spec.md §4.4 "SSDP driver"). Smart
// TVs, media servers, IoT devices, network printers, and home automation
// hubs commonly answer.
package ssdp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
	"github.com/corvidae-labs/netwatch/pkg/discovery/parse"
)

const (
	multicastAddrV4 = "239.255.255.250:1900"
	multicastAddrV6 = "[ff02::c]:1900"
	headerMan       = `"ssdp:discover"`
	headerST        = "ssdp:all"
	headerMX        = 2
)

// Driver implements discovery.Driver for the SSDP source.
type Driver struct {
	Iface     *netutil.Iface
	IPv6      bool
	SearchFor time.Duration

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs an SSDP Driver bound to the given interface.
func New(iface *netutil.Iface, ipv6Enabled bool) *Driver {
	return &Driver{Iface: iface, IPv6: ipv6Enabled, SearchFor: 3 * time.Second}
}

func (d *Driver) Name() string { return "ssdp" }

// Stop cancels any in-flight search. Idempotent.
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

// Start sends an M-SEARCH over IPv4 (and IPv6, when enabled) and emits one
// Observation per distinct responder until the search window elapses
// (spec.md §4.4).
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	window := d.SearchFor
	if window <= 0 {
		window = 3 * time.Second
	}
	deadline := time.Now().Add(window)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := d.search(ctx, "udp4", multicastAddrV4, deadline, out); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}
	}()

	if d.IPv6 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := d.search(ctx, "udp6", multicastAddrV6, deadline, out); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}

	wg.Wait()
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func (d *Driver) search(ctx context.Context, network, addr string, deadline time.Time, out chan<- discovery.Observation) error {
	mAddr, err := net.ResolveUDPAddr(network, addr)
	if err != nil {
		return fmt.Errorf("resolve ssdp addr: %w", err)
	}

	var local *net.UDPAddr
	if network == "udp4" && d.Iface != nil && d.Iface.IPv4 != nil {
		local = &net.UDPAddr{IP: d.Iface.IPv4}
	}
	conn, err := net.ListenUDP(network, local)
	if err != nil {
		return nil // missing IPv6 stack or permission is non-fatal
	}
	defer func() { _ = conn.Close() }()

	req := fmt.Sprintf(
		"M-SEARCH * HTTP/1.1\r\n"+
			"HOST: %s\r\n"+
			"MAN: %s\r\n"+
			"MX: %d\r\n"+
			"ST: %s\r\n"+
			"USER-AGENT: netwatch/1.0\r\n\r\n",
		addr, headerMan, headerMX, headerST,
	)
	if _, err := conn.WriteToUDP([]byte(req), mAddr); err != nil {
		return fmt.Errorf("send m-search: %w", err)
	}

	if err := conn.SetReadDeadline(deadline); err != nil {
		return fmt.Errorf("set read deadline: %w", err)
	}

	buf := make([]byte, 8192)
	for {
		if ctx.Err() != nil {
			return nil
		}
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				return nil
			}
			return nil
		}

		resp, ok := parse.ParseSSDPResponse(string(buf[:n]))
		if !ok {
			continue
		}
		obs, ok := resp.ToObservation()
		if !ok {
			continue
		}
		select {
		case out <- obs:
		case <-ctx.Done():
			return nil
		}
	}
}
