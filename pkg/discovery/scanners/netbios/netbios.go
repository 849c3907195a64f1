// Package netbios implements the legacy NetBIOS Name Service driver: a
// broadcast NBSTAT query to the subnet, followed by a best-effort per-host
// unicast NBSTAT query to each address in Driver.Targets. The driver does
// not collect addresses from earlier phases itself; with no Targets only
// the broadcast query is sent (spec.md §4.4 "NetBIOS driver"). Still answered by many Windows hosts,
// printers, and NAS appliances that leave file sharing enabled.
package netbios

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
	"github.com/corvidae-labs/netwatch/pkg/discovery/parse"
)

const (
	nbnsPort         = 137
	defaultBatchSize = 32
)

// Driver implements discovery.Driver for the NetBIOS source.
type Driver struct {
	CIDR *netutil.CIDR

	// Targets lists the addresses queried individually by unicast after
	// the broadcast. When empty, no unicast queries are sent; the CIDR is
	// only used for the broadcast address.
	Targets []net.IP

	BatchSize int

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs a NetBIOS Driver targeting the given CIDR.
func New(cidr *netutil.CIDR, targets []net.IP) *Driver {
	return &Driver{CIDR: cidr, Targets: targets, BatchSize: defaultBatchSize}
}

func (d *Driver) Name() string { return "netbios" }

// Stop cancels any in-flight queries. Idempotent.
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

// Start sends a subnet-directed broadcast NBSTAT query, then queries each
// target host individually, emitting one Observation per responder.
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return nil // no usable UDP socket is non-fatal
	}
	defer func() { _ = conn.Close() }()

	seen := make(map[string]struct{})
	var seenMu sync.Mutex
	emit := func(obs discovery.Observation) {
		if obs.IPv4 != "" {
			seenMu.Lock()
			_, dup := seen[obs.IPv4]
			seen[obs.IPv4] = struct{}{}
			seenMu.Unlock()
			if dup {
				return
			}
		}
		select {
		case out <- obs:
		case <-ctx.Done():
		}
	}

	go d.listen(ctx, conn, emit)

	if d.CIDR != nil {
		if bcast := d.CIDR.Broadcast(); bcast != nil {
			_, _ = conn.WriteToUDP(parse.EncodeNBSTATQuery(1), &net.UDPAddr{IP: bcast, Port: nbnsPort})
		}
	}

	if len(d.Targets) > 0 {
		d.queryTargets(ctx, conn)
	}

	select {
	case <-ctx.Done():
	case <-time.After(1500 * time.Millisecond):
	}
	return nil
}

func (d *Driver) queryTargets(ctx context.Context, conn *net.UDPConn) {
	batch := d.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	sem := make(chan struct{}, batch)
	var wg sync.WaitGroup
	for i, target := range d.Targets {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(target net.IP, id uint16) {
			defer wg.Done()
			defer func() { <-sem }()
			_, _ = conn.WriteToUDP(parse.EncodeNBSTATQuery(id), &net.UDPAddr{IP: target, Port: nbnsPort})
		}(target, uint16(2+i)) // #nosec G115 -- wraps harmlessly, used only to vary the transaction id
	}
	wg.Wait()
}

func (d *Driver) listen(ctx context.Context, conn *net.UDPConn, emit func(discovery.Observation)) {
	buf := make([]byte, 4096)
	for {
		if ctx.Err() != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		n, addr, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			continue
		}
		raw := make([]byte, n)
		copy(raw, buf[:n])

		var from net.IP
		if addr != nil {
			from = addr.IP
		}
		if obs, ok := parse.ParseNBSTATResponse(raw, from); ok {
			emit(obs)
		}
	}
}
