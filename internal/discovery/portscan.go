package discovery

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

// PortScanner runs an on-demand TCP connect scan against a single host,
// triggered interactively from the detail view rather than as part of the
// Orchestrator's phased scan (spec.md §4.4's active-scan knobs don't apply
// here: the operator picks the ports and the host directly).
type PortScanner struct {
	concurrency int
	iface       *netutil.Iface
}

// NewPortScanner builds a PortScanner bounded to concurrency simultaneous
// in-flight connects, dialing out from iface's address when set.
func NewPortScanner(concurrency int, iface *netutil.Iface) *PortScanner {
	if concurrency <= 0 {
		concurrency = 15
	}
	return &PortScanner{concurrency: concurrency, iface: iface}
}

// Stream dials every port in ports against ip, invoking onOpen for each
// that accepts a connection within timeout. It blocks until every port has
// been tried or ctx is cancelled.
func (s *PortScanner) Stream(ctx context.Context, ip string, ports []int, timeout time.Duration, onOpen func(port int)) error {
	var dialer net.Dialer
	if s.iface != nil && s.iface.IPv4 != nil {
		dialer.LocalAddr = &net.TCPAddr{IP: s.iface.IPv4}
	}

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, port := range ports {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			defer func() { <-sem }()

			dialCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			conn, err := dialer.DialContext(dialCtx, "tcp", fmt.Sprintf("%s:%d", ip, port))
			if err != nil {
				return
			}
			_ = conn.Close()

			mu.Lock()
			defer mu.Unlock()
			if onOpen != nil {
				onOpen(port)
			}
		}(port)
	}
	wg.Wait()
	return nil
}
