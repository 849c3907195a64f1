// Package activescan implements the two-phase active port-scanner driver:
// a ping sweep over a CIDR to enumerate live hosts, followed by a detailed
// per-host TCP scan parameterised by scan level (spec.md §4.4).
package activescan

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

// Knobs is the preset tuple of scan-level parameters (spec.md §4.4's scan
// level table; spec.md §9 "Scan-level tables" - configuration, not code
// paths).
type Knobs struct {
	Ports       []int
	HostTimeout time.Duration
	VersionProbe string // "light", "medium", "heavy"
	OSDetection  bool
}

var quickPorts = []int{22, 80, 443}

var standardPorts = []int{
	21, 22, 23, 25, 53, 80, 110, 111, 135, 139,
	143, 443, 445, 993, 995, 1723, 3306, 3389, 5900, 8080,
}

func topThousandPorts() []int {
	ports := make([]int, 0, 1000)
	ports = append(ports, standardPorts...)
	for p := 1; p <= 1024 && len(ports) < 1000; p++ {
		dup := false
		for _, existing := range ports {
			if existing == p {
				dup = true
				break
			}
		}
		if !dup {
			ports = append(ports, p)
		}
	}
	return ports
}

// KnobsForLevel returns the scan-level knob tuple (spec.md §4.4 table).
func KnobsForLevel(level discovery.ScanLevel) Knobs {
	switch level {
	case discovery.ScanQuick:
		return Knobs{Ports: quickPorts, HostTimeout: 10 * time.Second, VersionProbe: "light", OSDetection: false}
	case discovery.ScanThorough:
		return Knobs{Ports: topThousandPorts(), HostTimeout: 90 * time.Second, VersionProbe: "heavy", OSDetection: true}
	default:
		return Knobs{Ports: standardPorts, HostTimeout: 30 * time.Second, VersionProbe: "medium", OSDetection: true}
	}
}

const defaultBatchSize = 15

// Driver implements discovery.Driver for the active port-scanner source.
type Driver struct {
	CIDR      *netutil.CIDR
	Iface     *netutil.Iface
	Level     discovery.ScanLevel
	BatchSize int

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New constructs an activescan Driver.
func New(cidr *netutil.CIDR, iface *netutil.Iface, level discovery.ScanLevel) *Driver {
	return &Driver{CIDR: cidr, Iface: iface, Level: level, BatchSize: defaultBatchSize}
}

func (d *Driver) Name() string { return "active-scan" }

// Stop cancels any in-flight scan. Idempotent.
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

// Start runs the ping sweep then the detailed scan, emitting one
// Observation per responsive host (spec.md §4.4 "Active port-scanner
// driver").
func (d *Driver) Start(ctx context.Context, out chan<- discovery.Observation) error {
	ctx, cancel := context.WithCancel(ctx)
	d.mu.Lock()
	d.cancel = cancel
	d.mu.Unlock()
	defer cancel()

	if d.CIDR == nil {
		return fmt.Errorf("activescan: no target CIDR configured")
	}

	live := d.pingSweep(ctx)
	if len(live) == 0 {
		return nil
	}

	knobs := KnobsForLevel(d.Level)
	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	sem := make(chan struct{}, batchSize)
	var wg sync.WaitGroup
	for _, ip := range live {
		select {
		case <-ctx.Done():
			wg.Wait()
			return ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(ip net.IP) {
			defer wg.Done()
			defer func() { <-sem }()
			d.scanHost(ctx, ip, knobs, out)
		}(ip)
	}
	wg.Wait()
	return nil
}

// pingSweep enumerates live hosts in the target CIDR via ICMP echo,
// waiting at most 2 seconds for each host's reply, whatever the scan level.
func (d *Driver) pingSweep(ctx context.Context) []net.IP {
	first := d.CIDR.FirstHost()
	count := d.CIDR.HostCount()
	if count <= 0 || first == nil {
		return nil
	}

	var mu sync.Mutex
	var live []net.IP
	var wg sync.WaitGroup
	sem := make(chan struct{}, defaultBatchSize)

	ip := append(net.IP(nil), first...)
	for i := 0; i < count; i++ {
		target := incrementIP(ip, i)
		select {
		case <-ctx.Done():
			wg.Wait()
			return live
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(target net.IP) {
			defer wg.Done()
			defer func() { <-sem }()
			if pingHost(ctx, target.String(), 2*time.Second) {
				mu.Lock()
				live = append(live, target)
				mu.Unlock()
			}
		}(target)
	}
	wg.Wait()
	return live
}

func incrementIP(base net.IP, n int) net.IP {
	v4 := base.To4()
	result := make(net.IP, 4)
	copy(result, v4)
	val := uint32(result[0])<<24 | uint32(result[1])<<16 | uint32(result[2])<<8 | uint32(result[3])
	val += uint32(n)
	result[0] = byte(val >> 24)
	result[1] = byte(val >> 16)
	result[2] = byte(val >> 8)
	result[3] = byte(val)
	return result
}

func pingHost(ctx context.Context, addr string, timeout time.Duration) bool {
	pinger, err := probing.NewPinger(addr)
	if err != nil {
		return false
	}
	pinger.Count = 1
	pinger.Timeout = timeout
	pinger.SetPrivileged(false)

	done := make(chan struct{})
	go func() {
		_ = pinger.Run()
		close(done)
	}()

	select {
	case <-ctx.Done():
		pinger.Stop()
		return false
	case <-done:
	}
	stats := pinger.Statistics()
	return stats != nil && stats.PacketsRecv > 0
}

// scanHost runs the detailed TCP connect scan for a single live host and
// emits one Observation carrying every open port found.
func (d *Driver) scanHost(ctx context.Context, ip net.IP, knobs Knobs, out chan<- discovery.Observation) {
	var mu sync.Mutex
	var openPorts []int

	var dialer net.Dialer
	if d.Iface != nil && d.Iface.IPv4 != nil {
		dialer.LocalAddr = &net.TCPAddr{IP: d.Iface.IPv4}
	}

	sem := make(chan struct{}, defaultBatchSize)
	var wg sync.WaitGroup
	for _, port := range knobs.Ports {
		select {
		case <-ctx.Done():
			wg.Wait()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(port int) {
			defer wg.Done()
			defer func() { <-sem }()
			dialCtx, cancel := context.WithTimeout(ctx, knobs.HostTimeout)
			defer cancel()
			conn, err := dialer.DialContext(dialCtx, "tcp", fmt.Sprintf("%s:%d", ip.String(), port))
			if err != nil {
				return
			}
			_ = conn.Close()
			mu.Lock()
			openPorts = append(openPorts, port)
			mu.Unlock()
		}(port)
	}
	wg.Wait()

	if len(openPorts) == 0 {
		return
	}

	services := make([]discovery.ServiceDescriptor, 0, len(openPorts))
	for _, p := range openPorts {
		services = append(services, discovery.ServiceDescriptor{Port: p, Proto: "tcp"})
	}

	obs := discovery.Observation{
		Source:    discovery.SourceActiveTCP,
		Timestamp: time.Now(),
		IPv4:      ip.String(),
		Ports:     openPorts,
		Services:  services,
	}

	select {
	case out <- obs:
	case <-ctx.Done():
	}
}
