// Package sweeper implements a Source Driver that populates the host's ARP
// cache by provoking ordinary IP traffic rather than reading the cache
// itself (that is the arp package's job). Running without elevated
// privileges, netwatch cannot send ARP requests directly; instead it sends
// UDP/TCP packets to every IP in the target subnet, relying on the kernel
// to perform ARP resolution as a side effect of routing that traffic.
package sweeper

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

const (
	maxConcurrentTriggers = 200
	triggerDeadline       = 300 * time.Millisecond
	tcpDialTimeout        = 300 * time.Millisecond
)

var (
	udpTriggerPorts = []int{9, 33434}
	tcpTriggerPorts = []int{80, 443}
)

var _ discovery.Driver = (*Sweeper)(nil)

// Sweeper is a discovery.Driver that contacts common ports (80, 443 TCP; 9,
// 33434 UDP) on every address in the configured subnet. Connections are
// expected to fail - the goal is to trigger ARP resolution, not to
// establish them. Runs at the configured interval until its context is
// cancelled or Stop is called; emits no Observations of its own.
type Sweeper struct {
	iface    *netutil.Iface
	interval time.Duration
	timeout  time.Duration
	logger   discovery.Logger

	mu      sync.Mutex
	stopped bool
	cancel  context.CancelFunc
}

// New creates a Sweeper with the specified options. The network interface
// is required.
//
// Example:
//
//	sw, err := sweeper.New(
//	    sweeper.WithSweeperInterface(iface),
//	    sweeper.WithSweeperInterval(5 * time.Minute),
//	    sweeper.WithSweeperTimeout(20 * time.Second),
//	)
func New(opts ...Option) (*Sweeper, error) {
	s := &Sweeper{
		interval: discovery.DefaultSweepInterval,
		timeout:  discovery.DefaultSweepTimeout,
		logger:   discovery.NoOpLogger{},
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	if s.iface == nil {
		return nil, errors.New("interface is required for sweeper")
	}

	return s, nil
}

func (s *Sweeper) Name() string { return "sweeper" }

// Stop cancels any in-flight sweep. Idempotent.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
}

// Start begins ARP cache population and runs until ctx is cancelled.
// Performs an immediate sweep, then repeats at the configured interval.
// If interval is 0 or negative, performs a single sweep and returns.
//
// Each sweep sends UDP/TCP packets to every IP in the interface's subnet
// (excluding the host's own address), bounded per-sweep by s.timeout. The
// out channel is unused: the sweeper only stimulates the OS ARP cache, it
// does not itself observe devices.
func (s *Sweeper) Start(ctx context.Context, _ chan<- discovery.Observation) error {
	if s.iface == nil || s.iface.IPv4Net == nil || s.iface.IPv4 == nil {
		return errors.New("sweeper: interface has no IPv4 subnet")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	subnet := s.iface.IPv4Net
	localIP := s.iface.IPv4

	if s.interval <= 0 {
		s.runSweep(ctx, subnet, localIP)
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runSweep(ctx, subnet, localIP)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.runSweep(ctx, subnet, localIP)
		}
	}
}

func (s *Sweeper) runSweep(ctx context.Context, subnet *net.IPNet, localIP net.IP) {
	sweepCtx := ctx
	var cancel context.CancelFunc
	if s.timeout > 0 {
		sweepCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ips := s.generateSubnetIPs(subnet, localIP)
	if len(ips) == 0 {
		return
	}

	s.logger.Log(ctx, slog.LevelDebug, "triggering ARP requests for subnet", "subnet", subnet.String())
	s.triggerSubnetSweep(sweepCtx, ips)
	s.logger.Log(ctx, slog.LevelDebug, "ARP triggering completed", "subnet", subnet.String())
}

func (s *Sweeper) triggerSubnetSweep(ctx context.Context, ips []net.IP) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, maxConcurrentTriggers)
	total := len(ips)
	triggered := 0

	for _, ip := range ips {
		select {
		case <-ctx.Done():
			s.logger.Log(ctx, slog.LevelWarn, "ARP sweep interrupted by context cancellation, this can indicate you have a short scan duration configured", "triggered", triggered, "total", total, "remaining", total-triggered)
			wg.Wait()
			return
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		triggered++

		go func(targetIP net.IP) {
			defer wg.Done()
			defer func() { <-sem }()
			sendARPTarget(targetIP)
		}(ip)
	}

	wg.Wait()
}

func sendARPTarget(ip net.IP) {
	deadline := time.Now().Add(triggerDeadline)

	for _, p := range udpTriggerPorts {
		addr := &net.UDPAddr{IP: ip, Port: p}
		conn, err := net.DialUDP("udp", nil, addr)
		if err != nil {
			continue
		}
		_ = conn.SetWriteDeadline(deadline)
		_, _ = conn.Write([]byte{0})
		_ = conn.Close()
	}

	for _, p := range tcpTriggerPorts {
		addr := net.JoinHostPort(ip.String(), strconv.Itoa(p))
		c, err := net.DialTimeout("tcp", addr, tcpDialTimeout)
		if err == nil {
			_ = c.Close()
		}
	}
}

// generateSubnetIPs generates every IP in the given subnet, skipping
// skipIP (usually the interface's own address). Includes the network and
// broadcast addresses. Limits the scan to a /16 equivalent for larger
// subnets, covering only the first 65536 addresses.
func (s *Sweeper) generateSubnetIPs(subnet *net.IPNet, skipIP net.IP) []net.IP {
	var ips []net.IP
	network := subnet.IP.To4()
	if network == nil {
		return ips
	}

	ones, _ := subnet.Mask.Size()
	if ones < 16 {
		s.logger.Log(context.Background(), slog.LevelWarn, "large subnet detected, limiting ARP scan to /16 equivalent", "prefix", ones, "subnet", subnet.String())
	}

	networkIP := subnet.IP.Mask(subnet.Mask)
	broadcastIP := make(net.IP, len(networkIP))
	copy(broadcastIP, networkIP)

	effectiveMask := subnet.Mask
	if ones < 16 {
		effectiveMask = net.CIDRMask(16, 32)
	}
	for i := range network {
		broadcastIP[i] |= ^effectiveMask[i]
	}

	currentIP := make(net.IP, len(networkIP))
	copy(currentIP, networkIP)

	for {
		if !currentIP.Equal(skipIP) {
			ipCopy := make(net.IP, len(currentIP))
			copy(ipCopy, currentIP)
			ips = append(ips, ipCopy)
		}
		if currentIP.Equal(broadcastIP) {
			break
		}
		currentIP = incrementIP(currentIP)
	}

	return ips
}

// incrementIP increments the IP address by 1.
func incrementIP(ip net.IP) net.IP {
	newIP := make(net.IP, len(ip))
	copy(newIP, ip)
	for i := len(newIP) - 1; i >= 0; i-- {
		newIP[i]++
		if newIP[i] != 0 {
			break
		}
	}
	return newIP
}
