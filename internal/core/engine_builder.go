// Package core wires the layered configuration system to the discovery
// Orchestrator: it resolves the target interface and CIDR, builds the
// Source Driver set the configured scan level and toggles call for, and
// assembles an Engine ready to Run.
package core

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/corvidae-labs/netwatch/internal/core/config"
	"github.com/corvidae-labs/netwatch/internal/core/paths"
	"github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
	"github.com/corvidae-labs/netwatch/pkg/discovery/oui"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/activescan"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/arp"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/mdns"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/ndp"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/netbios"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/passive"
	"github.com/corvidae-labs/netwatch/pkg/discovery/scanners/ssdp"
	"github.com/corvidae-labs/netwatch/pkg/discovery/sweeper"
)

// ResolveIface picks the interface a run targets: the explicitly configured
// name, or the enumerated primary interface (spec.md §4.1).
func ResolveIface(cfg *config.Config) (*netutil.Iface, error) {
	if cfg.NetworkInterface != "" {
		return netutil.ByName(cfg.NetworkInterface)
	}
	ifaces, err := netutil.Enumerate()
	if err != nil {
		return nil, fmt.Errorf("enumerate interfaces: %w", err)
	}
	iface, ok := netutil.SelectPrimary(ifaces)
	if !ok {
		return nil, discovery.ErrNoInterface
	}
	return iface, nil
}

// ResolveCIDR picks the target block a run scans: the explicitly
// configured CIDR, or the primary interface's IPv4 address with the prefix
// length of its own netmask.
func ResolveCIDR(cfg *config.Config, iface *netutil.Iface) (*netutil.CIDR, error) {
	if cfg.TargetCIDR != "" {
		return netutil.ParseCIDR(cfg.TargetCIDR)
	}
	if iface == nil || iface.IPv4Net == nil {
		return nil, nil
	}
	ones, bits := iface.IPv4Net.Mask.Size()
	if bits != 32 {
		return nil, nil
	}
	return &netutil.CIDR{IP: iface.IPv4, Bits: ones}, nil
}

// BuildEngine assembles an Engine from the layered configuration: it wires
// one Driver per enabled scanner toggle into the phase slots the
// Orchestrator expects (spec.md §4.5), and enables the active-scan driver
// whenever the configured scan level requires it.
func BuildEngine(cfg *config.Config, logger discovery.Logger) (*discovery.Engine, error) {
	ctx := context.Background()
	if logger == nil {
		logger = discovery.NoOpLogger{}
	}

	iface, err := ResolveIface(cfg)
	if err != nil {
		return nil, err
	}

	cidr, err := ResolveCIDR(cfg, iface)
	if err != nil {
		logger.Log(ctx, slog.LevelWarn, "failed to resolve target cidr; active scan disabled", "error", err)
	}

	level, err := discovery.ParseScanLevel(cfg.ScanLevel)
	if err != nil {
		logger.Log(ctx, slog.LevelWarn, "invalid scan level; defaulting to standard", "error", err)
	}

	stateDir, err := paths.StateDir()
	if err != nil {
		logger.Log(ctx, slog.LevelWarn, "failed to resolve state dir for OUI cache; continuing with embedded OUI", "error", err)
		stateDir = ""
	}
	ouiDB, err := oui.New(ctx, oui.WithCacheDir(stateDir))
	if err != nil {
		logger.Log(ctx, slog.LevelWarn, "failed to initialize OUI db; continuing without manufacturer lookup", "error", err)
		ouiDB = nil
	}

	var phase0 []discovery.Driver
	if cfg.Scanners.MDNS.Enabled {
		phase0 = append(phase0, mdns.New(iface))
	}
	if cfg.Scanners.SSDP.Enabled {
		phase0 = append(phase0, ssdp.New(iface, cfg.IPv6Enabled))
	}

	var phase1 []discovery.Driver
	ifaceName := ""
	if iface != nil && iface.Interface != nil {
		ifaceName = iface.Interface.Name
	}
	if cfg.Scanners.ARP.Enabled {
		phase1 = append(phase1, arp.New(ifaceName))
	}
	if cfg.IPv6Enabled && cfg.Scanners.NDP.Enabled {
		phase1 = append(phase1, ndp.New(ifaceName))
	}

	opts := []discovery.EngineOption{
		discovery.WithLogger(logger),
		discovery.WithPhase0Drivers(phase0...),
		discovery.WithPhase1Drivers(phase1...),
	}
	if ouiDB != nil {
		opts = append(opts, discovery.WithOUIRegistry(ouiDB))
	}
	if cfg.Scanners.Passive.Enabled && ifaceName != "" {
		opts = append(opts, discovery.WithPassiveDriver(passive.New(ifaceName)))
	}
	if cfg.Sweeper.Enabled && iface != nil && iface.IPv4Net != nil {
		sw, swErr := sweeper.New(
			sweeper.WithSweeperInterface(iface),
			sweeper.WithSweeperInterval(cfg.Sweeper.Interval),
			sweeper.WithSweeperTimeout(cfg.Sweeper.Timeout),
			sweeper.WithSweeperLogger(logger),
		)
		if swErr != nil {
			logger.Log(ctx, slog.LevelWarn, "failed to build sweeper; continuing without ARP cache stimulation", "error", swErr)
		} else {
			opts = append(opts, discovery.WithSweeperDriver(sw))
		}
	}
	if cfg.Scanners.NetBIOS.Enabled && cidr != nil {
		opts = append(opts, discovery.WithNetBIOSDriver(netbios.New(cidr, nil)))
	}
	if level != discovery.ScanQuick && !cfg.PassiveOnly && cidr != nil {
		opts = append(opts, discovery.WithActiveDriver(activescan.New(cidr, iface, level)))
	}

	engCfg := discovery.Config{
		CIDR:           cidr,
		Iface:          iface,
		ScanLevel:      level,
		PassiveOnly:    cfg.PassiveOnly,
		Watch:          cfg.Watch,
		IPv6Enabled:    cfg.IPv6Enabled,
		SessionTimeout: cfg.SessionTimeout,
	}
	return discovery.NewEngine(engCfg, opts...)
}
