package discovery

import (
	"github.com/corvidae-labs/netwatch/pkg/discovery/oui"
)

// EngineOption configures an Engine during construction with NewEngine.
type EngineOption func(*Engine)

// WithLogger sets a custom logger for the engine and its drivers.
// Default: NoOpLogger (discards all logs).
func WithLogger(logger Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOUIRegistry enables manufacturer name lookups based on MAC address
// OUI prefixes. When set, the Correlator's enrichment hook populates the
// Manufacturer field of device records after every merge.
func WithOUIRegistry(registry *oui.Registry) EngineOption {
	return func(e *Engine) {
		e.ouiReg = registry
	}
}

// WithPhase0Drivers configures the passive-discovery drivers (mDNS, SSDP)
// launched in parallel during PHASE0 (spec.md §4.5).
func WithPhase0Drivers(drivers ...Driver) EngineOption {
	return func(e *Engine) {
		e.phase0Drivers = drivers
	}
}

// WithPhase1Drivers configures the neighbour-table drivers (ARP, NDP)
// launched in parallel during PHASE1 (spec.md §4.5).
func WithPhase1Drivers(drivers ...Driver) EngineOption {
	return func(e *Engine) {
		e.phase1Drivers = drivers
	}
}

// WithPassiveDriver configures the long-running packet-capture driver
// started in PHASE1 and left running through PHASE3 (spec.md §4.5).
func WithPassiveDriver(d Driver) EngineOption {
	return func(e *Engine) {
		e.passiveDriver = d
	}
}

// WithSweeperDriver configures a background driver that stimulates the
// host's ARP cache by generating ordinary IP traffic to every address in
// the target subnet. It is started alongside the passive driver in
// PHASE1 and, in watch mode, keeps running through PHASE3 so the ARP
// driver's periodic reads keep finding fresh entries.
func WithSweeperDriver(d Driver) EngineOption {
	return func(e *Engine) {
		e.sweeperDriver = d
	}
}

// WithNetBIOSDriver configures the NetBIOS resolution driver run at the
// end of PHASE1 (spec.md §4.5).
func WithNetBIOSDriver(d Driver) EngineOption {
	return func(e *Engine) {
		e.netbiosDriver = d
	}
}

// WithActiveDriver configures the active port-scanner driver invoked
// during PHASE2 (spec.md §4.5). Required whenever the configured scan
// level is above quick and passive-only mode is disabled.
func WithActiveDriver(d Driver) EngineOption {
	return func(e *Engine) {
		e.activeDriver = d
	}
}
