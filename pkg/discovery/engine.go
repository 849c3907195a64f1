package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/corvidae-labs/netwatch/pkg/discovery/classify"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
	"github.com/corvidae-labs/netwatch/pkg/discovery/oui"
)

// Phase identifies one step of the Orchestrator's state machine
// (spec.md §4.5).
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseInit
	Phase0Passive
	Phase1Fast
	Phase2Deep
	Phase3Monitor
	PhaseComplete
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseInit:
		return "init"
	case Phase0Passive:
		return "phase0_passive"
	case Phase1Fast:
		return "phase1_fast"
	case Phase2Deep:
		return "phase2_deep"
	case Phase3Monitor:
		return "phase3_monitor"
	case PhaseComplete:
		return "complete"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ScanLevel is the preset tuple of knobs controlling active-scanner breadth
// and depth (spec.md §4.4, §4.5, GLOSSARY).
type ScanLevel int

const (
	ScanQuick ScanLevel = iota
	ScanStandard
	ScanThorough
)

func (l ScanLevel) String() string {
	switch l {
	case ScanQuick:
		return "quick"
	case ScanStandard:
		return "standard"
	case ScanThorough:
		return "thorough"
	default:
		return "unknown"
	}
}

// ParseScanLevel resolves a configured scan-level string, including the
// "fast" -> "quick" alias (spec.md §6, Open Question decision in
// SPEC_FULL.md: the alias is resolved once, here, rather than scattered
// across every driver that reads scan level).
func ParseScanLevel(s string) (ScanLevel, error) {
	switch s {
	case "quick", "fast":
		return ScanQuick, nil
	case "standard", "":
		return ScanStandard, nil
	case "thorough":
		return ScanThorough, nil
	default:
		return ScanStandard, fmt.Errorf("unknown scan level %q", s)
	}
}

// PhaseDeadline derives the per-phase budget for a scan level against an
// overall session timeout (spec.md §4.5 "Per-phase deadlines").
func PhaseDeadline(level ScanLevel, sessionTimeout time.Duration) time.Duration {
	var floor time.Duration
	switch level {
	case ScanQuick:
		floor = 5 * time.Second
	case ScanStandard:
		floor = 30 * time.Second
	case ScanThorough:
		floor = 90 * time.Second
	}
	if sessionTimeout > 0 && sessionTimeout < floor {
		return sessionTimeout
	}
	return floor
}

var (
	ErrNoInterface   = errors.New("no network interface available")
	ErrPrivilege     = errors.New("insufficient privileges for the requested scan level")
	ErrAlreadyRunning = errors.New("orchestrator is already running")
)

// Logger defines a simple logging interface for the engine.
// This allows plugging in different loggers as long as they are
// compatible with slog.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
}

// NoOpLogger is a logger that does nothing. Useful as a default logger to
// avoid nil checks.
type NoOpLogger struct{}

func (n NoOpLogger) Log(_ context.Context, _ slog.Level, _ string, _ ...any) {}

// Driver is the uniform contract every Source Driver conforms to
// (spec.md §4.4, §9 "Driver abstraction"): run to completion or until
// cancelled, emitting Observations into a shared channel. Stop is
// idempotent and must promptly release resources; it is safe to call even
// if Start never ran or already returned.
type Driver interface {
	Name() string
	Start(ctx context.Context, out chan<- Observation) error
	Stop()
}

// Config holds the session-level parameters an Orchestrator run is
// parameterised by (spec.md §6 "Inputs from the process environment").
type Config struct {
	CIDR           *netutil.CIDR
	Iface          *netutil.Iface
	ScanLevel      ScanLevel
	PassiveOnly    bool
	Watch          bool
	IPv6Enabled    bool
	SessionTimeout time.Duration
}

// Engine is the Orchestrator described in spec.md §4.5: it coordinates
// Source Drivers across three phases, feeding their Observations into a
// single-consumer Correlator and broadcasting lifecycle events.
type Engine struct {
	cfg Config

	phase0Drivers []Driver // mDNS, SSDP
	phase1Drivers []Driver // ARP, NDP
	passiveDriver Driver   // packet capture, left running into PHASE3
	sweeperDriver Driver   // ARP cache stimulation, left running into PHASE3
	netbiosDriver Driver   // broadcast + per-IP resolution
	activeDriver  Driver   // active port scanner, PHASE2 only

	correlator *Correlator
	classifier *classify.Classifier
	ouiReg     *oui.Registry
	events     *EventBus
	logger     Logger

	mu      sync.Mutex
	phase   Phase
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	obsCh chan Observation
}

// obsChannelCapacity bounds the channel between drivers and the Correlator
// (spec.md §5 "Backpressure").
const obsChannelCapacity = 1000

// NewEngine constructs an Orchestrator from the given options.
func NewEngine(cfg Config, opts ...EngineOption) (*Engine, error) {
	if cfg.Iface == nil {
		return nil, ErrNoInterface
	}

	e := &Engine{
		cfg:        cfg,
		classifier: classify.New(),
		events:     NewEventBus(),
		logger:     NoOpLogger{},
		phase:      PhaseIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.correlator = NewCorrelator(e.classifier, e.ouiReg)
	return e, nil
}

// Events returns the EventBus observers subscribe to.
func (e *Engine) Events() *EventBus {
	return e.events
}

// Correlator exposes the device store for direct snapshot reads between
// (or after) runs.
func (e *Engine) Correlator() *Correlator {
	return e.correlator
}

// Iface returns the network interface the Orchestrator was configured to
// scan from, for callers (e.g. the on-demand port scanner) that need to
// bind outgoing connections to the same local address.
func (e *Engine) Iface() *netutil.Iface {
	return e.cfg.Iface
}

// Phase returns the Orchestrator's current phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	e.phase = p
	e.mu.Unlock()
	e.events.Publish(Event{Kind: EventScanPhaseChange, Phase: p})
}

// Run drives the Orchestrator through its full phase state machine
// (spec.md §4.5) and returns once PHASE3 (watch mode) is stopped via ctx
// cancellation, or once COMPLETE is reached (non-watch mode).
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrAlreadyRunning
	}
	e.running = true
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	e.obsCh = make(chan Observation, obsChannelCapacity)
	var consumerWg sync.WaitGroup
	consumerWg.Add(1)
	go e.consumeObservations(&consumerWg)

	e.events.Publish(Event{Kind: EventScanStarted})
	e.setPhase(PhaseInit)

	if e.cfg.ScanLevel != ScanQuick && !e.cfg.PassiveOnly && e.activeDriver == nil {
		// spec.md §7: required active-scanner tool missing at scan levels
		// beyond quick is a fatal initialisation error.
		err := ErrPrivilege
		e.setPhase(PhaseFailed)
		e.events.Publish(Event{Kind: EventScanError, Message: err.Error(), Err: err})
		close(e.obsCh)
		consumerWg.Wait()
		return err
	}

	e.setPhase(Phase0Passive)
	e.runPhase0(ctx)

	e.setPhase(Phase1Fast)
	e.runPhase1(ctx)

	if e.cfg.ScanLevel != ScanQuick && !e.cfg.PassiveOnly {
		e.setPhase(Phase2Deep)
		e.runPhase2(ctx)
	}

	if e.cfg.Watch {
		e.setPhase(Phase3Monitor)
		e.runPhase3(ctx)
	}

	e.stopAllDrivers()
	close(e.obsCh)
	consumerWg.Wait()

	e.setPhase(PhaseComplete)
	records := e.correlator.GetDevices()
	e.events.Publish(Event{
		Kind:    EventScanCompleted,
		Records: records,
		Stats:   &ScanStats{DeviceCount: len(records)},
	})
	return nil
}

// Scan runs a single discovery session to completion and returns the
// resulting device set. It is a convenience wrapper around Run for
// one-shot callers (the scan CLI command) that don't need to observe the
// EventBus directly; Watch must be false in the Engine's Config or Scan
// blocks until ctx is cancelled.
func (e *Engine) Scan(ctx context.Context) (*ScanResults, error) {
	start := time.Now()
	if err := e.Run(ctx); err != nil {
		return nil, err
	}
	records := e.correlator.GetDevices()
	return &ScanResults{
		Records: records,
		Stats:   &ScanStats{DeviceCount: len(records), Duration: time.Since(start)},
	}, nil
}

// Stop signals the Orchestrator to halt; Run returns once the current
// phase unwinds and drains its final merge (spec.md §5 "Cancellation
// semantics").
func (e *Engine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (e *Engine) consumeObservations(wg *sync.WaitGroup) {
	defer wg.Done()
	for obs := range e.obsCh {
		e.ingest(obs)
	}
}

func (e *Engine) ingest(obs Observation) {
	rec, created := e.correlator.OnObservation(obs)
	if rec == nil {
		return
	}
	snap := rec.Snapshot()
	if created {
		e.events.Publish(Event{Kind: EventDeviceDiscovered, Record: snap})
	} else {
		e.events.Publish(Event{Kind: EventDeviceUpdated, Record: snap})
	}
	e.events.Publish(Event{Kind: EventDeviceEnriched, Record: snap})
}

func (e *Engine) runDriver(ctx context.Context, d Driver, deadline time.Duration) {
	if d == nil {
		return
	}
	dctx := ctx
	var cancel context.CancelFunc
	if deadline > 0 {
		dctx, cancel = context.WithTimeout(ctx, deadline)
		defer cancel()
	}
	if err := d.Start(dctx, e.obsCh); err != nil {
		e.logger.Log(ctx, slog.LevelWarn, "driver failed", "driver", d.Name(), "err", err)
		e.events.Publish(Event{Kind: EventScanError, Message: fmt.Sprintf("%s: %v", d.Name(), err)})
	}
}

func (e *Engine) runPhase0(ctx context.Context) {
	deadline := PhaseDeadline(e.cfg.ScanLevel, e.cfg.SessionTimeout)
	var wg sync.WaitGroup
	for _, d := range e.phase0Drivers {
		wg.Add(1)
		go func(d Driver) {
			defer wg.Done()
			e.runDriver(ctx, d, deadline)
		}(d)
	}
	wg.Wait()
}

func (e *Engine) runPhase1(ctx context.Context) {
	if e.passiveDriver != nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.runDriver(ctx, e.passiveDriver, 0)
		}()
	}

	if e.sweeperDriver != nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.runDriver(ctx, e.sweeperDriver, 0)
		}()
	}

	deadline := PhaseDeadline(e.cfg.ScanLevel, e.cfg.SessionTimeout)
	var wg sync.WaitGroup
	for _, d := range e.phase1Drivers {
		wg.Add(1)
		go func(d Driver) {
			defer wg.Done()
			e.runDriver(ctx, d, deadline)
		}(d)
	}
	wg.Wait()

	if e.netbiosDriver != nil {
		e.runDriver(ctx, e.netbiosDriver, deadline)
	}
}

func (e *Engine) runPhase2(ctx context.Context) {
	deadline := PhaseDeadline(e.cfg.ScanLevel, e.cfg.SessionTimeout)
	e.runDriver(ctx, e.activeDriver, deadline)
}

func (e *Engine) runPhase3(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.events.Publish(Event{Kind: EventScanProgress, Message: "periodic merge tick"})
		}
	}
}

func (e *Engine) stopAllDrivers() {
	all := append([]Driver{}, e.phase0Drivers...)
	all = append(all, e.phase1Drivers...)
	if e.passiveDriver != nil {
		all = append(all, e.passiveDriver)
	}
	if e.sweeperDriver != nil {
		all = append(all, e.sweeperDriver)
	}
	if e.netbiosDriver != nil {
		all = append(all, e.netbiosDriver)
	}
	if e.activeDriver != nil {
		all = append(all, e.activeDriver)
	}
	for _, d := range all {
		d.Stop()
	}
	e.wg.Wait()
}
