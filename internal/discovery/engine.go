package discovery

import (
	"context"

	coredisc "github.com/corvidae-labs/netwatch/pkg/discovery"
	"github.com/corvidae-labs/netwatch/pkg/discovery/netutil"
)

// EventType distinguishes the kinds of Event the facade forwards to the UI.
type EventType int

const (
	EventScanStarted EventType = iota
	EventScanCompleted
	EventDeviceDiscovered
	EventError
)

// Event is the UI-facing projection of a pkg/discovery.Event: the views
// only ever switch on a handful of outcomes and read a single device or
// error, never the full correlator payload.
type Event struct {
	Type   EventType
	Device *Device
	Error  error
}

// Engine adapts the Orchestrator's subscribe/run API into the
// start-then-range-over-a-channel shape the tview event loop wants.
type Engine struct {
	core   *coredisc.Engine
	Events chan Event
	Iface  *netutil.Iface

	cancel context.CancelFunc
}

// NewEngine wraps a configured Orchestrator with the UI-facing facade.
func NewEngine(core *coredisc.Engine) *Engine {
	return &Engine{
		core:   core,
		Events: make(chan Event, 64),
		Iface:  core.Iface(),
	}
}

// Core exposes the underlying Orchestrator for callers that need the
// richer correlator API (e.g. a final-snapshot read on shutdown).
func (e *Engine) Core() *coredisc.Engine {
	return e.core
}

// Start launches the Orchestrator in the background and begins forwarding
// its lifecycle events onto Events until ctx is cancelled or Stop is
// called. It returns immediately; callers range over Events to observe
// progress.
func (e *Engine) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel

	sub := e.core.Events().Subscribe()

	go func() {
		defer sub.Unsubscribe()
		defer close(e.Events)

		runErr := make(chan error, 1)
		go func() { runErr <- e.core.Run(ctx) }()

		for {
			select {
			case evt, ok := <-sub.Events():
				if !ok {
					return
				}
				e.forward(evt)
			case err := <-runErr:
				if err != nil {
					e.Events <- Event{Type: EventError, Error: err}
				}
				e.Events <- Event{Type: EventScanCompleted}
				return
			}
		}
	}()
}

func (e *Engine) forward(evt coredisc.Event) {
	switch evt.Kind {
	case coredisc.EventScanStarted:
		e.Events <- Event{Type: EventScanStarted}
	case coredisc.EventDeviceDiscovered, coredisc.EventDeviceUpdated, coredisc.EventDeviceEnriched:
		if evt.Record != nil {
			d := FromRecord(evt.Record)
			e.Events <- Event{Type: EventDeviceDiscovered, Device: &d}
		}
	case coredisc.EventScanCompleted:
		e.Events <- Event{Type: EventScanCompleted}
	case coredisc.EventScanError:
		e.Events <- Event{Type: EventError, Error: evt.Err}
	}
}

// Stop cancels the running Orchestrator. Idempotent and safe to call even
// if Start never ran.
func (e *Engine) Stop() {
	if e.cancel != nil {
		e.cancel()
	}
	e.core.Stop()
}

// Devices returns the current correlator snapshot, for callers that need
// every known device rather than waiting on discovery events (e.g. after
// Stop, or to seed a view on startup).
func (e *Engine) Devices() []Device {
	records := e.core.Correlator().GetDevices()
	out := make([]Device, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}
