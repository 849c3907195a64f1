// Package state holds the application's mutable UI state: the device
// store, the current selection, and the handful of flags views read to
// decide what to render. It is the seam between the event loop (which
// mutates it) and the views (which only ever see a ReadOnly snapshot of
// it), mirroring the read/write split the event-driven UI is built around.
package state

import (
	"sync"

	"github.com/corvidae-labs/netwatch/internal/core/config"
	"github.com/corvidae-labs/netwatch/internal/discovery"
)

// ReadOnly is the subset of AppState views are allowed to see. Views never
// get a pointer to the live AppState so they can't mutate it outside the
// event loop.
type ReadOnly interface {
	Selected() (*discovery.Device, bool)
	DevicesSnapshot() []discovery.Device
	Config() *config.Config
	Version() string
	NoColor() bool
	CurrentTheme() string
	IsDiscovering() bool
	IsPortscanning() bool
	SearchActive() bool
	SearchError() bool
	SearchText() string
}

// AppState is the single mutable store backing the TUI. All mutators are
// meant to be called from the app's event loop goroutine; reads go through
// ReadOnly so views can't race with it.
type AppState struct {
	mu sync.RWMutex

	cfg     *config.Config
	version string

	devices    map[string]*discovery.Device
	selectedIP string

	currentTheme  string
	previousTheme string

	filterPattern string
	isDiscovering bool
	isPortscan    bool
	searchActive  bool
	searchError   bool
}

// NewAppState builds an AppState seeded from cfg's configured theme.
func NewAppState(cfg *config.Config, version string) *AppState {
	s := &AppState{
		cfg:     cfg,
		version: version,
		devices: map[string]*discovery.Device{},
	}
	if cfg != nil {
		s.currentTheme = cfg.Theme.Name
	}
	return s
}

// UpsertDevice merges an incoming device observation into the store.
func (s *AppState) UpsertDevice(d *discovery.Device) {
	if d == nil || d.IP == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := d.IP.String()
	if existing, ok := s.devices[key]; ok {
		existing.Merge(d)
	} else {
		cp := *d
		s.devices[key] = &cp
	}
}

// DevicesSnapshot returns a copy of every known device.
func (s *AppState) DevicesSnapshot() []discovery.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]discovery.Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, *d)
	}
	return out
}

// SetSelectedIP marks which device the detail/port-scan views operate on.
func (s *AppState) SetSelectedIP(ip string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedIP = ip
}

// Selected returns the currently selected device's entry in the store, so
// callers (e.g. a port scan) can mutate it in place and have the change
// stick without a separate write-back call.
func (s *AppState) Selected() (*discovery.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selectedIP == "" {
		return nil, false
	}
	d, ok := s.devices[s.selectedIP]
	return d, ok
}

// GetDevice looks up a single device by its IP string (e.g. for a daemon
// HTTP handler keyed on the URL path).
func (s *AppState) GetDevice(ip string) (*discovery.Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.devices[ip]
	return d, ok
}

// SetFilterPattern records the table's current (possibly in-progress)
// regex filter, which also doubles as the text the filter bar displays.
func (s *AppState) SetFilterPattern(pattern string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterPattern = pattern
}

// CurrentTheme returns the active theme name.
func (s *AppState) CurrentTheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentTheme
}

// SetCurrentTheme records the active theme name.
func (s *AppState) SetCurrentTheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentTheme = name
}

// SetPreviousTheme records the theme active before a picker preview
// started, for rollback on cancel.
func (s *AppState) SetPreviousTheme(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previousTheme = name
}

// PreviousTheme returns the theme recorded before a picker preview began.
func (s *AppState) PreviousTheme() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.previousTheme
}

// SetIsDiscovering marks whether a scan is currently running.
func (s *AppState) SetIsDiscovering(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isDiscovering = v
}

// SetIsPortscanning marks whether an interactive port scan is in flight.
func (s *AppState) SetIsPortscanning(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.isPortscan = v
}

// SetSearchActive marks whether the device table's search/filter bar is
// currently shown.
func (s *AppState) SetSearchActive(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchActive = v
}

// SetSearchError marks whether the in-progress search pattern fails to
// compile as a regex.
func (s *AppState) SetSearchError(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchError = v
}

// ReadOnly returns a read-only view over this live state (not a copy) for
// views to render from without holding a mutable reference.
func (s *AppState) ReadOnly() ReadOnly {
	return roView{s}
}

type roView struct {
	s *AppState
}

func (r roView) Selected() (*discovery.Device, bool) { return r.s.Selected() }
func (r roView) DevicesSnapshot() []discovery.Device { return r.s.DevicesSnapshot() }
func (r roView) Config() *config.Config              { return r.s.cfg }
func (r roView) Version() string                     { return r.s.version }

func (r roView) NoColor() bool {
	if r.s.cfg == nil {
		return false
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.cfg.Theme.NoColor
}

func (r roView) CurrentTheme() string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.currentTheme
}

func (r roView) IsDiscovering() bool {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.isDiscovering
}

func (r roView) IsPortscanning() bool {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.isPortscan
}

func (r roView) SearchActive() bool {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.searchActive
}

func (r roView) SearchError() bool {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.searchError
}

func (r roView) SearchText() string {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.filterPattern
}
