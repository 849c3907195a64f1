package discovery

import "time"

// Default timing knobs shared by the Orchestrator and by callers (the
// sweeper, the layered config loader) that need sensible values before a
// Config has been fully assembled.
const (
	DefaultScanInterval  = 30 * time.Second
	DefaultScanTimeout   = 30 * time.Second
	DefaultSweepInterval = 5 * time.Minute
	DefaultSweepTimeout  = 20 * time.Second

	// DefaultSessionTimeout bounds a full Orchestrator run when the caller
	// hasn't configured one explicitly.
	DefaultSessionTimeout = 2 * time.Minute
)
