// Package views implements the top-level screens the app's page router
// switches between: the device dashboard, the device detail screen, the
// splash screen, and the theme-picker and port-scan modals.
package views

import (
	"github.com/corvidae-labs/netwatch/internal/core/state"
	"github.com/rivo/tview"
)

// View is a full-screen or modal page the router can switch to or
// overlay. Render is called with a fresh read-only snapshot whenever
// state changes; FocusTarget tells the router which primitive should hold
// keyboard focus once the view becomes visible.
type View interface {
	tview.Primitive
	Render(s state.ReadOnly)
	FocusTarget() tview.Primitive
}
