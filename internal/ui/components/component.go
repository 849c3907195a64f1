package components

import "github.com/corvidae-labs/netwatch/internal/core/state"

// Divider separates entries in a status bar's help text.
const Divider = "  |  "

// UIComponent is any widget that refreshes itself from a read-only state
// snapshot, independent of whether it's a full page (views.View) or a
// smaller piece embedded in one.
type UIComponent interface {
	Render(s state.ReadOnly)
}
