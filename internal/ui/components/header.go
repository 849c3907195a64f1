package components

import (
	"github.com/corvidae-labs/netwatch/internal/core/state"
	"github.com/corvidae-labs/netwatch/internal/ui/theme"
	"github.com/rivo/tview"
)

var _ UIComponent = &Header{}

// Header is a simple reusable header bar for pages. It renders the app
// title and, once state carries a version, appends it.
type Header struct {
	*tview.TextView
}

const baseTitle = "netwatch"

// NewHeader creates a header showing the app title. The version is filled
// in on the first Render call, once state is available.
func NewHeader() *Header {
	tv := tview.NewTextView().
		SetText(baseTitle).
		SetTextAlign(tview.AlignCenter)

	theme.RegisterPrimitive(tv)
	return &Header{TextView: tv}
}

// Render implements UIComponent.
func (h *Header) Render(s state.ReadOnly) {
	text := baseTitle
	if v := s.Version(); v != "" {
		text = baseTitle + " - v" + v
	}
	h.SetText(text)
}
