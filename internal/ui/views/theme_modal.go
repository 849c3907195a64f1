package views

import (
	"github.com/corvidae-labs/netwatch/internal/core/state"
	"github.com/corvidae-labs/netwatch/internal/ui/components"
	"github.com/corvidae-labs/netwatch/internal/ui/events"
	"github.com/corvidae-labs/netwatch/internal/ui/theme"
	"github.com/rivo/tview"
)

var _ View = &ThemeModalView{}

// ThemeModalView is a modal overlay for previewing and picking a theme,
// laid out as a centered flex so it reads as a floating dialog over the
// dashboard/detail screen behind it.
type ThemeModalView struct {
	*tview.Flex
	picker *components.ThemePicker
	footer *tview.TextView
	emit   func(events.Event)
}

func NewThemeModalView(emit func(events.Event)) *ThemeModalView {
	picker := components.NewThemePicker(theme.CurrentManager())

	footer := tview.NewTextView()
	footer.SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetText("j/k: navigate | Enter: apply | Shift+Enter: save to config | Esc: cancel")
	footer.SetTextColor(tview.Styles.SecondaryTextColor)
	footer.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)

	content := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(picker.GetList(), 0, 1, true).
		AddItem(footer, 1, 0, false)

	modalWidth := len(footer.GetText(false))

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexColumn).
			AddItem(nil, 0, 1, false).
			AddItem(content, modalWidth, 0, true).
			AddItem(nil, 0, 1, false), 0, 1, true).
		AddItem(nil, 0, 1, false)

	p := &ThemeModalView{
		Flex:   root,
		picker: picker,
		footer: footer,
		emit:   emit,
	}

	theme.RegisterPrimitive(content)
	theme.RegisterPrimitive(footer)

	picker.OnSelect(func(themeName string) {
		p.emit(events.ThemeSelected{Name: themeName})
		p.emit(events.HideView{})
	})

	picker.OnSave(func(themeName string) {
		p.emit(events.ThemeSelected{Name: themeName})
		p.emit(events.ThemeSaved{Name: themeName})
		p.emit(events.HideView{})
	})

	picker.OnCancel(func() {
		p.emit(events.HideView{})
	})

	return p
}

func (p *ThemeModalView) FocusTarget() tview.Primitive { return p.picker.GetList() }

// Render resets the picker to the currently active theme each time the
// modal is shown; the picker itself remembers that theme for rollback on
// cancel.
func (p *ThemeModalView) Render(_ state.ReadOnly) {
	p.picker.Show()
}
