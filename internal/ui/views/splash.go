package views

import (
	"fmt"
	"strings"

	"github.com/corvidae-labs/netwatch/internal/core/state"
	"github.com/corvidae-labs/netwatch/internal/ui/events"
	"github.com/corvidae-labs/netwatch/internal/ui/theme"
	"github.com/rivo/tview"
)

var _ View = &SplashView{}

var netwatchLogo = []string{
	`                _                    _       _     `,
	`  _ __   ___  | |___      ____ _| |_ ___| |__  `,
	` | '_ \ / _ \ | __\ \ /\ / / _  | __/ __| '_ \ `,
	` | | | |  __/ | |_ \ V  V / (_| | || (__| | | |`,
	` |_| |_|\___|  \__| \_/\_/ \__,_|\__\___|_| |_|`,
	"\n",
}

// SplashView shows the app logo for a configured delay before handing off
// to the dashboard.
type SplashView struct {
	*tview.Flex
	logo   *tview.TextView
	footer *tview.TextView
	emit   func(events.Event)
}

func NewSplashView(emit func(events.Event)) *SplashView {
	root := tview.NewFlex().SetDirection(tview.FlexRow)
	root.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)

	logo := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetTextColor(tview.Styles.SecondaryTextColor)
	logo.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	logoText := strings.Join(netwatchLogo, "\n")
	_, _ = fmt.Fprint(logo, logoText)
	logoLines := len(strings.Split(logoText, "\n"))

	centeredLogo := tview.NewFlex().SetDirection(tview.FlexRow)
	centeredLogo.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)
	centeredLogo.AddItem(tview.NewTextView(), 0, 1, false)
	centeredLogo.AddItem(logo, logoLines, 0, false)
	centeredLogo.AddItem(tview.NewTextView(), 0, 1, false)

	footer := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter).
		SetTextColor(tview.Styles.SecondaryTextColor)
	footer.SetBackgroundColor(tview.Styles.PrimitiveBackgroundColor)

	root.AddItem(centeredLogo, 0, 1, false)
	root.AddItem(footer, 1, 0, false)

	p := &SplashView{Flex: root, logo: logo, footer: footer, emit: emit}

	theme.RegisterPrimitive(root)
	theme.RegisterPrimitive(logo)
	theme.RegisterPrimitive(footer)

	return p
}

func (p *SplashView) FocusTarget() tview.Primitive { return p.Flex }

// Render writes the version into the footer once state is available.
func (p *SplashView) Render(s state.ReadOnly) {
	if v := s.Version(); v != "" {
		p.footer.SetText(fmt.Sprintf("netwatch - v%s", v))
	}
}
