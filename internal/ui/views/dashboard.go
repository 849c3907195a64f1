package views

import (
	"github.com/gdamore/tcell/v2"
	"github.com/corvidae-labs/netwatch/internal/core/state"
	"github.com/corvidae-labs/netwatch/internal/ui/components"
	"github.com/corvidae-labs/netwatch/internal/ui/events"
	"github.com/corvidae-labs/netwatch/internal/ui/routes"
	"github.com/corvidae-labs/netwatch/internal/ui/theme"
	"github.com/rivo/tview"
)

var _ View = &DashboardView{}

// DashboardView lists every discovered device in a searchable table.
type DashboardView struct {
	*tview.Flex
	header      *components.Header
	deviceTable *components.DeviceTable
	filterBar   *components.FilterBar
	statusBar   *components.StatusBar

	emit  func(events.Event)
	queue func(f func())
}

func NewDashboardView(emit func(events.Event), queue func(f func())) *DashboardView {
	header := components.NewHeader()
	table := components.NewDeviceTable()
	filterBar := components.NewFilterBar()

	statusBar := components.NewStatusBar()
	statusBar.SetHelp("j/k: up/down" + components.Divider + "/: search" + components.Divider + "Enter: details" + components.Divider + "Ctrl+T: theme")
	statusBar.Spinner().SetSuffix(" Scanning...")

	main := tview.NewFlex().SetDirection(tview.FlexRow)
	main.AddItem(header, 1, 0, false)
	main.AddItem(table, 0, 1, true)

	d := &DashboardView{
		Flex:        main,
		header:      header,
		deviceTable: table,
		filterBar:   filterBar,
		statusBar:   statusBar,
		emit:        emit,
		queue:       queue,
	}

	table.OnSearchStatus(func(status components.SearchStatus) {
		d.emit(events.FilterChanged{Pattern: status.Filter})
		d.emit(events.SearchError{Error: status.Error})
		if status.Showing {
			d.emit(events.SearchStarted{})
		} else {
			d.emit(events.SearchFinished{})
		}
		d.setFooterVisible(status.Showing)
	})

	table.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		return table.HandleInput(ev)
	})

	table.SetSelectedFunc(func(row, col int) {
		ip := table.SelectedIP()
		if ip == "" {
			return
		}
		d.emit(events.DeviceSelected{IP: ip})
		d.emit(events.NavigateTo{Route: routes.RouteDetail})
	})

	d.setFooterVisible(false)

	theme.RegisterPrimitive(d)
	theme.RegisterPrimitive(d.filterBar)

	return d
}

func (d *DashboardView) setFooterVisible(showFilter bool) {
	d.Flex.RemoveItem(d.filterBar)
	d.Flex.RemoveItem(d.statusBar.Primitive())
	if showFilter {
		d.Flex.AddItem(d.filterBar, 1, 0, false)
	}
	d.Flex.AddItem(d.statusBar.Primitive(), 1, 0, false)
}

func (d *DashboardView) FocusTarget() tview.Primitive { return d.deviceTable }

// Render refreshes the table from the latest device snapshot and updates
// the header/status chrome.
func (d *DashboardView) Render(s state.ReadOnly) {
	d.deviceTable.ReplaceAll(s.DevicesSnapshot())
	d.header.Render(s)
	d.filterBar.Render(s)

	if s.IsDiscovering() {
		d.statusBar.Spinner().Start(d.queue)
	} else {
		d.statusBar.Spinner().Stop(d.queue)
	}
}
