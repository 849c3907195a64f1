// Package routes names the pages the app's tview.Pages router switches
// between, so views and the event loop never hardcode page names.
package routes

const (
	RouteDashboard   = "dashboard"
	RouteDetail      = "detail"
	RouteSplash      = "splash"
	RouteThemePicker = "theme-picker"
	RoutePortScan    = "port-scan"
)
