// Package dashboard holds the in-memory model of one or more dashboards and
// the reducer that transforms it.
//
// # State
//
// [State] lists dashboards in creation order and names the active one. Each
// [Dashboard] owns its widgets (insertion order, not display order) and its
// [Settings]. The grid dimensions in Settings bound where new widgets are
// placed.
//
// # Actions
//
// The state only changes through [Reducer.Reduce], which applies one of a
// closed set of [Action] values and returns the new state. Reduce never
// modifies its input. Actions that reference a missing dashboard or widget
// are no-ops: the returned state equals the input and no error is reported.
// Reduce returns an error only for AddWidget of an unregistered type and for
// an UpdateWidgetConfig patch whose values do not fit the widget's config.
//
//	r := dashboard.NewReducer(reg)
//	s := dashboard.Initial(time.Now())
//	s, err := r.Reduce(s, dashboard.AddWidget{DashboardID: dashboard.DefaultDashboardID, Type: widget.TypeMap})
//
// [Store] wraps a Reducer with a mutex and change notification for
// long-lived callers such as the HTTP server.
package dashboard
