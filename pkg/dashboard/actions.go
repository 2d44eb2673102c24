package dashboard

import "github.com/matzehuels/situationroom/pkg/widget"

// Action is a state transition understood by Reducer.Reduce.
// The set of actions is closed.
type Action interface {
	// Kind identifies the action in logs.
	Kind() string
	isAction()
}

// CreateDashboard appends an empty dashboard and makes it active.
// An empty ID is filled in by the reducer.
type CreateDashboard struct {
	ID   string
	Name string
}

// DeleteDashboard removes a dashboard. If it was active, the first remaining
// dashboard becomes active, or none if the list is empty.
type DeleteDashboard struct {
	ID string
}

// SetActiveDashboard changes the active dashboard.
type SetActiveDashboard struct {
	ID string
}

// UpdateSettings applies a partial settings change.
type UpdateSettings struct {
	ID    string
	Patch SettingsPatch
}

// AddWidget creates a widget of the given type through the registry and
// places it on the dashboard without overlapping existing widgets.
type AddWidget struct {
	DashboardID string
	Type        widget.Type
}

// RemoveWidget deletes a widget's config and layout.
type RemoveWidget struct {
	DashboardID string
	WidgetID    string
}

// UpdateWidgetConfig shallow-merges Patch into a widget's config.
// See widget.ApplyPatch.
type UpdateWidgetConfig struct {
	DashboardID string
	WidgetID    string
	Patch       map[string]any
}

// UpdateLayouts replaces the layout of every widget whose id matches the I of
// an incoming layout. Other widgets keep theirs.
type UpdateLayouts struct {
	DashboardID string
	Layouts     []widget.Layout
}

// LoadShared appends a dashboard seeded from a decoded share link and makes
// it active. Name defaults to "Shared Dashboard".
type LoadShared struct {
	ID       string
	Name     string
	Widgets  []widget.Instance
	Settings SettingsPatch
}

func (CreateDashboard) Kind() string    { return "create-dashboard" }
func (DeleteDashboard) Kind() string    { return "delete-dashboard" }
func (SetActiveDashboard) Kind() string { return "set-active-dashboard" }
func (UpdateSettings) Kind() string     { return "update-settings" }
func (AddWidget) Kind() string          { return "add-widget" }
func (RemoveWidget) Kind() string       { return "remove-widget" }
func (UpdateWidgetConfig) Kind() string { return "update-widget-config" }
func (UpdateLayouts) Kind() string      { return "update-layouts" }
func (LoadShared) Kind() string         { return "load-shared" }

func (CreateDashboard) isAction()    {}
func (DeleteDashboard) isAction()    {}
func (SetActiveDashboard) isAction() {}
func (UpdateSettings) isAction()     {}
func (AddWidget) isAction()          {}
func (RemoveWidget) isAction()       {}
func (UpdateWidgetConfig) isAction() {}
func (UpdateLayouts) isAction()      {}
func (LoadShared) isAction()         {}
