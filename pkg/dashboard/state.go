package dashboard

import (
	"time"

	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/grid"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// Theme is the dashboard colour scheme.
type Theme string

// Themes.
const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// ParseTheme validates s as a Theme.
func ParseTheme(s string) (Theme, error) {
	if err := errs.ValidateTheme(s); err != nil {
		return "", err
	}
	return Theme(s), nil
}

// Settings are per-dashboard preferences.
type Settings struct {
	DefaultPollIntervalMs int   `json:"defaultPollIntervalMs"`
	Theme                 Theme `json:"theme"`
	GridCols              int   `json:"gridCols"`
	GridRows              int   `json:"gridRows"`
	ShowGridLines         bool  `json:"showGridLines"`
}

// DefaultSettings returns the settings of a new dashboard.
func DefaultSettings() Settings {
	return Settings{
		DefaultPollIntervalMs: 60000,
		Theme:                 ThemeSystem,
		GridCols:              grid.DefaultCols,
		GridRows:              grid.DefaultRows,
		ShowGridLines:         true,
	}
}

// SettingsPatch is a partial Settings. Nil fields are left unchanged.
type SettingsPatch struct {
	DefaultPollIntervalMs *int   `json:"defaultPollIntervalMs,omitempty" yaml:"defaultPollIntervalMs,omitempty"`
	Theme                 *Theme `json:"theme,omitempty" yaml:"theme,omitempty"`
	GridCols              *int   `json:"gridCols,omitempty" yaml:"gridCols,omitempty"`
	GridRows              *int   `json:"gridRows,omitempty" yaml:"gridRows,omitempty"`
	ShowGridLines         *bool  `json:"showGridLines,omitempty" yaml:"showGridLines,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p SettingsPatch) IsZero() bool {
	return p.DefaultPollIntervalMs == nil && p.Theme == nil && p.GridCols == nil &&
		p.GridRows == nil && p.ShowGridLines == nil
}

// Apply returns s with the patch's non-nil fields applied.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.DefaultPollIntervalMs != nil {
		s.DefaultPollIntervalMs = *p.DefaultPollIntervalMs
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.GridCols != nil {
		s.GridCols = *p.GridCols
	}
	if p.GridRows != nil {
		s.GridRows = *p.GridRows
	}
	if p.ShowGridLines != nil {
		s.ShowGridLines = *p.ShowGridLines
	}
	return s
}

// Validate checks the values a patch would set.
func (p SettingsPatch) Validate() error {
	if p.Theme != nil {
		if err := errs.ValidateTheme(string(*p.Theme)); err != nil {
			return err
		}
	}
	cols, rows := 1, 1
	if p.GridCols != nil {
		cols = *p.GridCols
	}
	if p.GridRows != nil {
		rows = *p.GridRows
	}
	if err := errs.ValidateGrid(cols, rows); err != nil {
		return err
	}
	if p.DefaultPollIntervalMs != nil && *p.DefaultPollIntervalMs <= 0 {
		return errs.New(errs.ErrCodeInvalidInput, "poll interval must be positive, got %d", *p.DefaultPollIntervalMs)
	}
	return nil
}

// Dashboard is one grid of widgets.
type Dashboard struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Widgets   []widget.Instance `json:"widgets"`
	Settings  Settings          `json:"settings"`
}

// Widget returns the widget with the given id.
func (d Dashboard) Widget(id string) (widget.Instance, bool) {
	if i := d.widgetIndex(id); i >= 0 {
		return d.Widgets[i], true
	}
	return widget.Instance{}, false
}

func (d Dashboard) widgetIndex(id string) int {
	for i, w := range d.Widgets {
		if w.ID() == id {
			return i
		}
	}
	return -1
}

// Layouts returns the layouts of the dashboard's widgets.
func (d Dashboard) Layouts() []widget.Layout {
	return widget.Layouts(d.Widgets)
}

// Bounds returns the dashboard's grid dimensions.
func (d Dashboard) Bounds() grid.Bounds {
	return grid.Bounds{Cols: d.Settings.GridCols, Rows: d.Settings.GridRows}
}

// Clone returns a deep copy of d.
func (d Dashboard) Clone() Dashboard {
	out := d
	if d.Widgets != nil {
		out.Widgets = make([]widget.Instance, len(d.Widgets))
		for i, w := range d.Widgets {
			out.Widgets[i] = w.Clone()
		}
	}
	return out
}

// State is the full dashboard model.
type State struct {
	Dashboards        []Dashboard `json:"dashboards"`
	ActiveDashboardID *string     `json:"activeDashboardId"`
}

// DefaultDashboardID is the id of the dashboard in Initial.
const DefaultDashboardID = "default-dashboard"

// Initial returns a state with one empty, active dashboard.
func Initial(now time.Time) State {
	id := DefaultDashboardID
	return State{
		Dashboards: []Dashboard{{
			ID:        id,
			Name:      "Dashboard",
			CreatedAt: now,
			UpdatedAt: now,
			Widgets:   []widget.Instance{},
			Settings:  DefaultSettings(),
		}},
		ActiveDashboardID: &id,
	}
}

// Dashboard returns the dashboard with the given id.
func (s State) Dashboard(id string) (Dashboard, bool) {
	if i := s.index(id); i >= 0 {
		return s.Dashboards[i], true
	}
	return Dashboard{}, false
}

// Active returns the active dashboard, if any.
func (s State) Active() (Dashboard, bool) {
	if s.ActiveDashboardID == nil {
		return Dashboard{}, false
	}
	return s.Dashboard(*s.ActiveDashboardID)
}

func (s State) index(id string) int {
	for i, d := range s.Dashboards {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := State{}
	if s.Dashboards != nil {
		out.Dashboards = make([]Dashboard, len(s.Dashboards))
		for i, d := range s.Dashboards {
			out.Dashboards[i] = d.Clone()
		}
	}
	if s.ActiveDashboardID != nil {
		id := *s.ActiveDashboardID
		out.ActiveDashboardID = &id
	}
	return out
}
