package dashboard

import (
	"fmt"
	"time"

	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// SharedDashboardName names dashboards created by LoadShared without a name.
const SharedDashboardName = "Shared Dashboard"

// Reducer applies actions to a State.
type Reducer struct {
	Registry *registry.Registry
	Now      func() time.Time
	NewID    func() string
}

// NewReducer creates a reducer that builds widgets with reg and takes
// dashboard ids from reg's identity generator.
func NewReducer(reg *registry.Registry) *Reducer {
	return &Reducer{
		Registry: reg,
		Now:      time.Now,
		NewID:    reg.NewID,
	}
}

// Reduce returns the state that results from applying a to s. s is not
// modified. Actions referencing missing dashboards or widgets return s
// unchanged. Errors come from two actions only: AddWidget of an unregistered
// type, and UpdateWidgetConfig with a patch whose values do not fit the
// config's fields (INVALID_CONFIG). A failed action leaves s unchanged.
func (r *Reducer) Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case CreateDashboard:
		return r.createDashboard(s, a), nil
	case DeleteDashboard:
		return deleteDashboard(s, a), nil
	case SetActiveDashboard:
		if s.index(a.ID) < 0 {
			return s, nil
		}
		out := s
		id := a.ID
		out.ActiveDashboardID = &id
		return out, nil
	case UpdateSettings:
		return r.update(s, a.ID, func(d *Dashboard) bool {
			d.Settings = a.Patch.Apply(d.Settings)
			return true
		}), nil
	case AddWidget:
		return r.addWidget(s, a)
	case RemoveWidget:
		return r.update(s, a.DashboardID, func(d *Dashboard) bool {
			i := d.widgetIndex(a.WidgetID)
			if i < 0 {
				return false
			}
			widgets := make([]widget.Instance, 0, len(d.Widgets)-1)
			widgets = append(widgets, d.Widgets[:i]...)
			d.Widgets = append(widgets, d.Widgets[i+1:]...)
			return true
		}), nil
	case UpdateWidgetConfig:
		return r.updateWidgetConfig(s, a)
	case UpdateLayouts:
		return r.update(s, a.DashboardID, func(d *Dashboard) bool {
			return replaceLayouts(d, a.Layouts)
		}), nil
	case LoadShared:
		return r.loadShared(s, a), nil
	case nil:
		return s, nil
	}
	panic(fmt.Sprintf("dashboard: unhandled action %T", a))
}

// update copies the dashboard with the given id, lets fn modify the copy and,
// if fn reports a change, returns a new state holding it with a fresh
// UpdatedAt. The copy's Widgets slice is not shared with s.
func (r *Reducer) update(s State, id string, fn func(*Dashboard) bool) State {
	i := s.index(id)
	if i < 0 {
		return s
	}
	d := s.Dashboards[i]
	d.Widgets = append([]widget.Instance(nil), d.Widgets...)
	if !fn(&d) {
		return s
	}
	d.UpdatedAt = r.Now()

	out := s
	out.Dashboards = append([]Dashboard(nil), s.Dashboards...)
	out.Dashboards[i] = d
	return out
}

func (r *Reducer) createDashboard(s State, a CreateDashboard) State {
	id := a.ID
	if id == "" {
		id = r.NewID()
	}
	if s.index(id) >= 0 {
		return s
	}
	now := r.Now()
	return appendActive(s, Dashboard{
		ID:        id,
		Name:      a.Name,
		CreatedAt: now,
		UpdatedAt: now,
		Widgets:   []widget.Instance{},
		Settings:  DefaultSettings(),
	})
}

func deleteDashboard(s State, a DeleteDashboard) State {
	i := s.index(a.ID)
	if i < 0 {
		return s
	}
	out := State{ActiveDashboardID: s.ActiveDashboardID}
	out.Dashboards = make([]Dashboard, 0, len(s.Dashboards)-1)
	out.Dashboards = append(out.Dashboards, s.Dashboards[:i]...)
	out.Dashboards = append(out.Dashboards, s.Dashboards[i+1:]...)

	if s.ActiveDashboardID != nil && *s.ActiveDashboardID == a.ID {
		out.ActiveDashboardID = nil
		if len(out.Dashboards) > 0 {
			id := out.Dashboards[0].ID
			out.ActiveDashboardID = &id
		}
	}
	return out
}

func (r *Reducer) addWidget(s State, a AddWidget) (State, error) {
	d, ok := s.Dashboard(a.DashboardID)
	if !ok {
		return s, nil
	}
	in, err := r.Registry.CreateInstance(a.Type, registry.CreateOptions{
		ExistingLayouts: d.Layouts(),
		GridCols:        d.Settings.GridCols,
		GridRows:        d.Settings.GridRows,
	})
	if err != nil {
		return s, err
	}
	return r.update(s, a.DashboardID, func(d *Dashboard) bool {
		d.Widgets = append(d.Widgets, in)
		return true
	}), nil
}

func (r *Reducer) updateWidgetConfig(s State, a UpdateWidgetConfig) (State, error) {
	d, ok := s.Dashboard(a.DashboardID)
	if !ok {
		return s, nil
	}
	i := d.widgetIndex(a.WidgetID)
	if i < 0 {
		return s, nil
	}
	cfg, err := widget.ApplyPatch(d.Widgets[i].Config, a.Patch)
	if err != nil {
		return s, err
	}
	return r.update(s, a.DashboardID, func(d *Dashboard) bool {
		d.Widgets[i] = widget.Instance{Config: cfg, Layout: d.Widgets[i].Layout}
		return true
	}), nil
}

// replaceLayouts swaps in every incoming layout whose I matches a widget id
// and reports whether anything matched.
func replaceLayouts(d *Dashboard, layouts []widget.Layout) bool {
	changed := false
	for i, w := range d.Widgets {
		id := w.ID()
		for _, l := range layouts {
			if l.I == id {
				d.Widgets[i] = widget.Instance{Config: w.Config, Layout: l.Clone()}
				changed = true
				break
			}
		}
	}
	return changed
}

func (r *Reducer) loadShared(s State, a LoadShared) State {
	id := a.ID
	if id == "" {
		id = r.NewID()
	}
	if s.index(id) >= 0 {
		return s
	}
	name := a.Name
	if name == "" {
		name = SharedDashboardName
	}
	widgets := make([]widget.Instance, len(a.Widgets))
	for i, w := range a.Widgets {
		widgets[i] = w.Clone()
	}
	now := r.Now()
	return appendActive(s, Dashboard{
		ID:        id,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Widgets:   widgets,
		Settings:  a.Settings.Apply(DefaultSettings()),
	})
}

func appendActive(s State, d Dashboard) State {
	out := State{}
	out.Dashboards = make([]Dashboard, 0, len(s.Dashboards)+1)
	out.Dashboards = append(out.Dashboards, s.Dashboards...)
	out.Dashboards = append(out.Dashboards, d)
	id := d.ID
	out.ActiveDashboardID = &id
	return out
}
