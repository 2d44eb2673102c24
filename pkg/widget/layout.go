package widget

import "github.com/matzehuels/situationroom/pkg/grid"

// Layout is a widget's rectangle on the dashboard grid, in cells.
// I equals the owning config's ID. The optional bounds constrain
// interactive resizing and are not part of the shared state.
type Layout struct {
	I    string `json:"i"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
	W    int    `json:"w"`
	H    int    `json:"h"`
	MinW *int   `json:"minW,omitempty"`
	MinH *int   `json:"minH,omitempty"`
	MaxW *int   `json:"maxW,omitempty"`
	MaxH *int   `json:"maxH,omitempty"`
}

// Rect returns the layout's rectangle.
func (l Layout) Rect() grid.Rect {
	return grid.Rect{X: l.X, Y: l.Y, W: l.W, H: l.H}
}

// Clone returns a copy of l that shares no pointers with it.
func (l Layout) Clone() Layout {
	out := l
	out.MinW = clonePtr(l.MinW)
	out.MinH = clonePtr(l.MinH)
	out.MaxW = clonePtr(l.MaxW)
	out.MaxH = clonePtr(l.MaxH)
	return out
}

// Instance pairs a config with its layout.
type Instance struct {
	Config Config `json:"config"`
	Layout Layout `json:"layout"`
}

// ID returns the instance identity.
func (in Instance) ID() string {
	if in.Config == nil {
		return in.Layout.I
	}
	return in.Config.Common().ID
}

// Clone returns a deep copy of the instance.
func (in Instance) Clone() Instance {
	return Instance{Config: Clone(in.Config), Layout: in.Layout.Clone()}
}

// Rects returns the rectangles of the given layouts.
func Rects(layouts []Layout) []grid.Rect {
	rects := make([]grid.Rect, len(layouts))
	for i, l := range layouts {
		rects[i] = l.Rect()
	}
	return rects
}

// Layouts returns the layouts of the given instances.
func Layouts(instances []Instance) []Layout {
	layouts := make([]Layout, len(instances))
	for i, in := range instances {
		layouts[i] = in.Layout
	}
	return layouts
}
