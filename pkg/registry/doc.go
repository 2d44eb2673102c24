// Package registry is the catalog of widget types available to dashboards.
//
// A [Registry] maps a widget type tag to its [Definition]: display metadata,
// the default config and layout for new instances, and opaque references to
// the components that render the widget. Adding a widget type is purely
// additive: build a Definition and [Registry.Register] it.
//
// Registries are explicit values. There is no package-level instance; the
// application constructs one at start-up (usually with [NewDefault], which
// registers the built-in types) and hands it to the dashboard reducer, the
// share codec and the HTTP layer. Tests construct their own.
//
// # Creating instances
//
// [Registry.CreateInstance] turns a type tag into a ready-to-place widget:
//
//	in, err := reg.CreateInstance(widget.TypeMap, registry.CreateOptions{
//	    ExistingLayouts: widget.Layouts(dashboard.Widgets),
//	    GridCols:        24,
//	    GridRows:        16,
//	})
//
// The instance gets a fresh identity, a copy of the type's default config,
// and a position chosen by [grid.FindPlacement] so it does not overlap the
// existing layouts. Asking for an unregistered type is a programmer error
// and returns an UNKNOWN_WIDGET_TYPE error.
//
// Registration is expected to finish before the first lookup. The registry
// is nonetheless safe for concurrent use.
package registry
