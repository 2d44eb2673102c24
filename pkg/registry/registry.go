package registry

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/grid"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// Component is an opaque reference to a renderable unit. The registry only
// stores and returns it.
type Component string

// Metadata describes a widget type for pickers and headers.
type Metadata struct {
	Type        widget.Type `json:"type"`
	DisplayName string      `json:"displayName"`
	Description string      `json:"description,omitempty"`
	Icon        string      `json:"icon"`
	Category    string      `json:"category,omitempty"`
}

// DefaultLayout is the size of a new instance. Position is computed when the
// instance is created.
type DefaultLayout struct {
	W    int  `json:"w"`
	H    int  `json:"h"`
	MinW *int `json:"minW,omitempty"`
	MinH *int `json:"minH,omitempty"`
	MaxW *int `json:"maxW,omitempty"`
	MaxH *int `json:"maxH,omitempty"`
}

// Definition is the registered template of one widget type.
type Definition struct {
	Metadata      Metadata
	DefaultConfig widget.Config // ID is always empty
	DefaultLayout DefaultLayout

	Component        Component
	HeaderExtension  Component // optional
	ToolbarExtension Component // optional
}

// Type returns the registry key of the definition.
func (d Definition) Type() widget.Type { return d.Metadata.Type }

// clone copies the definition so callers cannot mutate registered defaults.
func (d Definition) clone() Definition {
	d.DefaultConfig = widget.Clone(d.DefaultConfig)
	d.DefaultLayout.MinW = clonePtr(d.DefaultLayout.MinW)
	d.DefaultLayout.MinH = clonePtr(d.DefaultLayout.MinH)
	d.DefaultLayout.MaxW = clonePtr(d.DefaultLayout.MaxW)
	d.DefaultLayout.MaxH = clonePtr(d.DefaultLayout.MaxH)
	return d
}

// CreateOptions control where a new instance is placed.
// Zero grid dimensions fall back to grid.DefaultCols × grid.DefaultRows.
type CreateOptions struct {
	ExistingLayouts []widget.Layout
	GridCols        int
	GridRows        int
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for registration diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithIDGenerator replaces the identity generator (random UUIDs by default).
func WithIDGenerator(fn func() string) Option {
	return func(r *Registry) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// Registry maps widget type tags to definitions.
type Registry struct {
	mu     sync.RWMutex
	defs   map[widget.Type]Definition
	order  []widget.Type
	logger *log.Logger
	newID  func() string
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		defs:   make(map[widget.Type]Definition),
		logger: log.Default(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDefault creates a registry holding the built-in widget types.
func NewDefault(opts ...Option) *Registry {
	r := New(opts...)
	RegisterBuiltins(r)
	return r
}

// Register adds def, replacing any definition of the same type. Replacing
// logs a warning and keeps the type's original position in enumeration
// order. A definition whose default config is missing, tagged with a
// different type, or not one of the widget package's config structs is
// logged and ignored.
func (r *Registry) Register(def Definition) {
	t := def.Type()
	if def.DefaultConfig == nil || def.DefaultConfig.Common().Type != t {
		r.logger.Error("widget definition rejected: default config does not match type", "type", t)
		return
	}
	if !widget.IsVariant(def.DefaultConfig) {
		r.logger.Error("widget definition rejected: unsupported config struct",
			"type", t, "config", fmt.Sprintf("%T", def.DefaultConfig))
		return
	}
	def = def.clone()
	def.DefaultConfig.Common().ID = ""

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.defs[t]; ok {
		r.logger.Warn("widget type already registered, overwriting", "type", t)
	} else {
		r.order = append(r.order, t)
	}
	r.defs[t] = def
}

// Get returns the definition registered for t.
func (r *Registry) Get(t widget.Type) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, ok := r.defs[t]
	if !ok {
		return Definition{}, false
	}
	return def.clone(), true
}

// Lookup is Get for callers that require a definition. It returns an
// UNKNOWN_WIDGET_TYPE error when t is not registered.
func (r *Registry) Lookup(t widget.Type) (Definition, error) {
	def, ok := r.Get(t)
	if !ok {
		return Definition{}, errs.UnknownWidgetType(string(t))
	}
	return def, nil
}

// GetAll returns every definition in registration order.
func (r *Registry) GetAll() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t].clone())
	}
	return out
}

// GetAllMetadata returns the metadata of every definition in registration order.
func (r *Registry) GetAllMetadata() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Metadata, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.defs[t].Metadata)
	}
	return out
}

// GetTypes returns the registered type tags in registration order.
func (r *Registry) GetTypes() []widget.Type {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]widget.Type(nil), r.order...)
}

// Has reports whether t is registered.
func (r *Registry) Has(t widget.Type) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.defs[t]
	return ok
}

// Reset removes every definition.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.defs = make(map[widget.Type]Definition)
	r.order = nil
}

// NewID returns a fresh widget identity.
func (r *Registry) NewID() string {
	return r.newID()
}

// CreateInstance builds a new widget of type t with a fresh identity, the
// type's default config and a non-overlapping position.
func (r *Registry) CreateInstance(t widget.Type, opts CreateOptions) (widget.Instance, error) {
	def, err := r.Lookup(t)
	if err != nil {
		return widget.Instance{}, err
	}

	cols, rows := opts.GridCols, opts.GridRows
	if cols <= 0 {
		cols = grid.DefaultCols
	}
	if rows <= 0 {
		rows = grid.DefaultRows
	}

	id := r.newID()
	dl := def.DefaultLayout
	pos := grid.FindPlacement(
		widget.Rects(opts.ExistingLayouts),
		grid.Size{W: dl.W, H: dl.H},
		grid.Bounds{Cols: cols, Rows: rows},
	)

	return widget.Instance{
		Config: widget.WithID(def.DefaultConfig, id),
		Layout: widget.Layout{
			I:    id,
			X:    pos.X,
			Y:    pos.Y,
			W:    dl.W,
			H:    dl.H,
			MinW: dl.MinW,
			MinH: dl.MinH,
			MaxW: dl.MaxW,
			MaxH: dl.MaxH,
		},
	}, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
