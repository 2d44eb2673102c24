package share

import (
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/widget"
)

// CurrentSchemaVersion is written into every token. Tokens with a newer
// version are decoded on a best-effort basis.
const CurrentSchemaVersion = 1

// MinimalState is the serialized form of a shared dashboard.
type MinimalState struct {
	V int             `json:"v"`
	T string          `json:"t,omitempty"` // theme, omitted when "system"
	W []MinimalWidget `json:"w"`
}

// MinimalWidget is one widget in a MinimalState.
type MinimalWidget struct {
	T string         `json:"t"` // type abbreviation
	L [4]int         `json:"l"` // x, y, w, h
	C map[string]any `json:"c"`
}

// Decoded is the result of decoding a token. Settings only carries the
// values present in the token.
type Decoded struct {
	Widgets  []widget.Instance       `json:"widgets"`
	Settings dashboard.SettingsPatch `json:"settings"`
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger sets the logger used for decode diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Codec) {
		if l != nil {
			c.logger = l
		}
	}
}

// Codec encodes and decodes dashboards against the defaults held by a
// registry.
type Codec struct {
	reg    *registry.Registry
	logger *log.Logger
}

// New creates a codec backed by reg.
func New(reg *registry.Registry, opts ...Option) *Codec {
	c := &Codec{reg: reg, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Minimize builds the minimal form of d.
func (c *Codec) Minimize(d dashboard.Dashboard) (MinimalState, error) {
	ms := MinimalState{V: CurrentSchemaVersion, W: make([]MinimalWidget, 0, len(d.Widgets))}
	if d.Settings.Theme != "" && d.Settings.Theme != dashboard.ThemeSystem {
		ms.T = string(d.Settings.Theme)
	}

	for _, in := range d.Widgets {
		if in.Config == nil {
			c.logger.Warn("skipping widget without config", "id", in.Layout.I)
			continue
		}
		t := in.Config.Common().Type
		var def widget.Config
		if d, ok := c.reg.Get(t); ok {
			def = d.DefaultConfig
		}
		cfg, err := minimizeConfig(in.Config, def)
		if err != nil {
			return MinimalState{}, errs.Wrap(errs.ErrCodeInternal, err, "minimize %s widget %s", t, in.ID())
		}
		l := in.Layout
		ms.W = append(ms.W, MinimalWidget{
			T: Abbreviate(t),
			L: [4]int{l.X, l.Y, l.W, l.H},
			C: cfg,
		})
	}
	return ms, nil
}

// Encode returns the share token for d.
func (c *Codec) Encode(d dashboard.Dashboard) (string, error) {
	ms, err := c.Minimize(d)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(ms)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "encode share state")
	}
	return Pack(data)
}

// EstimateURLLength returns the length of the share URL for d under base.
func (c *Codec) EstimateURLLength(base string, d dashboard.Dashboard) (int, error) {
	token, err := c.Encode(d)
	if err != nil {
		return 0, err
	}
	return EstimateURLLength(base, token), nil
}

// wireState is the shape accepted by Decode, with v already parsed. Theme
// and widgets stay raw so that each one can be validated on its own.
type wireState struct {
	V float64
	T json.RawMessage
	W []json.RawMessage
}

type wireWidget struct {
	T string                     `json:"t"`
	L []int                      `json:"l"`
	C map[string]json.RawMessage `json:"c"`
}

// Decode reverses Encode. It returns nil if token is not a valid share token.
func (c *Codec) Decode(token string) (out *Decoded) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("share token decode panicked", "panic", r)
			out = nil
		}
	}()

	data, err := Unpack(token)
	if err != nil {
		c.logger.Warn("failed to unpack share token", "error", err)
		return nil
	}
	ws, err := parseState(data)
	if err != nil {
		c.logger.Warn("invalid share state", "error", err)
		return nil
	}

	if ws.V > CurrentSchemaVersion {
		c.logger.Warn("share state is newer than supported, decoding anyway",
			"version", ws.V, "supported", CurrentSchemaVersion)
	}

	out = &Decoded{Widgets: make([]widget.Instance, 0, len(ws.W))}
	if theme, ok := c.decodeTheme(ws.T); ok {
		out.Settings.Theme = &theme
	}
	for i, raw := range ws.W {
		in, err := c.decodeWidget(raw)
		if err != nil {
			c.logger.Warn("skipping shared widget", "index", i, "error", err)
			continue
		}
		out.Widgets = append(out.Widgets, in)
	}
	return out
}

func parseState(data []byte) (wireState, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return wireState{}, fmt.Errorf("not a JSON object: %w", err)
	}
	var ws wireState
	var v *float64
	if raw, ok := fields["v"]; !ok || json.Unmarshal(raw, &v) != nil || v == nil {
		return wireState{}, fmt.Errorf("missing numeric v")
	}
	ws.V = *v
	raw, ok := fields["w"]
	if !ok || json.Unmarshal(raw, &ws.W) != nil || ws.W == nil {
		return wireState{}, fmt.Errorf("missing array w")
	}
	ws.T = fields["t"]
	return ws, nil
}

func (c *Codec) decodeTheme(raw json.RawMessage) (dashboard.Theme, bool) {
	if raw == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		c.logger.Warn("ignoring shared theme", "error", err)
		return "", false
	}
	theme, err := dashboard.ParseTheme(s)
	if err != nil {
		c.logger.Warn("ignoring shared theme", "error", err)
		return "", false
	}
	return theme, true
}

func (c *Codec) decodeWidget(raw json.RawMessage) (widget.Instance, error) {
	var w wireWidget
	if err := json.Unmarshal(raw, &w); err != nil {
		return widget.Instance{}, errs.Wrap(errs.ErrCodeInvalidToken, err, "malformed widget")
	}
	if len(w.L) != 4 || w.L[0] < 0 || w.L[1] < 0 || w.L[2] < 1 || w.L[3] < 1 {
		return widget.Instance{}, errs.New(errs.ErrCodeInvalidLayout, "malformed layout %v", w.L)
	}

	t := Expand(w.T)
	def, err := c.reg.Lookup(t)
	if err != nil {
		return widget.Instance{}, err
	}

	id := c.reg.NewID()
	cfg := widget.WithID(def.DefaultConfig, id)
	if bad := overlayConfig(cfg, w.C); len(bad) > 0 {
		c.logger.Warn("ignoring malformed widget fields", "type", t, "fields", bad)
	}

	dl := def.DefaultLayout
	return widget.Instance{
		Config: cfg,
		Layout: widget.Layout{
			I:    id,
			X:    w.L[0],
			Y:    w.L[1],
			W:    w.L[2],
			H:    w.L[3],
			MinW: dl.MinW,
			MinH: dl.MinH,
			MaxW: dl.MaxW,
			MaxH: dl.MaxH,
		},
	}, nil
}
