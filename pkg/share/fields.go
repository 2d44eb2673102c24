package share

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"

	"github.com/matzehuels/situationroom/pkg/widget"
)

// field maps one config field to its key in the minimal form.
type field struct {
	key string
	get func(widget.Config) any
	set func(widget.Config, json.RawMessage) error
}

func fieldOf[C widget.Config, V any](key string, ptr func(C) *V) field {
	return field{
		key: key,
		get: func(cfg widget.Config) any { return *ptr(cfg.(C)) },
		set: func(cfg widget.Config, raw json.RawMessage) error {
			var v V
			if err := json.Unmarshal(raw, &v); err != nil {
				return err
			}
			*ptr(cfg.(C)) = v
			return nil
		},
	}
}

var titleField = field{
	key: "tl",
	get: func(cfg widget.Config) any { return cfg.Common().Title },
	set: func(cfg widget.Config, raw json.RawMessage) error {
		return json.Unmarshal(raw, &cfg.Common().Title)
	},
}

// fieldTables lists the shareable fields of each built-in type. Keys must
// be unique within a type. Every field except id and type is covered.
var fieldTables = map[widget.Type][]field{
	widget.TypeMap: {
		titleField,
		fieldOf("c", func(c *widget.MapConfig) *[2]float64 { return &c.Center }),
		fieldOf("z", func(c *widget.MapConfig) *float64 { return &c.Zoom }),
		fieldOf("s", func(c *widget.MapConfig) **bool { return &c.ShowConflicts }),
		fieldOf("n", func(c *widget.MapConfig) **string { return &c.LocationName }),
	},
	widget.TypeEventFeed: {
		titleField,
		fieldOf("q", func(c *widget.EventFeedConfig) *string { return &c.Filters.Query }),
		fieldOf("ts", func(c *widget.EventFeedConfig) *string { return &c.Filters.Timespan }),
		fieldOf("p", func(c *widget.EventFeedConfig) *int { return &c.PollIntervalMs }),
		fieldOf("m", func(c *widget.EventFeedConfig) *int { return &c.MaxItems }),
		fieldOf("im", func(c *widget.EventFeedConfig) *bool { return &c.ShowImages }),
		fieldOf("k", func(c *widget.EventFeedConfig) *[]string { return &c.HighlightKeywords }),
	},
	widget.TypePolymarket: {
		titleField,
		fieldOf("s", func(c *widget.PolymarketConfig) **string { return &c.EventSlug }),
		fieldOf("et", func(c *widget.PolymarketConfig) **string { return &c.EventTitle }),
		fieldOf("i", func(c *widget.PolymarketConfig) *widget.ChartInterval { return &c.ChartInterval }),
	},
	widget.TypeBlueskyFeed: {
		titleField,
		fieldOf("q", func(c *widget.BlueskyFeedConfig) *string { return &c.Query }),
		fieldOf("m", func(c *widget.BlueskyFeedConfig) *int { return &c.MaxResults }),
		fieldOf("p", func(c *widget.BlueskyFeedConfig) *int { return &c.PollIntervalMs }),
		fieldOf("sm", func(c *widget.BlueskyFeedConfig) *bool { return &c.ShowMedia }),
	},
	widget.TypeFlightTracker: {
		titleField,
		fieldOf("cs", func(c *widget.FlightTrackerConfig) *string { return &c.Callsign }),
		fieldOf("p", func(c *widget.FlightTrackerConfig) *int { return &c.PollIntervalMs }),
		fieldOf("tr", func(c *widget.FlightTrackerConfig) *bool { return &c.ShowTrail }),
		fieldOf("ac", func(c *widget.FlightTrackerConfig) *bool { return &c.AutoCenter }),
		fieldOf("z", func(c *widget.FlightTrackerConfig) *float64 { return &c.Zoom }),
		fieldOf("lp", func(c *widget.FlightTrackerConfig) **[2]float64 { return &c.LastPosition }),
	},
	widget.TypeNotes: {
		titleField,
		fieldOf("x", func(c *widget.NotesConfig) *string { return &c.Content }),
	},
	widget.TypeYoutube: {
		titleField,
		fieldOf("u", func(c *widget.YoutubeConfig) *string { return &c.VideoURL }),
	},
	widget.TypeRSSFeed: {
		titleField,
		fieldOf("u", func(c *widget.RSSFeedConfig) *string { return &c.FeedURL }),
		fieldOf("p", func(c *widget.RSSFeedConfig) *int { return &c.PollIntervalMs }),
		fieldOf("m", func(c *widget.RSSFeedConfig) *int { return &c.MaxItems }),
	},
}

// tableFor returns the field table for cfg. Configs whose Go type does not
// match the built-in variant for their tag have no table.
func tableFor(cfg widget.Config) ([]field, bool) {
	t := cfg.Common().Type
	fields, ok := fieldTables[t]
	if !ok {
		return nil, false
	}
	want, err := widget.New(t)
	if err != nil || reflect.TypeOf(want) != reflect.TypeOf(cfg) {
		return nil, false
	}
	return fields, true
}

// minimizeConfig returns the fields of cfg that differ from def. def may be
// nil, in which case every field is kept. Types without a field table fall
// back to their JSON field names.
func minimizeConfig(cfg, def widget.Config) (map[string]any, error) {
	c := make(map[string]any)
	fields, ok := tableFor(cfg)
	if !ok || (def != nil && reflect.TypeOf(def) != reflect.TypeOf(cfg)) {
		return minimizeJSON(cfg, def)
	}
	for _, f := range fields {
		v := f.get(cfg)
		if def != nil {
			same, err := sameJSON(v, f.get(def))
			if err != nil {
				return nil, err
			}
			if same {
				continue
			}
		}
		c[f.key] = v
	}
	return c, nil
}

// overlayConfig writes the fields present in c onto cfg. Fields that fail to
// decode are returned by key and leave cfg's value in place.
func overlayConfig(cfg widget.Config, c map[string]json.RawMessage) (bad []string) {
	fields, ok := tableFor(cfg)
	if !ok {
		return overlayJSON(cfg, c)
	}
	for _, f := range fields {
		raw, ok := c[f.key]
		if !ok {
			continue
		}
		if err := f.set(cfg, raw); err != nil {
			bad = append(bad, f.key)
		}
	}
	return bad
}

func minimizeJSON(cfg, def widget.Config) (map[string]any, error) {
	got, err := jsonFields(cfg)
	if err != nil {
		return nil, err
	}
	var want map[string]json.RawMessage
	if def != nil {
		if want, err = jsonFields(def); err != nil {
			return nil, err
		}
	}
	c := make(map[string]any, len(got))
	for k, v := range got {
		if k == "id" || k == "type" {
			continue
		}
		if w, ok := want[k]; ok && bytes.Equal(w, v) {
			continue
		}
		c[k] = v
	}
	return c, nil
}

func overlayJSON(cfg widget.Config, c map[string]json.RawMessage) (bad []string) {
	base := *cfg.Common()
	for k, raw := range c {
		if k == "id" || k == "type" {
			continue
		}
		obj, _ := json.Marshal(map[string]json.RawMessage{k: raw})
		if err := json.Unmarshal(obj, cfg); err != nil {
			bad = append(bad, k)
		}
	}
	cfg.Common().ID = base.ID
	cfg.Common().Type = base.Type
	slices.Sort(bad)
	return bad
}

func jsonFields(cfg widget.Config) (map[string]json.RawMessage, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sameJSON(a, b any) (bool, error) {
	x, err := json.Marshal(a)
	if err != nil {
		return false, err
	}
	y, err := json.Marshal(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(x, y), nil
}
