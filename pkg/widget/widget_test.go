package widget

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/situationroom/pkg/errors"
)

func sampleConfigs() []Config {
	return []Config{
		&MapConfig{
			Base:          Base{ID: "m1", Type: TypeMap, Title: "Levant"},
			Center:        [2]float64{33.5, 36.3},
			Zoom:          6,
			ShowConflicts: Ptr(false),
			LocationName:  Ptr("Damascus"),
		},
		&EventFeedConfig{
			Base:              Base{ID: "e1", Type: TypeEventFeed, Title: "Events"},
			PollIntervalMs:    30000,
			Filters:           EventFeedFilters{Query: "earthquake", Timespan: "1h"},
			MaxItems:          20,
			ShowImages:        false,
			HighlightKeywords: []string{"tsunami", "aftershock"},
		},
		&PolymarketConfig{
			Base:          Base{ID: "p1", Type: TypePolymarket, Title: "Odds"},
			EventSlug:     Ptr("election-2028"),
			ChartInterval: ChartInterval1w,
		},
		&BlueskyFeedConfig{
			Base:           Base{ID: "b1", Type: TypeBlueskyFeed, Title: "Sky"},
			Query:          "#breaking",
			MaxResults:     10,
			PollIntervalMs: 120000,
			ShowMedia:      true,
		},
		&FlightTrackerConfig{
			Base:           Base{ID: "f1", Type: TypeFlightTracker, Title: "Flights"},
			Callsign:       "UAL123",
			PollIntervalMs: 10000,
			ShowTrail:      true,
			Zoom:           7,
			LastPosition:   &[2]float64{40.6, -73.8},
		},
		&NotesConfig{Base: Base{ID: "n1", Type: TypeNotes, Title: "Notes"}, Content: "line 1\nline 2"},
		&YoutubeConfig{Base: Base{ID: "y1", Type: TypeYoutube, Title: "Live"}, VideoURL: "https://www.youtube.com/watch?v=abc"},
		&RSSFeedConfig{Base: Base{ID: "r1", Type: TypeRSSFeed, Title: "Feed"}, FeedURL: "https://example.com/rss", PollIntervalMs: 60000, MaxItems: 10},
	}
}

func TestNewCoversAllTypes(t *testing.T) {
	for _, typ := range AllTypes {
		cfg, err := New(typ)
		if err != nil {
			t.Fatalf("New(%q) error: %v", typ, err)
		}
		if got := cfg.Common().Type; got != typ {
			t.Errorf("New(%q).Type = %q", typ, got)
		}
		if !Known(typ) {
			t.Errorf("Known(%q) = false", typ)
		}
	}

	_, err := New("nonexistent")
	if !errs.Is(err, errs.ErrCodeUnknownWidgetType) {
		t.Errorf("New(nonexistent) error = %v, want UNKNOWN_WIDGET_TYPE", err)
	}
	if Known("nonexistent") {
		t.Error("Known(nonexistent) = true")
	}
}

type embeddedNotes struct {
	NotesConfig
	Extra string
}

func TestIsVariant(t *testing.T) {
	for _, typ := range AllTypes {
		cfg, _ := New(typ)
		if !IsVariant(cfg) {
			t.Errorf("IsVariant(%T) = false", cfg)
		}
	}
	if IsVariant(&embeddedNotes{}) {
		t.Error("IsVariant(embedded struct) = true")
	}
	if IsVariant(nil) {
		t.Error("IsVariant(nil) = true")
	}
}

func TestConfigJSONRoundTrip(t *testing.T) {
	for _, cfg := range sampleConfigs() {
		t.Run(string(cfg.Common().Type), func(t *testing.T) {
			data, err := MarshalConfig(cfg)
			if err != nil {
				t.Fatalf("MarshalConfig: %v", err)
			}
			got, err := UnmarshalConfig(data)
			if err != nil {
				t.Fatalf("UnmarshalConfig: %v", err)
			}
			if diff := cmp.Diff(cfg, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUnmarshalConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errs.Code
	}{
		{"unknown type", `{"id":"x","type":"zzz","title":"?"}`, errs.ErrCodeUnknownWidgetType},
		{"missing type", `{"id":"x"}`, errs.ErrCodeUnknownWidgetType},
		{"not json", `{`, errs.ErrCodeInvalidConfig},
		{"wrong field type", `{"type":"map","zoom":"far"}`, errs.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalConfig([]byte(tt.data))
			if !errs.Is(err, tt.code) {
				t.Errorf("UnmarshalConfig error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInstanceJSONRoundTrip(t *testing.T) {
	in := Instance{
		Config: sampleConfigs()[1],
		Layout: Layout{I: "e1", X: 4, Y: 0, W: 4, H: 5, MinW: Ptr(4), MinH: Ptr(3)},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var got Instance
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	if got.ID() != "e1" {
		t.Errorf("ID() = %q, want e1", got.ID())
	}
}

func TestCloneIsDeep(t *testing.T) {
	for _, cfg := range sampleConfigs() {
		cp := Clone(cfg)
		if diff := cmp.Diff(cfg, cp); diff != "" {
			t.Fatalf("Clone(%s) differs:\n%s", cfg.Common().Type, diff)
		}
		cp.Common().Title = "changed"
		if cfg.Common().Title == "changed" {
			t.Errorf("Clone(%s) shares its base", cfg.Common().Type)
		}
	}

	m := sampleConfigs()[0].(*MapConfig)
	mc := Clone(m).(*MapConfig)
	*mc.ShowConflicts = true
	*mc.LocationName = "Beirut"
	if *m.ShowConflicts || *m.LocationName != "Damascus" {
		t.Error("Clone(map) shares optional fields")
	}

	e := sampleConfigs()[1].(*EventFeedConfig)
	ec := Clone(e).(*EventFeedConfig)
	ec.HighlightKeywords[0] = "changed"
	if e.HighlightKeywords[0] != "tsunami" {
		t.Error("Clone(event-feed) shares keyword slice")
	}

	if Clone(nil) != nil {
		t.Error("Clone(nil) != nil")
	}
}

func TestWithID(t *testing.T) {
	cfg := sampleConfigs()[5]
	got := WithID(cfg, "fresh")
	if got.Common().ID != "fresh" {
		t.Errorf("WithID ID = %q", got.Common().ID)
	}
	if cfg.Common().ID != "n1" {
		t.Error("WithID modified its input")
	}
}

func TestApplyPatch(t *testing.T) {
	cfg := sampleConfigs()[3].(*BlueskyFeedConfig)

	got, err := ApplyPatch(cfg, map[string]any{
		"query":      "ukraine",
		"maxResults": 50,
		"type":       "map",
		"id":         "hijack",
		"unknown":    true,
	})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}

	want := &BlueskyFeedConfig{
		Base:           Base{ID: "b1", Type: TypeBlueskyFeed, Title: "Sky"},
		Query:          "ukraine",
		MaxResults:     50,
		PollIntervalMs: 120000,
		ShowMedia:      true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ApplyPatch mismatch (-want +got):\n%s", diff)
	}
	if cfg.Query != "#breaking" {
		t.Error("ApplyPatch modified its input")
	}
}

func TestApplyPatchReplacesNestedObjects(t *testing.T) {
	cfg := sampleConfigs()[1]
	got, err := ApplyPatch(cfg, map[string]any{
		"filters": map[string]any{"query": "flood"},
	})
	if err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	f := got.(*EventFeedConfig).Filters
	if f.Query != "flood" || f.Timespan != "" {
		t.Errorf("filters = %+v, want wholesale replacement", f)
	}
}

func TestApplyPatchTypeMismatch(t *testing.T) {
	_, err := ApplyPatch(sampleConfigs()[0], map[string]any{"zoom": "far"})
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("ApplyPatch error = %v, want INVALID_CONFIG", err)
	}
}

func TestLayoutHelpers(t *testing.T) {
	l := Layout{I: "a", X: 1, Y: 2, W: 3, H: 4, MaxW: Ptr(10)}
	if r := l.Rect(); r.X != 1 || r.Y != 2 || r.W != 3 || r.H != 4 {
		t.Errorf("Rect() = %+v", r)
	}
	c := l.Clone()
	*c.MaxW = 99
	if *l.MaxW != 10 {
		t.Error("Layout.Clone shares bound pointers")
	}
	if got := Rects(Layouts([]Instance{{Layout: l}})); len(got) != 1 || got[0] != l.Rect() {
		t.Errorf("Rects(Layouts(...)) = %+v", got)
	}
}
