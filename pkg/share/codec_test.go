package share

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/situationroom/pkg/dashboard"
	"github.com/matzehuels/situationroom/pkg/registry"
	"github.com/matzehuels/situationroom/pkg/widget"
)

func newTestCodec(t *testing.T) (*Codec, *registry.Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	n := 0
	reg := registry.NewDefault(
		registry.WithLogger(logger),
		registry.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("new-%d", n)
		}),
	)
	return New(reg, WithLogger(logger)), reg, &buf
}

func instance(cfg widget.Config, x, y, w, h int) widget.Instance {
	return widget.Instance{
		Config: cfg,
		Layout: widget.Layout{I: cfg.Common().ID, X: x, Y: y, W: w, H: h},
	}
}

func testDashboard(widgets ...widget.Instance) dashboard.Dashboard {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return dashboard.Dashboard{
		ID:        "d1",
		Name:      "Test",
		CreatedAt: now,
		UpdatedAt: now,
		Widgets:   widgets,
		Settings:  dashboard.DefaultSettings(),
	}
}

// customized returns one config per built-in type with every field set
// away from its default.
func customized() []widget.Config {
	return []widget.Config{
		&widget.MapConfig{
			Base:          widget.Base{ID: "m1", Type: widget.TypeMap, Title: "Levant"},
			Center:        [2]float64{33.5, 36.3},
			Zoom:          6,
			ShowConflicts: widget.Ptr(false),
			LocationName:  widget.Ptr("Damascus"),
		},
		&widget.EventFeedConfig{
			Base:              widget.Base{ID: "e1", Type: widget.TypeEventFeed, Title: "Quakes"},
			PollIntervalMs:    30000,
			Filters:           widget.EventFeedFilters{Query: "earthquake", Timespan: "1h"},
			MaxItems:          20,
			ShowImages:        false,
			HighlightKeywords: []string{"tsunami"},
		},
		&widget.PolymarketConfig{
			Base:          widget.Base{ID: "p1", Type: widget.TypePolymarket, Title: "Odds"},
			EventSlug:     widget.Ptr("election-2028"),
			EventTitle:    widget.Ptr("Election 2028"),
			ChartInterval: widget.ChartInterval1w,
		},
		&widget.BlueskyFeedConfig{
			Base:           widget.Base{ID: "b1", Type: widget.TypeBlueskyFeed, Title: "Sky"},
			Query:          "#breaking",
			MaxResults:     10,
			PollIntervalMs: 120000,
			ShowMedia:      false,
		},
		&widget.FlightTrackerConfig{
			Base:           widget.Base{ID: "f1", Type: widget.TypeFlightTracker, Title: "UAL"},
			Callsign:       "UAL123",
			PollIntervalMs: 10000,
			ShowTrail:      false,
			AutoCenter:     false,
			Zoom:           9,
			LastPosition:   &[2]float64{40.6, -73.8},
		},
		&widget.NotesConfig{Base: widget.Base{ID: "n1", Type: widget.TypeNotes, Title: "Log"}, Content: "line 1\nline 2"},
		&widget.YoutubeConfig{Base: widget.Base{ID: "y1", Type: widget.TypeYoutube, Title: "Live"}, VideoURL: "https://www.youtube.com/watch?v=abc"},
		&widget.RSSFeedConfig{Base: widget.Base{ID: "r1", Type: widget.TypeRSSFeed, Title: "Wire"}, FeedURL: "https://example.com/rss", PollIntervalMs: 60000, MaxItems: 10},
	}
}

func TestDefaultMapMinimizesToNothing(t *testing.T) {
	c, reg, _ := newTestCodec(t)
	def, _ := reg.Get(widget.TypeMap)
	cfg := widget.WithID(def.DefaultConfig, "m1")
	d := testDashboard(instance(cfg, 0, 0, 8, 10))

	ms, err := c.Minimize(d)
	if err != nil {
		t.Fatal(err)
	}
	want := MinimalState{V: CurrentSchemaVersion, W: []MinimalWidget{{T: "m", L: [4]int{0, 0, 8, 10}, C: map[string]any{}}}}
	if diff := cmp.Diff(want, ms); diff != "" {
		t.Errorf("minimal state mismatch (-want +got):\n%s", diff)
	}

	token, err := c.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	got := c.Decode(token)
	if got == nil || len(got.Widgets) != 1 {
		t.Fatalf("Decode = %+v", got)
	}
	wantCfg := widget.WithID(def.DefaultConfig, got.Widgets[0].ID())
	if diff := cmp.Diff(wantCfg, got.Widgets[0].Config); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if !got.Settings.IsZero() {
		t.Errorf("settings = %+v, want empty", got.Settings)
	}
}

func TestRoundTripModuloDefaults(t *testing.T) {
	c, reg, _ := newTestCodec(t)

	var widgets []widget.Instance
	for i, cfg := range customized() {
		widgets = append(widgets, instance(cfg, i, i*2, 3, 4))
	}
	// One untouched instance per type to exercise default omission.
	for i, typ := range widget.AllTypes {
		def, _ := reg.Get(typ)
		widgets = append(widgets, instance(widget.WithID(def.DefaultConfig, fmt.Sprintf("def-%d", i)), 0, 20+i, 2, 2))
	}
	d := testDashboard(widgets...)
	d.Settings.Theme = dashboard.ThemeDark

	token, err := c.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	got := c.Decode(token)
	if got == nil {
		t.Fatal("Decode returned nil")
	}
	if len(got.Widgets) != len(widgets) {
		t.Fatalf("decoded %d widgets, want %d", len(got.Widgets), len(widgets))
	}
	if got.Settings.Theme == nil || *got.Settings.Theme != dashboard.ThemeDark {
		t.Errorf("theme = %v, want dark", got.Settings.Theme)
	}

	seen := map[string]bool{}
	for i, in := range got.Widgets {
		orig := widgets[i]
		id := in.ID()
		if id == orig.ID() || seen[id] {
			t.Errorf("widget %d: id %q not regenerated", i, id)
		}
		seen[id] = true
		if in.Layout.I != id {
			t.Errorf("widget %d: layout id %q != %q", i, in.Layout.I, id)
		}
		if diff := cmp.Diff(orig.Layout.Rect(), in.Layout.Rect()); diff != "" {
			t.Errorf("widget %d: rect mismatch (-want +got):\n%s", i, diff)
		}

		want := widget.WithID(orig.Config, id)
		if diff := cmp.Diff(want, in.Config); diff != "" {
			t.Errorf("widget %d (%s): config mismatch (-want +got):\n%s", i, orig.Config.Common().Type, diff)
		}
	}
}

func TestReencodeIsIdempotent(t *testing.T) {
	c, _, _ := newTestCodec(t)

	var widgets []widget.Instance
	for i, cfg := range customized() {
		widgets = append(widgets, instance(cfg, i*3, 0, 3, 4))
	}
	d := testDashboard(widgets...)
	d.Settings.Theme = dashboard.ThemeLight

	first, err := c.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	decoded := c.Decode(first)
	if decoded == nil {
		t.Fatal("Decode returned nil")
	}

	again := testDashboard(decoded.Widgets...)
	again.Settings = decoded.Settings.Apply(dashboard.DefaultSettings())
	second, err := c.Encode(again)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("re-encoded token differs:\n first: %s\nsecond: %s", first, second)
	}
}

func TestDecodeFailures(t *testing.T) {
	c, _, buf := newTestCodec(t)

	mustPack := func(s string) string {
		token, err := Pack([]byte(s))
		if err != nil {
			t.Fatal(err)
		}
		return token
	}

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"bad base64", "not-valid-base64!!"},
		{"unknown format", encoding.EncodeToString([]byte{0x7f, '{', '}'})},
		{"truncated lz4", encoding.EncodeToString([]byte{formatLZ4, 0x80})},
		{"not json", mustPack("hello")},
		{"json array", mustPack(`[1,2,3]`)},
		{"v not a number", mustPack(`{"v":"1","w":[]}`)},
		{"v null", mustPack(`{"v":null,"w":[]}`)},
		{"missing v", mustPack(`{"w":[]}`)},
		{"w not an array", mustPack(`{"v":1,"w":{}}`)},
		{"w null", mustPack(`{"v":1,"w":null}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			if got := c.Decode(tt.token); got != nil {
				t.Errorf("Decode(%q) = %+v, want nil", tt.token, got)
			}
			if buf.Len() == 0 {
				t.Error("no diagnostic logged")
			}
		})
	}
}

func TestDecodeSkipsUnknownWidgets(t *testing.T) {
	c, _, buf := newTestCodec(t)
	token, err := Pack([]byte(`{"v":1,"w":[` +
		`{"t":"m","l":[0,0,8,10],"c":{"z":4}},` +
		`{"t":"zzz","l":[0,0,1,1],"c":{}},` +
		`{"t":"n","l":[1,2],"c":{}},` +
		`{"t":5,"l":[0,0,1,1],"c":{}}` +
		`]}`))
	if err != nil {
		t.Fatal(err)
	}

	got := c.Decode(token)
	if got == nil {
		t.Fatal("Decode returned nil")
	}
	if len(got.Widgets) != 1 {
		t.Fatalf("decoded %d widgets, want 1", len(got.Widgets))
	}
	m, ok := got.Widgets[0].Config.(*widget.MapConfig)
	if !ok || m.Zoom != 4 {
		t.Errorf("widget = %#v", got.Widgets[0].Config)
	}
	if !strings.Contains(buf.String(), "zzz") {
		t.Errorf("log does not name the unknown type:\n%s", buf.String())
	}
}

func TestDecodeRestoresLayoutBounds(t *testing.T) {
	c, reg, _ := newTestCodec(t)
	token, err := Pack([]byte(`{"v":1,"w":[{"t":"n","l":[2,3,4,5],"c":{}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	got := c.Decode(token)
	if got == nil || len(got.Widgets) != 1 {
		t.Fatalf("Decode = %+v", got)
	}
	def, _ := reg.Get(widget.TypeNotes)
	l := got.Widgets[0].Layout
	if l.MinW == nil || *l.MinW != *def.DefaultLayout.MinW || l.MinH == nil || *l.MinH != *def.DefaultLayout.MinH {
		t.Errorf("layout bounds not restored: %+v", l)
	}
}

func TestDecodeNewerVersionWarns(t *testing.T) {
	c, _, buf := newTestCodec(t)
	token, err := Pack([]byte(`{"v":99,"t":"dark","w":[{"t":"n","l":[0,0,4,5],"c":{"x":"hi","future":true}}]}`))
	if err != nil {
		t.Fatal(err)
	}

	got := c.Decode(token)
	if got == nil || len(got.Widgets) != 1 {
		t.Fatalf("Decode = %+v", got)
	}
	if got.Widgets[0].Config.(*widget.NotesConfig).Content != "hi" {
		t.Errorf("content = %q", got.Widgets[0].Config.(*widget.NotesConfig).Content)
	}
	if !strings.Contains(buf.String(), "newer than supported") {
		t.Errorf("no compatibility warning logged:\n%s", buf.String())
	}
}

func TestDecodeIgnoresBadFields(t *testing.T) {
	c, _, _ := newTestCodec(t)
	token, err := Pack([]byte(`{"v":1,"t":"neon","w":[{"t":"b","l":[0,0,4,4],"c":{"m":"lots","q":"ok"}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	got := c.Decode(token)
	if got == nil || len(got.Widgets) != 1 {
		t.Fatalf("Decode = %+v", got)
	}
	if got.Settings.Theme != nil {
		t.Errorf("invalid theme accepted: %q", *got.Settings.Theme)
	}
	b := got.Widgets[0].Config.(*widget.BlueskyFeedConfig)
	if b.Query != "ok" || b.MaxResults != 25 {
		t.Errorf("config = %+v, want query ok and default max results", b)
	}
}

func TestMinimizeOmitsDefaultsPerField(t *testing.T) {
	c, reg, _ := newTestCodec(t)
	def, _ := reg.Get(widget.TypeEventFeed)
	cfg := widget.WithID(def.DefaultConfig, "e1").(*widget.EventFeedConfig)
	cfg.Filters.Query = "flood"

	ms, err := c.Minimize(testDashboard(instance(cfg, 0, 0, 4, 5)))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"q": "flood"}, ms.W[0].C); diff != "" {
		t.Errorf("minimal config mismatch (-want +got):\n%s", diff)
	}
	if ms.T != "" {
		t.Errorf("theme %q written for system theme", ms.T)
	}
}

func TestMinimizeNilPointerAgainstDefault(t *testing.T) {
	c, _, _ := newTestCodec(t)
	cfg := &widget.MapConfig{
		Base:   widget.Base{ID: "m1", Type: widget.TypeMap, Title: "Map"},
		Center: [2]float64{20, 0},
		Zoom:   2,
	}
	d := testDashboard(instance(cfg, 0, 0, 8, 10))

	token, err := c.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	got := c.Decode(token)
	if got == nil || len(got.Widgets) != 1 {
		t.Fatalf("Decode = %+v", got)
	}
	if m := got.Widgets[0].Config.(*widget.MapConfig); m.ShowConflicts != nil {
		t.Errorf("showConflicts = %v, want nil", *m.ShowConflicts)
	}
}

func TestCustomTypeUsesJSONFields(t *testing.T) {
	c, reg, _ := newTestCodec(t)
	reg.Register(registry.Definition{
		Metadata:      registry.Metadata{Type: "weather", DisplayName: "Weather"},
		DefaultConfig: &widget.NotesConfig{Base: widget.Base{Type: "weather", Title: "Weather"}, Content: "sunny"},
		DefaultLayout: registry.DefaultLayout{W: 2, H: 2},
	})

	cfg := &widget.NotesConfig{Base: widget.Base{ID: "w1", Type: "weather", Title: "Weather"}, Content: "rain"}
	d := testDashboard(instance(cfg, 0, 0, 2, 2))

	ms, err := c.Minimize(d)
	if err != nil {
		t.Fatal(err)
	}
	if ms.W[0].T != "weather" {
		t.Errorf("type = %q, want full tag", ms.W[0].T)
	}

	token, err := c.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	got := c.Decode(token)
	if got == nil || len(got.Widgets) != 1 {
		t.Fatalf("Decode = %+v", got)
	}
	n := got.Widgets[0].Config.(*widget.NotesConfig)
	if n.Content != "rain" || n.Type != "weather" {
		t.Errorf("config = %+v", n)
	}
}

func TestTokenIsURLSafe(t *testing.T) {
	c, _, _ := newTestCodec(t)
	var widgets []widget.Instance
	for i, cfg := range customized() {
		widgets = append(widgets, instance(cfg, i, 0, 1, 1))
	}
	token, err := c.Encode(testDashboard(widgets...))
	if err != nil {
		t.Fatal(err)
	}
	if !regexp.MustCompile(`^[A-Za-z0-9_-]+$`).MatchString(token) {
		t.Errorf("token contains characters that need escaping: %s", token)
	}
}

func TestAbbreviationsAreBijective(t *testing.T) {
	seen := map[string]widget.Type{}
	for _, typ := range widget.AllTypes {
		s := Abbreviate(typ)
		if len(s) != 1 {
			t.Errorf("Abbreviate(%q) = %q, want one character", typ, s)
		}
		if other, dup := seen[s]; dup {
			t.Errorf("%q and %q share abbreviation %q", typ, other, s)
		}
		seen[s] = typ
		if got := Expand(s); got != typ {
			t.Errorf("Expand(%q) = %q, want %q", s, got, typ)
		}
	}
	if got := Abbreviate("custom"); got != "custom" {
		t.Errorf("Abbreviate(custom) = %q", got)
	}
}

func TestFieldTableKeysUnique(t *testing.T) {
	for typ, fields := range fieldTables {
		keys := map[string]bool{}
		for _, f := range fields {
			if keys[f.key] {
				t.Errorf("%s: duplicate key %q", typ, f.key)
			}
			keys[f.key] = true
		}
	}
}

func TestEstimateURLLength(t *testing.T) {
	c, _, _ := newTestCodec(t)
	d := testDashboard(instance(&widget.NotesConfig{Base: widget.Base{ID: "n", Type: widget.TypeNotes, Title: "Notes"}}, 0, 0, 4, 5))

	token, err := c.Encode(d)
	if err != nil {
		t.Fatal(err)
	}
	base := "https://sitroom.example/"
	n, err := c.EstimateURLLength(base, d)
	if err != nil {
		t.Fatal(err)
	}
	if want := len(URL(base, token)); n != want {
		t.Errorf("EstimateURLLength = %d, want %d", n, want)
	}
	if n, _ := c.EstimateURLLength("", d); n != 50+3+len(token) {
		t.Errorf("EstimateURLLength without base = %d", n)
	}
}

func TestMinimalStateJSONShape(t *testing.T) {
	c, _, _ := newTestCodec(t)
	cfg := &widget.NotesConfig{Base: widget.Base{ID: "n", Type: widget.TypeNotes, Title: "Notes"}, Content: "x"}
	d := testDashboard(instance(cfg, 1, 2, 3, 4))
	d.Settings.Theme = dashboard.ThemeDark

	ms, err := c.Minimize(d)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(ms)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"v":1,"t":"dark","w":[{"t":"n","l":[1,2,3,4],"c":{"x":"x"}}]}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}
