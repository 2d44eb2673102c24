package registry

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	errs "github.com/matzehuels/situationroom/pkg/errors"
	"github.com/matzehuels/situationroom/pkg/widget"
)

func newTestRegistry(t *testing.T) (*Registry, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	n := 0
	r := NewDefault(
		WithLogger(logger),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	return r, &buf
}

func notesDef(title string) Definition {
	return Definition{
		Metadata:      Metadata{Type: widget.TypeNotes, DisplayName: title, Icon: "file-text"},
		DefaultConfig: &widget.NotesConfig{Base: widget.Base{Type: widget.TypeNotes, Title: title}},
		DefaultLayout: DefaultLayout{W: 2, H: 2},
		Component:     "NotesWidget",
	}
}

func TestBuiltinsCoverAllTypes(t *testing.T) {
	r, _ := newTestRegistry(t)

	if diff := cmp.Diff(widget.AllTypes, r.GetTypes()); diff != "" {
		t.Errorf("GetTypes mismatch (-want +got):\n%s", diff)
	}
	for _, typ := range widget.AllTypes {
		def, ok := r.Get(typ)
		if !ok {
			t.Fatalf("Get(%q) missing", typ)
		}
		if def.DefaultConfig.Common().Type != typ {
			t.Errorf("%s default config has type %q", typ, def.DefaultConfig.Common().Type)
		}
		if def.DefaultConfig.Common().ID != "" {
			t.Errorf("%s default config carries an id", typ)
		}
		if def.DefaultLayout.W < 1 || def.DefaultLayout.H < 1 {
			t.Errorf("%s default layout %dx%d", typ, def.DefaultLayout.W, def.DefaultLayout.H)
		}
	}
	if got := len(r.GetAll()); got != len(widget.AllTypes) {
		t.Errorf("len(GetAll()) = %d, want %d", got, len(widget.AllTypes))
	}
	meta := r.GetAllMetadata()
	if meta[0].DisplayName != "Map" || meta[len(meta)-1].DisplayName != "RSS Feed" {
		t.Errorf("GetAllMetadata order = %+v", meta)
	}
}

func TestRegisterOverwrite(t *testing.T) {
	r, buf := newTestRegistry(t)
	buf.Reset()

	r.Register(notesDef("First"))
	r.Register(notesDef("Second"))

	def, ok := r.Get(widget.TypeNotes)
	if !ok {
		t.Fatal("Get(notes) missing after overwrite")
	}
	if def.Metadata.DisplayName != "Second" {
		t.Errorf("DisplayName = %q, want Second", def.Metadata.DisplayName)
	}
	if !strings.Contains(buf.String(), "overwriting") {
		t.Errorf("expected overwrite warning, got log %q", buf.String())
	}

	// Overwriting keeps the original enumeration slot.
	if diff := cmp.Diff(widget.AllTypes, r.GetTypes()); diff != "" {
		t.Errorf("GetTypes changed after overwrite (-want +got):\n%s", diff)
	}
}

func TestRegisterFirstTimeDoesNotWarn(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithLogger(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})))
	r.Register(notesDef("Notes"))
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %q", buf.String())
	}
	if !r.Has(widget.TypeNotes) || r.Has(widget.TypeMap) {
		t.Error("Has() reports wrong membership")
	}
}

func TestRegisterRejectsMismatchedConfig(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithLogger(log.NewWithOptions(&buf, log.Options{})))

	def := notesDef("Broken")
	def.DefaultConfig = &widget.YoutubeConfig{Base: widget.Base{Type: widget.TypeYoutube}}
	r.Register(def)

	if r.Has(widget.TypeNotes) {
		t.Error("mismatched definition was registered")
	}
	if !strings.Contains(buf.String(), "rejected") {
		t.Errorf("expected rejection log, got %q", buf.String())
	}
}

// weatherConfig satisfies widget.Config through the embedded notes variant.
type weatherConfig struct {
	widget.NotesConfig
	City string
}

func TestRegisterRejectsEmbeddedVariant(t *testing.T) {
	var buf bytes.Buffer
	r := New(WithLogger(log.NewWithOptions(&buf, log.Options{})))

	def := Definition{
		Metadata: Metadata{Type: "weather", DisplayName: "Weather"},
		DefaultConfig: &weatherConfig{
			NotesConfig: widget.NotesConfig{Base: widget.Base{Type: "weather", Title: "Weather"}},
			City:        "Oslo",
		},
		DefaultLayout: DefaultLayout{W: 4, H: 4},
	}

	func() {
		defer func() {
			if p := recover(); p != nil {
				t.Fatalf("Register panicked: %v", p)
			}
		}()
		r.Register(def)
	}()

	if r.Has("weather") {
		t.Error("embedded config was registered")
	}
	if !strings.Contains(buf.String(), "unsupported config struct") {
		t.Errorf("expected rejection log, got %q", buf.String())
	}
	if _, err := r.CreateInstance("weather", CreateOptions{}); !errs.Is(err, errs.ErrCodeUnknownWidgetType) {
		t.Errorf("CreateInstance err = %v, want UNKNOWN_WIDGET_TYPE", err)
	}
}

func TestGetReturnsCopies(t *testing.T) {
	r, _ := newTestRegistry(t)

	def, _ := r.Get(widget.TypeMap)
	def.DefaultConfig.Common().Title = "mutated"
	*def.DefaultLayout.MinW = 99

	again, _ := r.Get(widget.TypeMap)
	if again.DefaultConfig.Common().Title != "Map" {
		t.Error("Get() exposed the registered default config")
	}
	if *again.DefaultLayout.MinW != 4 {
		t.Error("Get() exposed the registered default layout")
	}
}

func TestReset(t *testing.T) {
	r, _ := newTestRegistry(t)
	r.Reset()
	if len(r.GetTypes()) != 0 || r.Has(widget.TypeMap) {
		t.Error("Reset() left definitions behind")
	}
	RegisterBuiltins(r)
	if len(r.GetTypes()) != len(widget.AllTypes) {
		t.Error("re-seeding after Reset failed")
	}
}

func TestCreateInstance(t *testing.T) {
	r, _ := newTestRegistry(t)

	in, err := r.CreateInstance(widget.TypeEventFeed, CreateOptions{})
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}

	want := widget.Instance{
		Config: &widget.EventFeedConfig{
			Base:              widget.Base{ID: "id-1", Type: widget.TypeEventFeed, Title: "Event Feed"},
			PollIntervalMs:    60000,
			Filters:           widget.EventFeedFilters{Timespan: "24h"},
			MaxItems:          100,
			ShowImages:        true,
			HighlightKeywords: []string{},
		},
		Layout: widget.Layout{I: "id-1", X: 0, Y: 0, W: 4, H: 5, MinW: widget.Ptr(4), MinH: widget.Ptr(3)},
	}
	if diff := cmp.Diff(want, in); diff != "" {
		t.Errorf("CreateInstance mismatch (-want +got):\n%s", diff)
	}

	// The registered default must not pick up the instance's identity.
	def, _ := r.Get(widget.TypeEventFeed)
	if def.DefaultConfig.Common().ID != "" {
		t.Error("CreateInstance leaked the id into the default config")
	}
}

func TestCreateInstancePlacement(t *testing.T) {
	r, _ := newTestRegistry(t)

	var layouts []widget.Layout
	var got [][2]int
	for i := 0; i < 3; i++ {
		in, err := r.CreateInstance(widget.TypeNotes, CreateOptions{
			ExistingLayouts: layouts,
			GridCols:        12,
			GridRows:        16,
		})
		if err != nil {
			t.Fatalf("CreateInstance: %v", err)
		}
		layouts = append(layouts, in.Layout)
		got = append(got, [2]int{in.Layout.X, in.Layout.Y})
	}

	want := [][2]int{{0, 0}, {4, 0}, {8, 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("positions mismatch (-want +got):\n%s", diff)
	}

	// A fourth notes widget no longer fits on row 0 of a 12-column grid.
	in, _ := r.CreateInstance(widget.TypeNotes, CreateOptions{ExistingLayouts: layouts, GridCols: 12, GridRows: 16})
	if in.Layout.X != 0 || in.Layout.Y != 5 {
		t.Errorf("fourth position = (%d,%d), want (0,5)", in.Layout.X, in.Layout.Y)
	}
}

func TestCreateInstanceUniqueIDs(t *testing.T) {
	r := NewDefault(WithLogger(log.New(&bytes.Buffer{})))
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		in, err := r.CreateInstance(widget.TypeNotes, CreateOptions{})
		if err != nil {
			t.Fatalf("CreateInstance: %v", err)
		}
		if in.Config.Common().ID != in.Layout.I {
			t.Fatalf("config id %q != layout i %q", in.Config.Common().ID, in.Layout.I)
		}
		if seen[in.Layout.I] {
			t.Fatalf("duplicate id %q", in.Layout.I)
		}
		seen[in.Layout.I] = true
	}
}

func TestCreateInstanceUnknownType(t *testing.T) {
	r, _ := newTestRegistry(t)

	_, err := r.CreateInstance("nonexistent", CreateOptions{})
	if err == nil {
		t.Fatal("CreateInstance(nonexistent) succeeded")
	}
	if !errs.Is(err, errs.ErrCodeUnknownWidgetType) {
		t.Errorf("error code = %q, want %q", errs.GetCode(err), errs.ErrCodeUnknownWidgetType)
	}
	if !strings.Contains(err.Error(), "unknown widget type: nonexistent") {
		t.Errorf("error %q does not name the missing type", err)
	}
}
