package share

import "github.com/matzehuels/situationroom/pkg/widget"

var typeToShort = map[widget.Type]string{
	widget.TypeMap:           "m",
	widget.TypeEventFeed:     "e",
	widget.TypePolymarket:    "p",
	widget.TypeBlueskyFeed:   "b",
	widget.TypeFlightTracker: "f",
	widget.TypeNotes:         "n",
	widget.TypeYoutube:       "y",
	widget.TypeRSSFeed:       "r",
}

var shortToType = invert(typeToShort)

func invert(m map[widget.Type]string) map[string]widget.Type {
	out := make(map[string]widget.Type, len(m))
	for t, s := range m {
		out[s] = t
	}
	return out
}

// Abbreviate returns the short form of t. Types without an abbreviation are
// returned unchanged.
func Abbreviate(t widget.Type) string {
	if s, ok := typeToShort[t]; ok {
		return s
	}
	return string(t)
}

// Expand reverses Abbreviate. Strings that are not a known abbreviation are
// taken to be full type tags.
func Expand(s string) widget.Type {
	if t, ok := shortToType[s]; ok {
		return t
	}
	return widget.Type(s)
}
