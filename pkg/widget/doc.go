// Package widget defines the dashboard widget model.
//
// A widget is a pair of a [Config] and a [Layout] sharing one identity
// (Config.Common().ID == Layout.I), bundled as an [Instance].
//
// # Config variants
//
// [Config] is a closed union over one struct per widget type. The set of
// types is fixed by [AllTypes]; every consumer that switches on a config's
// dynamic type (cloning, JSON, the share codec) handles all of them:
//
//	switch c := cfg.(type) {
//	case *widget.MapConfig:
//	    fmt.Println(c.Center, c.Zoom)
//	case *widget.EventFeedConfig:
//	    fmt.Println(c.Filters.Query)
//	}
//
// The discriminator is the embedded [Base].Type. It always matches the Go
// type of the variant; [ApplyPatch] refuses to change it.
//
// # Serialization
//
// [MarshalConfig], [UnmarshalConfig] and Instance's JSON methods are full
// fidelity: every field round-trips. The lossy, default-omitting share
// format lives in package share and is never used for persistence.
package widget
