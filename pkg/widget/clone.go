package widget

// Clone returns a deep copy of cfg. Clone(nil) is nil. Clone panics on a
// config that is not a declared variant; see IsVariant.
func Clone(cfg Config) Config {
	switch c := cfg.(type) {
	case nil:
		return nil
	case *MapConfig:
		out := *c
		out.ShowConflicts = clonePtr(c.ShowConflicts)
		out.LocationName = clonePtr(c.LocationName)
		return &out
	case *EventFeedConfig:
		out := *c
		if c.HighlightKeywords != nil {
			out.HighlightKeywords = append([]string{}, c.HighlightKeywords...)
		}
		return &out
	case *PolymarketConfig:
		out := *c
		out.EventSlug = clonePtr(c.EventSlug)
		out.EventTitle = clonePtr(c.EventTitle)
		return &out
	case *BlueskyFeedConfig:
		out := *c
		return &out
	case *FlightTrackerConfig:
		out := *c
		out.LastPosition = clonePtr(c.LastPosition)
		return &out
	case *NotesConfig:
		out := *c
		return &out
	case *YoutubeConfig:
		out := *c
		return &out
	case *RSSFeedConfig:
		out := *c
		return &out
	}
	panic("widget: unhandled config variant")
}

// WithID returns a copy of cfg carrying the given identity.
func WithID(cfg Config, id string) Config {
	out := Clone(cfg)
	out.Common().ID = id
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
