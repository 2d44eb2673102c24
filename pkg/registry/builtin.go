package registry

import "github.com/matzehuels/situationroom/pkg/widget"

// Builtins returns the definitions of the built-in widget types, in
// widget.AllTypes order.
func Builtins() []Definition {
	return []Definition{
		{
			Metadata: Metadata{
				Type:        widget.TypeMap,
				DisplayName: "Map",
				Description: "Interactive map with location search",
				Icon:        "globe",
			},
			DefaultConfig: &widget.MapConfig{
				Base:          widget.Base{Type: widget.TypeMap, Title: "Map"},
				Center:        [2]float64{20, 0},
				Zoom:          2,
				ShowConflicts: widget.Ptr(true),
			},
			DefaultLayout:   DefaultLayout{W: 8, H: 10, MinW: widget.Ptr(4), MinH: widget.Ptr(3)},
			Component:       "MapWidget",
			HeaderExtension: "MapWidgetHeader",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypeEventFeed,
				DisplayName: "Event Feed",
				Description: "Chronological list of news events",
				Icon:        "list",
			},
			DefaultConfig: &widget.EventFeedConfig{
				Base:              widget.Base{Type: widget.TypeEventFeed, Title: "Event Feed"},
				PollIntervalMs:    60000,
				Filters:           widget.EventFeedFilters{Query: "", Timespan: "24h"},
				MaxItems:          100,
				ShowImages:        true,
				HighlightKeywords: []string{},
			},
			DefaultLayout:    DefaultLayout{W: 4, H: 5, MinW: widget.Ptr(4), MinH: widget.Ptr(3)},
			Component:        "EventFeedWidget",
			HeaderExtension:  "EventFeedWidgetHeader",
			ToolbarExtension: "EventFeedWidgetToolbar",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypePolymarket,
				DisplayName: "Polymarket",
				Description: "Prediction market odds from Polymarket",
				Icon:        "trending-up",
			},
			DefaultConfig: &widget.PolymarketConfig{
				Base:          widget.Base{Type: widget.TypePolymarket, Title: "Polymarket"},
				ChartInterval: widget.ChartInterval1d,
			},
			DefaultLayout:    DefaultLayout{W: 4, H: 4, MinW: widget.Ptr(3), MinH: widget.Ptr(3)},
			Component:        "PolymarketWidget",
			HeaderExtension:  "PolymarketWidgetHeader",
			ToolbarExtension: "PolymarketWidgetToolbar",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypeBlueskyFeed,
				DisplayName: "Bluesky Feed",
				Description: "Live Bluesky search results",
				Icon:        "cloud-sun",
			},
			DefaultConfig: &widget.BlueskyFeedConfig{
				Base:           widget.Base{Type: widget.TypeBlueskyFeed, Title: "Bluesky Feed"},
				MaxResults:     25,
				PollIntervalMs: 60000,
				ShowMedia:      true,
			},
			DefaultLayout:    DefaultLayout{W: 8, H: 10, MinW: widget.Ptr(3), MinH: widget.Ptr(3)},
			Component:        "BlueskyFeedWidget",
			HeaderExtension:  "BlueskyFeedWidgetHeader",
			ToolbarExtension: "BlueskyFeedWidgetToolbar",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypeFlightTracker,
				DisplayName: "Flight Tracker",
				Description: "Track live flights on an interactive map",
				Icon:        "plane",
			},
			DefaultConfig: &widget.FlightTrackerConfig{
				Base:           widget.Base{Type: widget.TypeFlightTracker, Title: "Flight Tracker"},
				PollIntervalMs: 15000,
				ShowTrail:      true,
				AutoCenter:     true,
				Zoom:           6,
			},
			DefaultLayout:    DefaultLayout{W: 8, H: 10, MinW: widget.Ptr(4), MinH: widget.Ptr(4)},
			Component:        "FlightTrackerWidget",
			HeaderExtension:  "FlightTrackerWidgetHeader",
			ToolbarExtension: "FlightTrackerWidgetToolbar",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypeNotes,
				DisplayName: "Notes",
				Description: "Quick notes and scratchpad",
				Icon:        "file-text",
			},
			DefaultConfig: &widget.NotesConfig{
				Base: widget.Base{Type: widget.TypeNotes, Title: "Notes"},
			},
			DefaultLayout: DefaultLayout{W: 4, H: 5, MinW: widget.Ptr(2), MinH: widget.Ptr(3)},
			Component:     "NotesWidget",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypeYoutube,
				DisplayName: "YouTube",
				Description: "Embedded YouTube video player",
				Icon:        "youtube",
			},
			DefaultConfig: &widget.YoutubeConfig{
				Base: widget.Base{Type: widget.TypeYoutube, Title: "YouTube"},
			},
			DefaultLayout:   DefaultLayout{W: 6, H: 8, MinW: widget.Ptr(3), MinH: widget.Ptr(4)},
			Component:       "YoutubeWidget",
			HeaderExtension: "YoutubeWidgetHeader",
		},
		{
			Metadata: Metadata{
				Type:        widget.TypeRSSFeed,
				DisplayName: "RSS Feed",
				Description: "Display items from an RSS or Atom feed",
				Icon:        "rss",
			},
			DefaultConfig: &widget.RSSFeedConfig{
				Base:           widget.Base{Type: widget.TypeRSSFeed, Title: "RSS Feed"},
				PollIntervalMs: 300000,
				MaxItems:       50,
			},
			DefaultLayout:    DefaultLayout{W: 4, H: 5, MinW: widget.Ptr(3), MinH: widget.Ptr(3)},
			Component:        "RssFeedWidget",
			HeaderExtension:  "RssFeedWidgetHeader",
			ToolbarExtension: "RssFeedWidgetToolbar",
		},
	}
}

// RegisterBuiltins registers every built-in widget type on r.
func RegisterBuiltins(r *Registry) {
	for _, def := range Builtins() {
		r.Register(def)
	}
}
