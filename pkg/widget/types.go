package widget

import (
	errs "github.com/matzehuels/situationroom/pkg/errors"
)

// Type is the tag identifying a widget type. It is the sole registry key.
type Type string

// Built-in widget types.
const (
	TypeMap           Type = "map"
	TypeEventFeed     Type = "event-feed"
	TypePolymarket    Type = "polymarket"
	TypeBlueskyFeed   Type = "bluesky-feed"
	TypeFlightTracker Type = "flight-tracker"
	TypeNotes         Type = "notes"
	TypeYoutube       Type = "youtube"
	TypeRSSFeed       Type = "rss-feed"
)

// AllTypes lists every widget type with a Config variant, in the order
// they are registered by default.
var AllTypes = []Type{
	TypeMap,
	TypeEventFeed,
	TypePolymarket,
	TypeBlueskyFeed,
	TypeFlightTracker,
	TypeNotes,
	TypeYoutube,
	TypeRSSFeed,
}

// Known reports whether t has a Config variant.
func Known(t Type) bool {
	for _, k := range AllTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Base holds the fields shared by every widget config.
type Base struct {
	ID    string `json:"id"`
	Type  Type   `json:"type"`
	Title string `json:"title"`
}

// Common returns the shared fields of the config embedding b.
func (b *Base) Common() *Base { return b }

// Config is implemented by the pointer type of every widget config variant.
type Config interface {
	Common() *Base
	isConfig()
}

// MapConfig configures the interactive map widget.
type MapConfig struct {
	Base
	Center        [2]float64 `json:"center"` // [lat, lng]
	Zoom          float64    `json:"zoom"`
	ShowConflicts *bool      `json:"showConflicts,omitempty"`
	LocationName  *string    `json:"locationName,omitempty"`
}

// EventFeedFilters narrows the events shown by an event feed.
type EventFeedFilters struct {
	Query    string `json:"query"`
	Timespan string `json:"timespan"`
}

// EventFeedConfig configures the news event feed widget.
type EventFeedConfig struct {
	Base
	PollIntervalMs    int              `json:"pollIntervalMs"`
	Filters           EventFeedFilters `json:"filters"`
	MaxItems          int              `json:"maxItems"`
	ShowImages        bool             `json:"showImages"`
	HighlightKeywords []string         `json:"highlightKeywords"`
}

// ChartInterval is the price history interval of a polymarket chart.
type ChartInterval string

// Chart intervals.
const (
	ChartInterval1m ChartInterval = "1m"
	ChartInterval1h ChartInterval = "1h"
	ChartInterval6h ChartInterval = "6h"
	ChartInterval1d ChartInterval = "1d"
	ChartInterval1w ChartInterval = "1w"
)

// Valid reports whether i is one of the known intervals.
func (i ChartInterval) Valid() bool {
	switch i {
	case ChartInterval1m, ChartInterval1h, ChartInterval6h, ChartInterval1d, ChartInterval1w:
		return true
	}
	return false
}

// PolymarketConfig configures the prediction market widget.
type PolymarketConfig struct {
	Base
	EventSlug     *string       `json:"eventSlug"`
	EventTitle    *string       `json:"eventTitle"`
	ChartInterval ChartInterval `json:"chartInterval"`
}

// BlueskyFeedConfig configures the Bluesky search feed widget.
type BlueskyFeedConfig struct {
	Base
	Query          string `json:"query"`
	MaxResults     int    `json:"maxResults"`
	PollIntervalMs int    `json:"pollIntervalMs"`
	ShowMedia      bool   `json:"showMedia"`
}

// FlightTrackerConfig configures the live flight tracker widget.
type FlightTrackerConfig struct {
	Base
	Callsign       string      `json:"callsign"`
	PollIntervalMs int         `json:"pollIntervalMs"`
	ShowTrail      bool        `json:"showTrail"`
	AutoCenter     bool        `json:"autoCenter"`
	Zoom           float64     `json:"zoom"`
	LastPosition   *[2]float64 `json:"lastPosition"`
}

// NotesConfig configures the free-text notes widget.
type NotesConfig struct {
	Base
	Content string `json:"content"`
}

// YoutubeConfig configures the embedded video widget.
type YoutubeConfig struct {
	Base
	VideoURL string `json:"videoUrl"`
}

// RSSFeedConfig configures the RSS/Atom feed widget.
type RSSFeedConfig struct {
	Base
	FeedURL        string `json:"feedUrl"`
	PollIntervalMs int    `json:"pollIntervalMs"`
	MaxItems       int    `json:"maxItems"`
}

func (*MapConfig) isConfig()           {}
func (*EventFeedConfig) isConfig()     {}
func (*PolymarketConfig) isConfig()    {}
func (*BlueskyFeedConfig) isConfig()   {}
func (*FlightTrackerConfig) isConfig() {}
func (*NotesConfig) isConfig()         {}
func (*YoutubeConfig) isConfig()       {}
func (*RSSFeedConfig) isConfig()       {}

// IsVariant reports whether cfg is one of the config structs declared here.
// Types that merely embed one satisfy Config but cannot be cloned or decoded.
func IsVariant(cfg Config) bool {
	switch cfg.(type) {
	case *MapConfig, *EventFeedConfig, *PolymarketConfig, *BlueskyFeedConfig,
		*FlightTrackerConfig, *NotesConfig, *YoutubeConfig, *RSSFeedConfig:
		return true
	}
	return false
}

// New returns an empty config of type t with its Type field set.
func New(t Type) (Config, error) {
	var c Config
	switch t {
	case TypeMap:
		c = &MapConfig{}
	case TypeEventFeed:
		c = &EventFeedConfig{}
	case TypePolymarket:
		c = &PolymarketConfig{}
	case TypeBlueskyFeed:
		c = &BlueskyFeedConfig{}
	case TypeFlightTracker:
		c = &FlightTrackerConfig{}
	case TypeNotes:
		c = &NotesConfig{}
	case TypeYoutube:
		c = &YoutubeConfig{}
	case TypeRSSFeed:
		c = &RSSFeedConfig{}
	default:
		return nil, errs.UnknownWidgetType(string(t))
	}
	c.Common().Type = t
	return c, nil
}

// Ptr returns a pointer to v. Handy for the optional config fields.
func Ptr[T any](v T) *T { return &v }
