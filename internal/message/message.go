// Package message defines the tagged messages exchanged between a panel and
// the orchestrator.
//
// Every message is a JSON object whose "command" field names its variant. The
// Inbound and Outbound interfaces are sealed: only the types in this package
// implement them, so a type switch over either one is exhaustive.
package message

import (
	"time"
)

// Inbound commands (panel → orchestrator).
const (
	CommandLoadFromURL = "loadFromUrl"
	CommandSearch      = "search"
	CommandGetTrending = "getTrending"
)

// Outbound commands (orchestrator → panel).
const (
	CommandAPIKeyRequired  = "apiKeyRequired"
	CommandPlayVideo       = "playVideo"
	CommandLoadShorts      = "loadShorts"
	CommandSearchResults   = "searchResults"
	CommandTrendingResults = "trendingResults"
	CommandNotFound        = "notFound"
)

// Inbound is a request from the panel.
type Inbound interface {
	Command() string
	isInbound()
}

// Outbound is the single answer to an inbound request, or a host-initiated
// instruction.
type Outbound interface {
	Command() string
	isOutbound()
}

// LoadFromURL asks for whatever the URL points at. The host also sends it
// outbound to make a panel load a URL on its own.
type LoadFromURL struct {
	URL       string `json:"url"`
	PageToken string `json:"pageToken,omitempty"`
}

// Search is a free-text query typed into the panel.
type Search struct {
	Query     string `json:"query"`
	PageToken string `json:"pageToken,omitempty"`
}

// GetTrending asks for the most popular videos.
type GetTrending struct{}

func (LoadFromURL) Command() string { return CommandLoadFromURL }
func (Search) Command() string      { return CommandSearch }
func (GetTrending) Command() string { return CommandGetTrending }

func (LoadFromURL) isInbound() {}
func (Search) isInbound()      {}
func (GetTrending) isInbound() {}

// VideoSummary is one card of a result grid or one entry of a shorts batch.
type VideoSummary struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ChannelTitle string    `json:"channelTitle"`
	ChannelID    string    `json:"channelId"`
	PublishedAt  time.Time `json:"publishedAt"`
	Thumbnail    string    `json:"thumbnail"`
	ViewCount    *int64    `json:"viewCount,omitempty"`
}

// PagedResult is one page of normalized results. An empty NextPageToken means
// there are no more pages.
type PagedResult struct {
	Results       []VideoSummary `json:"results"`
	NextPageToken string         `json:"nextPageToken,omitempty"`
	TotalResults  *int           `json:"totalResults,omitempty"`
}

// APIKeyRequired tells the panel no credential is configured.
type APIKeyRequired struct{}

// PlayVideo makes the panel play a single video.
type PlayVideo struct {
	VideoID string `json:"videoId"`
}

// LoadShorts opens the vertical shorts player on Shorts[CurrentIndex].
type LoadShorts struct {
	Shorts       []VideoSummary `json:"shorts"`
	CurrentIndex int            `json:"currentIndex"`
}

// SearchResults carries search and playlist pages.
type SearchResults struct {
	PagedResult
}

// TrendingResults carries the most-popular chart.
type TrendingResults struct {
	PagedResult
}

// NotFound reports a lookup that resolved to nothing, so the panel can leave
// its loading state.
type NotFound struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

func (APIKeyRequired) Command() string  { return CommandAPIKeyRequired }
func (PlayVideo) Command() string       { return CommandPlayVideo }
func (LoadShorts) Command() string      { return CommandLoadShorts }
func (SearchResults) Command() string   { return CommandSearchResults }
func (TrendingResults) Command() string { return CommandTrendingResults }
func (NotFound) Command() string        { return CommandNotFound }
func (LoadFromURL) isOutbound()         {}
func (APIKeyRequired) isOutbound()      {}
func (PlayVideo) isOutbound()           {}
func (LoadShorts) isOutbound()          {}
func (SearchResults) isOutbound()       {}
func (TrendingResults) isOutbound()     {}
func (NotFound) isOutbound()            {}
