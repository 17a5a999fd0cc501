// Package youtube provides a client for the YouTube Data API v3.
//
// This package enables ytpanel to:
// - Look up videos by id or by the most-popular chart
// - Search videos by free text or by channel and duration
// - List the items of a playlist
//
// All three endpoints answer with the same ListResponse shape. The only thing
// that differs between them is where the video id lives, which Item.VideoID
// resolves.
package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListResponse is the envelope shared by videos, search and playlistItems.
type ListResponse struct {
	Kind          string    `json:"kind"`
	Items         []Item    `json:"items"`
	NextPageToken string    `json:"nextPageToken,omitempty"`
	PageInfo      *PageInfo `json:"pageInfo,omitempty"`
}

// PageInfo carries the upstream total-count hint. It is nil when the response
// omitted it.
type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

// Item is one video resource, search result or playlist item.
type Item struct {
	Kind       string      `json:"kind"`
	ID         ItemID      `json:"id"`
	Snippet    Snippet     `json:"snippet"`
	Statistics *Statistics `json:"statistics,omitempty"`
}

// VideoID resolves the flat video id whichever endpoint produced the item.
// A playlist item's bare id names the playlist entry, not the video, so the
// snippet's resource reference is consulted before falling back to it.
func (it Item) VideoID() string {
	if it.ID.VideoID != "" {
		return it.ID.VideoID
	}
	if it.Snippet.ResourceID != nil {
		return it.Snippet.ResourceID.VideoID
	}
	if it.Kind == kindPlaylistItem {
		return ""
	}
	return it.ID.Raw
}

const kindPlaylistItem = "youtube#playlistItem"

// ItemID is either a bare string (videos endpoint) or an object such as
// {"kind": "youtube#video", "videoId": "..."} (search endpoint). Playlist items
// carry an opaque item id here; their video id lives in the snippet.
type ItemID struct {
	Kind    string `json:"kind,omitempty"`
	VideoID string `json:"videoId,omitempty"`
	// Raw holds the bare string form when the id was not an object.
	Raw string `json:"-"`
}

// UnmarshalJSON accepts both id representations.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ItemID{}
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to parse item id: %w", err)
		}
		*id = ItemID{Raw: s}
		return nil
	}

	type object ItemID
	var obj object
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("failed to parse item id: %w", err)
	}
	*id = ItemID(obj)
	return nil
}

// Snippet holds the display metadata shared by all item kinds.
type Snippet struct {
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	ChannelID    string               `json:"channelId"`
	ChannelTitle string               `json:"channelTitle"`
	PublishedAt  string               `json:"publishedAt"`
	Thumbnails   map[string]Thumbnail `json:"thumbnails"`
	ResourceID   *ResourceID          `json:"resourceId,omitempty"`
}

// ResourceID points a playlist item at the video it wraps.
type ResourceID struct {
	Kind    string `json:"kind"`
	VideoID string `json:"videoId"`
}

// Thumbnail is a single thumbnail rendition.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// BestThumbnail returns the highest quality thumbnail URL available.
func (s Snippet) BestThumbnail() string {
	for _, size := range []string{"high", "medium", "default"} {
		if t, ok := s.Thumbnails[size]; ok && t.URL != "" {
			return t.URL
		}
	}
	return ""
}

// Statistics is only present when the statistics part was requested.
type Statistics struct {
	ViewCount string `json:"viewCount"`
	LikeCount string `json:"likeCount,omitempty"`
}
