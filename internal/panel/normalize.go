package panel

import (
	"strconv"
	"time"

	"github.com/gauthierbraillon/ytpanel/internal/message"
	"github.com/gauthierbraillon/ytpanel/internal/youtube"
)

// normalizePage flattens a list response. Results is never nil so the panel
// can render an empty grid.
func normalizePage(resp *youtube.ListResponse, videoID func(youtube.Item) string) message.PagedResult {
	page := message.PagedResult{
		Results:       normalizeItems(resp.Items, videoID),
		NextPageToken: resp.NextPageToken,
	}
	if resp.PageInfo != nil {
		total := resp.PageInfo.TotalResults
		page.TotalResults = &total
	}
	return page
}

// normalizeItems drops items whose video id cannot be resolved.
func normalizeItems(items []youtube.Item, videoID func(youtube.Item) string) []message.VideoSummary {
	out := make([]message.VideoSummary, 0, len(items))
	for _, item := range items {
		id := videoID(item)
		if id == "" {
			continue
		}
		out = append(out, summarize(item, id))
	}
	return out
}

func summarize(item youtube.Item, id string) message.VideoSummary {
	s := message.VideoSummary{
		ID:           id,
		Title:        item.Snippet.Title,
		ChannelTitle: item.Snippet.ChannelTitle,
		ChannelID:    item.Snippet.ChannelID,
		Thumbnail:    item.Snippet.BestThumbnail(),
	}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		s.PublishedAt = t
	}
	if item.Statistics != nil {
		if n, err := strconv.ParseInt(item.Statistics.ViewCount, 10, 64); err == nil {
			s.ViewCount = &n
		}
	}
	return s
}
