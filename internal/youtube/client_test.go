// Package youtube tests document the expected behavior of the YouTube client.
//
// Test requirements (this file serves as documentation):
// - Client sends the API key, part selection, page size and cursor to each endpoint
// - Client omits the cursor when none is supplied
// - Client returns the upstream cursor and total-count hint unchanged
// - Client handles API errors gracefully
// - Client respects context deadlines
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(WithBaseURL(server.URL))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// TestNewClient documents client creation requirements:
// - No credential is bound at construction time
// - Returns configured client ready to make API calls
func TestNewClient(t *testing.T) {
	client := NewClient()

	require.NotNil(t, client)
	assert.Equal(t, defaultBaseURL, client.baseURL)
}

// TestClient_VideosByID documents single video lookups:
// - Calls /youtube/v3/videos with snippet and statistics
// - Resolves the bare string id
func TestClient_VideosByID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/videos", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "snippet,statistics", q.Get("part"))
		assert.Equal(t, "abc", q.Get("id"))
		assert.Equal(t, "test-key", q.Get("key"))
		assert.False(t, q.Has("pageToken"), "no cursor should be sent when none was supplied")

		writeJSON(w, map[string]interface{}{
			"kind": "youtube#videoListResponse",
			"items": []map[string]interface{}{
				{
					"kind": "youtube#video",
					"id":   "abc",
					"snippet": map[string]interface{}{
						"title":        "A video",
						"channelId":    "UC1",
						"channelTitle": "Channel One",
						"publishedAt":  "2024-01-15T12:00:00Z",
						"thumbnails": map[string]interface{}{
							"default": map[string]interface{}{"url": "https://i.ytimg.com/vi/abc/default.jpg"},
							"high":    map[string]interface{}{"url": "https://i.ytimg.com/vi/abc/hqdefault.jpg"},
						},
					},
					"statistics": map[string]interface{}{"viewCount": "1000"},
				},
			},
			"pageInfo": map[string]interface{}{"totalResults": 1, "resultsPerPage": 1},
		})
	})

	resp, err := client.Videos(context.Background(), "test-key", VideosQuery{IDs: []string{"abc"}})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	item := resp.Items[0]
	assert.Equal(t, "abc", item.VideoID())
	assert.Equal(t, "https://i.ytimg.com/vi/abc/hqdefault.jpg", item.Snippet.BestThumbnail())
	require.NotNil(t, item.Statistics)
	assert.Equal(t, "1000", item.Statistics.ViewCount)
	assert.Equal(t, 1, resp.PageInfo.TotalResults)
}

// TestClient_VideosChart documents trending lookups:
// - Uses chart=mostPopular with a region and page size
func TestClient_VideosChart(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "mostPopular", q.Get("chart"))
		assert.Equal(t, "US", q.Get("regionCode"))
		assert.Equal(t, "50", q.Get("maxResults"))
		assert.False(t, q.Has("id"))
		writeJSON(w, map[string]interface{}{
			"items":         []interface{}{},
			"nextPageToken": "CDIQAA",
			"pageInfo":      map[string]interface{}{"totalResults": 200},
		})
	})

	resp, err := client.Videos(context.Background(), "k", VideosQuery{Chart: "mostPopular", RegionCode: "US", MaxResults: 50})
	require.NoError(t, err)
	assert.Equal(t, "CDIQAA", resp.NextPageToken)
	assert.Equal(t, 200, resp.PageInfo.TotalResults)
}

// TestClient_Search documents search calls:
// - Always restricts to videos
// - Threads the cursor through untouched
// - Resolves the nested id.videoId
func TestClient_Search(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "snippet", q.Get("part"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "go tutorials", q.Get("q"))
		assert.Equal(t, "opaque+token/=", q.Get("pageToken"))
		writeJSON(w, map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": map[string]interface{}{"kind": "youtube#video", "videoId": "v1"}},
			},
		})
	})

	resp, err := client.Search(context.Background(), "k", SearchQuery{Query: "go tutorials", MaxResults: 50, PageToken: "opaque+token/="})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "v1", resp.Items[0].VideoID())
}

// TestClient_SearchByChannel documents the related-shorts query shape.
func TestClient_SearchByChannel(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "UC+special/id", q.Get("channelId"))
		assert.Equal(t, "short", q.Get("videoDuration"))
		assert.Equal(t, "date", q.Get("order"))
		assert.Equal(t, "20", q.Get("maxResults"))
		assert.False(t, q.Has("q"))
		assert.NotContains(t, r.URL.RawQuery, "UC+special/id", "channel id must be URL-encoded")
		writeJSON(w, map[string]interface{}{"items": []interface{}{}})
	})

	_, err := client.Search(context.Background(), "k", SearchQuery{
		ChannelID: "UC+special/id", VideoDuration: "short", Order: "date", MaxResults: 20,
	})
	require.NoError(t, err)
}

// TestClient_PlaylistItems documents playlist listing:
// - Resolves the video id from snippet.resourceId
func TestClient_PlaylistItems(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/youtube/v3/playlistItems", r.URL.Path)
		assert.Equal(t, "PL1", r.URL.Query().Get("playlistId"))
		writeJSON(w, map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"kind": "youtube#playlistItem",
					"id":   "UExJdGVtSWQ",
					"snippet": map[string]interface{}{
						"title":      "Entry",
						"resourceId": map[string]interface{}{"kind": "youtube#video", "videoId": "abc"},
					},
				},
				{
					"kind":    "youtube#playlistItem",
					"id":      "UExJdGVtMg",
					"snippet": map[string]interface{}{"title": "Deleted video"},
				},
			},
		})
	})

	resp, err := client.PlaylistItems(context.Background(), "k", PlaylistItemsQuery{PlaylistID: "PL1", MaxResults: 50})
	require.NoError(t, err)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "abc", resp.Items[0].VideoID())
	assert.Empty(t, resp.Items[1].VideoID(), "a playlist entry id must never be mistaken for a video id")
}

// TestClient_APIError documents error handling:
// - Returns an *APIError carrying the status code and endpoint
func TestClient_APIError(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{"code": 403, "message": "quotaExceeded"},
		})
	})

	_, err := client.Search(context.Background(), "k", SearchQuery{Query: "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, EndpointSearch, apiErr.Endpoint)
}

// TestClient_Timeout documents timeout handling:
// - Respects context deadline
func TestClient_Timeout(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := client.Videos(ctx, "k", VideosQuery{IDs: []string{"abc"}})

	require.Error(t, err)
	assert.ErrorIs(t, ctx.Err(), context.DeadlineExceeded)
}

// TestClient_Observer documents the per-call observer hook.
func TestClient_Observer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/youtube/v3/search" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"items": []interface{}{}})
	}))
	defer server.Close()

	type call struct {
		endpoint string
		failed   bool
	}
	var calls []call
	client := NewClient(WithBaseURL(server.URL), WithObserver(func(endpoint string, _ time.Duration, err error) {
		calls = append(calls, call{endpoint, err != nil})
	}))

	_, _ = client.Videos(context.Background(), "k", VideosQuery{IDs: []string{"a"}})
	_, _ = client.Search(context.Background(), "k", SearchQuery{Query: "a"})

	assert.Equal(t, []call{{EndpointVideos, false}, {EndpointSearch, true}}, calls)
}
