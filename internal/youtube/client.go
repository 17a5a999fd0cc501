// Package youtube provides a client for the YouTube Data API v3.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com"

// Endpoint names, also used as metric labels.
const (
	EndpointVideos        = "videos"
	EndpointSearch        = "search"
	EndpointPlaylistItems = "playlistItems"
)

// HTTPClient interface for making HTTP requests (allows injection for testing).
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Observer is told about every upstream call once it completes.
type Observer func(endpoint string, elapsed time.Duration, err error)

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL sets a custom base URL (useful for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithObserver registers a callback invoked after each request.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// Client is a YouTube Data API client. It holds no credential: the API key is
// passed on every call so a key saved mid-session is picked up immediately.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	observer   Observer
}

// NewClient creates a new YouTube API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// VideosQuery selects videos either by id or by chart.
type VideosQuery struct {
	IDs        []string
	Chart      string
	RegionCode string
	Part       []string
	MaxResults int
	PageToken  string
}

// SearchQuery describes a search call. Type is always "video".
type SearchQuery struct {
	Query         string
	ChannelID     string
	VideoDuration string
	Order         string
	MaxResults    int
	PageToken     string
}

// PlaylistItemsQuery lists one page of a playlist.
type PlaylistItemsQuery struct {
	PlaylistID string
	MaxResults int
	PageToken  string
}

// Videos calls the videos endpoint.
func (c *Client) Videos(ctx context.Context, apiKey string, q VideosQuery) (*ListResponse, error) {
	params := url.Values{}
	params.Set("part", joinOr(q.Part, "snippet,statistics"))
	if len(q.IDs) > 0 {
		params.Set("id", strings.Join(q.IDs, ","))
	}
	if q.Chart != "" {
		params.Set("chart", q.Chart)
	}
	if q.RegionCode != "" {
		params.Set("regionCode", q.RegionCode)
	}
	setPaging(params, q.MaxResults, q.PageToken)

	return c.list(ctx, EndpointVideos, apiKey, params)
}

// Search calls the search endpoint restricted to videos.
func (c *Client) Search(ctx context.Context, apiKey string, q SearchQuery) (*ListResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	if q.Query != "" {
		params.Set("q", q.Query)
	}
	if q.ChannelID != "" {
		params.Set("channelId", q.ChannelID)
	}
	if q.VideoDuration != "" {
		params.Set("videoDuration", q.VideoDuration)
	}
	if q.Order != "" {
		params.Set("order", q.Order)
	}
	setPaging(params, q.MaxResults, q.PageToken)

	return c.list(ctx, EndpointSearch, apiKey, params)
}

// PlaylistItems calls the playlistItems endpoint.
func (c *Client) PlaylistItems(ctx context.Context, apiKey string, q PlaylistItemsQuery) (*ListResponse, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("playlistId", q.PlaylistID)
	setPaging(params, q.MaxResults, q.PageToken)

	return c.list(ctx, EndpointPlaylistItems, apiKey, params)
}

func (c *Client) list(ctx context.Context, endpoint, apiKey string, params url.Values) (resp *ListResponse, err error) {
	if c.observer != nil {
		start := time.Now()
		defer func() { c.observer(endpoint, time.Since(start), err) }()
	}

	params.Set("key", apiKey)
	requestURL := fmt.Sprintf("%s/youtube/v3/%s?%s", c.baseURL, endpoint, params.Encode())

	body, err := c.doRequest(ctx, endpoint, requestURL)
	if err != nil {
		return nil, err
	}

	var response ListResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", endpoint, err)
	}
	if response.Items == nil {
		response.Items = []Item{}
	}

	return &response, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint}
	}

	return body, nil
}

func setPaging(params url.Values, maxResults int, pageToken string) {
	if maxResults > 0 {
		params.Set("maxResults", strconv.Itoa(maxResults))
	}
	if pageToken != "" {
		params.Set("pageToken", pageToken)
	}
}

func joinOr(parts []string, fallback string) string {
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ",")
}
