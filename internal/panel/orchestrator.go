// Package panel turns panel requests into YouTube Data API calls.
//
// The Orchestrator answers every inbound message with at most one outbound
// message. It keeps no state between requests: the API key is read fresh for
// each one and every page is fetched with the cursor the caller supplies.
package panel

import (
	"context"
	"errors"
	"fmt"

	"github.com/gauthierbraillon/ytpanel/internal/intent"
	"github.com/gauthierbraillon/ytpanel/internal/logger"
	"github.com/gauthierbraillon/ytpanel/internal/message"
	"github.com/gauthierbraillon/ytpanel/internal/metrics"
	"github.com/gauthierbraillon/ytpanel/internal/shorts"
	"github.com/gauthierbraillon/ytpanel/internal/youtube"
)

const (
	pageSize          = 50
	relatedShortsSize = 20
	defaultRegionCode = "US"
	chartMostPopular  = "mostPopular"
)

var (
	// ErrUnsupportedURL is returned for URLs that classify as a channel, as
	// unknown, or that lack the id or query their kind needs.
	ErrUnsupportedURL = errors.New("unsupported YouTube URL format")

	// ErrCredentials wraps a failure to read the stored key. No upstream call
	// was made.
	ErrCredentials = errors.New("failed to read API key")
)

// Upstream is the subset of the Data API the orchestrator calls.
type Upstream interface {
	Videos(ctx context.Context, apiKey string, q youtube.VideosQuery) (*youtube.ListResponse, error)
	Search(ctx context.Context, apiKey string, q youtube.SearchQuery) (*youtube.ListResponse, error)
	PlaylistItems(ctx context.Context, apiKey string, q youtube.PlaylistItemsQuery) (*youtube.ListResponse, error)
}

// Credentials yields the stored API key, or "" when none is configured.
type Credentials interface {
	APIKey(ctx context.Context) (string, error)
}

// Prompter asks the user to configure an API key. RequestAPIKey must not wait
// for the user's answer; the request that triggered it has already ended.
type Prompter interface {
	RequestAPIKey(ctx context.Context)
}

// Option configures the Orchestrator.
type Option func(*Orchestrator)

// WithPrompter sets the out-of-band credential prompt.
func WithPrompter(p Prompter) Option {
	return func(o *Orchestrator) { o.prompter = p }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithRegionCode sets the region of the trending chart.
func WithRegionCode(code string) Option {
	return func(o *Orchestrator) {
		if code != "" {
			o.regionCode = code
		}
	}
}

// Orchestrator dispatches inbound messages.
type Orchestrator struct {
	upstream   Upstream
	creds      Credentials
	prompter   Prompter
	log        logger.Logger
	metrics    *metrics.Metrics
	regionCode string
}

// New creates an Orchestrator.
func New(upstream Upstream, creds Credentials, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		upstream:   upstream,
		creds:      creds,
		log:        logger.NewNop(),
		regionCode: defaultRegionCode,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Handle answers one inbound message. A nil Outbound with a nil error never
// happens; failures come back as errors for the host to show.
func (o *Orchestrator) Handle(ctx context.Context, in message.Inbound) (message.Outbound, error) {
	o.metrics.Inbound(in.Command())

	apiKey, err := o.creds.APIKey(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentials, err)
	}
	if apiKey == "" {
		o.log.Info("API key missing, prompting user", logger.String("command", in.Command()))
		if o.prompter != nil {
			o.prompter.RequestAPIKey(ctx)
		}
		return message.APIKeyRequired{}, nil
	}

	switch m := in.(type) {
	case message.LoadFromURL:
		out, err := o.loadFromURL(ctx, apiKey, m)
		if err != nil && !errors.Is(err, ErrUnsupportedURL) {
			return nil, fmt.Errorf("failed to load from YouTube URL: %w", err)
		}
		return out, err
	case message.Search:
		out, err := o.search(ctx, apiKey, m.Query, m.PageToken)
		if err != nil {
			return nil, fmt.Errorf("failed to search YouTube: %w", err)
		}
		return out, nil
	case message.GetTrending:
		out, err := o.trending(ctx, apiKey)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch trending videos: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %q", message.ErrUnknownCommand, in.Command())
	}
}

func (o *Orchestrator) loadFromURL(ctx context.Context, apiKey string, m message.LoadFromURL) (message.Outbound, error) {
	target := intent.Classify(m.URL)
	o.log.Debug("classified URL",
		logger.String("url", m.URL),
		logger.String("kind", target.Kind.String()),
	)

	switch {
	case target.Kind == intent.KindSearch && target.Query != "":
		return o.search(ctx, apiKey, target.Query, m.PageToken)
	case target.Kind == intent.KindVideo && target.VideoID != "":
		return o.video(ctx, apiKey, target.VideoID)
	case target.Kind == intent.KindShort && target.VideoID != "":
		return o.shorts(ctx, apiKey, target.VideoID)
	case target.Kind == intent.KindPlaylist && target.PlaylistID != "":
		return o.playlist(ctx, apiKey, target.PlaylistID, m.PageToken)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, target.Kind)
	}
}

func (o *Orchestrator) search(ctx context.Context, apiKey, query, pageToken string) (message.Outbound, error) {
	resp, err := o.upstream.Search(ctx, apiKey, youtube.SearchQuery{
		Query:      query,
		MaxResults: pageSize,
		PageToken:  pageToken,
	})
	if err != nil {
		return nil, err
	}
	return message.SearchResults{PagedResult: normalizePage(resp, youtube.Item.VideoID)}, nil
}

func (o *Orchestrator) trending(ctx context.Context, apiKey string) (message.Outbound, error) {
	resp, err := o.upstream.Videos(ctx, apiKey, youtube.VideosQuery{
		Chart:      chartMostPopular,
		RegionCode: o.regionCode,
		MaxResults: pageSize,
	})
	if err != nil {
		return nil, err
	}
	return message.TrendingResults{PagedResult: normalizePage(resp, youtube.Item.VideoID)}, nil
}

func (o *Orchestrator) video(ctx context.Context, apiKey, videoID string) (message.Outbound, error) {
	resp, err := o.upstream.Videos(ctx, apiKey, youtube.VideosQuery{IDs: []string{videoID}})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return message.NotFound{Kind: intent.KindVideo.String(), ID: videoID}, nil
	}
	return message.PlayVideo{VideoID: videoID}, nil
}

// shorts fetches the seed, then the channel's newest short videos. The second
// call is optional: if it fails the batch holds only the seed.
func (o *Orchestrator) shorts(ctx context.Context, apiKey, videoID string) (message.Outbound, error) {
	resp, err := o.upstream.Videos(ctx, apiKey, youtube.VideosQuery{IDs: []string{videoID}})
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return message.NotFound{Kind: intent.KindShort.String(), ID: videoID}, nil
	}

	seedItem := resp.Items[0]
	seed := summarize(seedItem, videoID)
	channelID := seedItem.Snippet.ChannelID
	if channelID == "" {
		o.log.Debug("seed video has no channel, skipping related shorts", logger.String("video_id", videoID))
		return shorts.Batch(shorts.Compose(seed, nil)), nil
	}

	related, err := o.upstream.Search(ctx, apiKey, youtube.SearchQuery{
		ChannelID:     channelID,
		VideoDuration: "short",
		Order:         "date",
		MaxResults:    relatedShortsSize,
	})
	if err != nil {
		o.log.Warn("related shorts unavailable, showing seed only",
			logger.String("video_id", videoID),
			logger.String("channel_id", channelID),
			logger.Error(err),
		)
		o.metrics.ShortsFallback()
		return shorts.Batch(shorts.Compose(seed, nil)), nil
	}

	return shorts.Batch(shorts.Compose(seed, normalizeItems(related.Items, youtube.Item.VideoID))), nil
}

func (o *Orchestrator) playlist(ctx context.Context, apiKey, playlistID, pageToken string) (message.Outbound, error) {
	resp, err := o.upstream.PlaylistItems(ctx, apiKey, youtube.PlaylistItemsQuery{
		PlaylistID: playlistID,
		MaxResults: pageSize,
		PageToken:  pageToken,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Items) == 0 && pageToken == "" {
		return message.NotFound{Kind: intent.KindPlaylist.String(), ID: playlistID}, nil
	}

	page := normalizePage(resp, playlistVideoID)
	if dropped := len(resp.Items) - len(page.Results); dropped > 0 {
		o.log.Debug("dropped playlist items without a video",
			logger.String("playlist_id", playlistID),
			logger.Int("dropped", dropped),
		)
	}
	return message.SearchResults{PagedResult: page}, nil
}

func playlistVideoID(item youtube.Item) string {
	if item.Snippet.ResourceID == nil {
		return ""
	}
	return item.Snippet.ResourceID.VideoID
}
