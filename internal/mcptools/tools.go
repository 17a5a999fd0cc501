// Package mcptools exposes the panel operations as Model Context Protocol
// tools, so an assistant can browse YouTube through the same orchestrator a
// panel uses.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gauthierbraillon/ytpanel/internal/intent"
	"github.com/gauthierbraillon/ytpanel/internal/message"
)

// Handler answers inbound panel messages.
type Handler interface {
	Handle(ctx context.Context, in message.Inbound) (message.Outbound, error)
}

type ClassifyInput struct {
	URL string `json:"url" jsonschema:"YouTube URL to classify"`
}

type LoadURLInput struct {
	URL       string `json:"url" jsonschema:"YouTube search, watch, shorts, youtu.be or playlist URL"`
	PageToken string `json:"page_token,omitempty" jsonschema:"nextPageToken from a previous page"`
}

type SearchInput struct {
	Query     string `json:"query" jsonschema:"Free text search query"`
	PageToken string `json:"page_token,omitempty" jsonschema:"nextPageToken from a previous page"`
}

type TrendingInput struct{}

// NewServer builds an MCP server with every tool registered.
func NewServer(version string, h Handler) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "ytpanel",
		Version: version,
	}, nil)
	Register(server, h)
	return server
}

// Register adds the YouTube tools to server.
func Register(server *mcp.Server, h Handler) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_classify_url",
		Description: "Classify a YouTube URL as search, video, short, playlist, channel or unknown, and extract its ids or query. Makes no network call.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input ClassifyInput) (*mcp.CallToolResult, any, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		return jsonResult(intent.Classify(input.URL))
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_load_url",
		Description: "Load whatever a YouTube URL points at: search results, a video to play, a shorts batch or a playlist page. Returns the panel message as JSON.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input LoadURLInput) (*mcp.CallToolResult, any, error) {
		if input.URL == "" {
			return nil, nil, errors.New("url is required")
		}
		return handle(ctx, h, message.LoadFromURL{URL: input.URL, PageToken: input.PageToken})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_search",
		Description: "Search YouTube videos. Returns up to 50 results and a nextPageToken for the following page.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, any, error) {
		if input.Query == "" {
			return nil, nil, errors.New("query is required")
		}
		return handle(ctx, h, message.Search{Query: input.Query, PageToken: input.PageToken})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "youtube_trending",
		Description: "List the most popular YouTube videos for the configured region.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ TrendingInput) (*mcp.CallToolResult, any, error) {
		return handle(ctx, h, message.GetTrending{})
	})
}

func handle(ctx context.Context, h Handler, in message.Inbound) (*mcp.CallToolResult, any, error) {
	out, err := h.Handle(ctx, in)
	if err != nil {
		return nil, nil, err
	}
	data, err := message.Encode(out)
	if err != nil {
		return nil, nil, err
	}
	return textResult(string(data)), nil, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
