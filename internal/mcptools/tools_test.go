package mcptools

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gauthierbraillon/ytpanel/internal/message"
)

type handlerFunc func(context.Context, message.Inbound) (message.Outbound, error)

func (f handlerFunc) Handle(ctx context.Context, in message.Inbound) (message.Outbound, error) {
	return f(ctx, in)
}

func connect(t *testing.T, h Handler) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()

	serverSession, err := NewServer("test", h).Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

func call(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	return res
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestTools_Listed(t *testing.T) {
	session := connect(t, handlerFunc(func(context.Context, message.Inbound) (message.Outbound, error) {
		return nil, errors.New("unused")
	}))

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"youtube_classify_url", "youtube_load_url", "youtube_search", "youtube_trending"}, names)
}

func TestClassifyURL(t *testing.T) {
	session := connect(t, handlerFunc(func(context.Context, message.Inbound) (message.Outbound, error) {
		t.Fatal("classification must not reach the handler")
		return nil, nil
	}))

	res := call(t, session, "youtube_classify_url", map[string]any{"url": "https://www.youtube.com/watch?v=abc&list=PL1"})

	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"kind":"video","videoId":"abc","playlistId":"PL1"}`, text(t, res))
}

func TestLoadURL_PassesCursor(t *testing.T) {
	var got message.Inbound
	session := connect(t, handlerFunc(func(_ context.Context, in message.Inbound) (message.Outbound, error) {
		got = in
		return message.PlayVideo{VideoID: "abc"}, nil
	}))

	res := call(t, session, "youtube_load_url", map[string]any{"url": "https://youtu.be/abc", "page_token": "T2"})

	assert.False(t, res.IsError)
	assert.JSONEq(t, `{"command":"playVideo","videoId":"abc"}`, text(t, res))
	assert.Equal(t, message.LoadFromURL{URL: "https://youtu.be/abc", PageToken: "T2"}, got)
}

func TestSearchAndTrending(t *testing.T) {
	var commands []string
	session := connect(t, handlerFunc(func(_ context.Context, in message.Inbound) (message.Outbound, error) {
		commands = append(commands, in.Command())
		return message.SearchResults{PagedResult: message.PagedResult{Results: []message.VideoSummary{}}}, nil
	}))

	call(t, session, "youtube_search", map[string]any{"query": "lofi"})
	call(t, session, "youtube_trending", map[string]any{})

	assert.Equal(t, []string{"search", "getTrending"}, commands)
}

func TestHandlerErrorIsToolError(t *testing.T) {
	session := connect(t, handlerFunc(func(context.Context, message.Inbound) (message.Outbound, error) {
		return nil, errors.New("failed to search YouTube: quota exceeded")
	}))

	res := call(t, session, "youtube_search", map[string]any{"query": "lofi"})

	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "quota exceeded")
}

func TestMissingArgumentIsToolError(t *testing.T) {
	session := connect(t, handlerFunc(func(context.Context, message.Inbound) (message.Outbound, error) {
		return message.APIKeyRequired{}, nil
	}))

	res := call(t, session, "youtube_search", map[string]any{"query": ""})

	assert.True(t, res.IsError)
}
