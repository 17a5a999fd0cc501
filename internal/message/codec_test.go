package message

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInbound_AllKinds(t *testing.T) {
	tests := []struct {
		input string
		want  Inbound
	}{
		{`{"command":"loadFromUrl","url":"https://youtu.be/abc","pageToken":"CDIQAA"}`, LoadFromURL{URL: "https://youtu.be/abc", PageToken: "CDIQAA"}},
		{`{"command":"loadFromUrl","url":"https://youtu.be/abc"}`, LoadFromURL{URL: "https://youtu.be/abc"}},
		{`{"command":"search","query":"lofi beats"}`, Search{Query: "lofi beats"}},
		{`{"command":"getTrending"}`, GetTrending{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeInbound_RejectsUnknownCommand(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"command":"deleteEverything"}`))
	assert.ErrorIs(t, err, ErrUnknownCommand)

	_, err = DecodeInbound([]byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestDecodeInbound_RejectsMalformedJSON(t *testing.T) {
	_, err := DecodeInbound([]byte(`{"command":`))
	assert.Error(t, err)

	_, err = DecodeInbound([]byte(`{"command":"search","query":42}`))
	assert.Error(t, err)
}

func TestEncode_PutsCommandTagOnEveryMessage(t *testing.T) {
	total := 1
	views := int64(10)
	published := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		msg  interface{ Command() string }
		want string
	}{
		{APIKeyRequired{}, `{"command":"apiKeyRequired"}`},
		{GetTrending{}, `{"command":"getTrending"}`},
		{PlayVideo{VideoID: "abc"}, `{"command":"playVideo","videoId":"abc"}`},
		{LoadFromURL{URL: "https://youtu.be/abc"}, `{"command":"loadFromUrl","url":"https://youtu.be/abc"}`},
		{NotFound{Kind: "video", ID: "abc"}, `{"command":"notFound","kind":"video","id":"abc"}`},
		{
			SearchResults{PagedResult{Results: []VideoSummary{}, NextPageToken: "n", TotalResults: &total}},
			`{"command":"searchResults","results":[],"nextPageToken":"n","totalResults":1}`,
		},
		{
			LoadShorts{Shorts: []VideoSummary{{ID: "v1", PublishedAt: published, ViewCount: &views}}},
			`{"command":"loadShorts","shorts":[{"id":"v1","title":"","channelTitle":"","channelId":"","publishedAt":"2024-01-02T03:04:05Z","thumbnail":"","viewCount":10}],"currentIndex":0}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg.Command(), func(t *testing.T) {
			got, err := Encode(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
			assert.True(t, json.Valid(got))
		})
	}
}

func TestEncode_InboundRoundTrip(t *testing.T) {
	in := Search{Query: "go", PageToken: "p2"}

	data, err := Encode(in)
	require.NoError(t, err)

	out, err := DecodeInbound(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}
