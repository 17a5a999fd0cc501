// Package intent tests document how YouTube URLs are classified.
//
// Test requirements (this file serves as documentation):
// - Only youtube.com, www.youtube.com and youtu.be are recognised
// - Watch URLs prefer the video id over the playlist id
// - Search queries turn '+' into spaces before percent-decoding
// - Classification never fails; anything odd becomes unknown
package intent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAC100_Classify_SearchResults(t *testing.T) {
	got := Classify("https://www.youtube.com/results?search_query=foo+bar%20baz&sp=EgIQAQ%253D%253D")

	assert.Equal(t, KindSearch, got.Kind)
	assert.Equal(t, "foo bar baz", got.Query)
	assert.Equal(t, "EgIQAQ%3D%3D", got.Filters, "filter token should be carried without reinterpretation")
}

func TestAC100_Classify_SearchWithoutFilter(t *testing.T) {
	got := Classify("https://youtube.com/results?search_query=lofi")

	assert.Equal(t, KindSearch, got.Kind)
	assert.Equal(t, "lofi", got.Query)
	assert.Empty(t, got.Filters)
}

func TestAC100_Classify_SearchKeepsEncodedPlus(t *testing.T) {
	got := Classify("https://www.youtube.com/results?search_query=c%2B%2B+tutorial")

	assert.Equal(t, "c++ tutorial", got.Query)
}

func TestAC101_Classify_WatchPrefersVideoOverPlaylist(t *testing.T) {
	got := Classify("https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PL123")

	assert.Equal(t, KindVideo, got.Kind, "user opening a video inside a playlist should get the video")
	assert.Equal(t, "dQw4w9WgXcQ", got.VideoID)
	assert.Equal(t, "PL123", got.PlaylistID)
}

func TestAC101_Classify_WatchWithOnlyPlaylist(t *testing.T) {
	got := Classify("https://www.youtube.com/watch?list=PL123")

	assert.Equal(t, KindPlaylist, got.Kind)
	assert.Equal(t, "PL123", got.PlaylistID)
}

func TestAC101_Classify_WatchKeepsSemicolonInValue(t *testing.T) {
	got := Classify("https://www.youtube.com/watch?v=a;b&list=PL;1")

	assert.Equal(t, KindVideo, got.Kind, "a ';' in the query should not hide the video")
	assert.Equal(t, "a;b", got.VideoID)
	assert.Equal(t, "PL;1", got.PlaylistID)

	got = Classify("https://www.youtube.com/playlist?list=PL;2")
	assert.Equal(t, KindPlaylist, got.Kind)
	assert.Equal(t, "PL;2", got.PlaylistID)
}

func TestAC102_Classify_ShortLinkIsAlwaysVideo(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://youtu.be/abc123", "abc123"},
		{"https://youtu.be/abc123?t=42", "abc123"},
		{"https://youtu.be/shorts/xyz", "shorts"},
		{"https://youtu.be/abc123/extra", "abc123"},
		{"https://youtu.be/playlist?list=PL1", "playlist"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Classify(tt.url)
			assert.Equal(t, KindVideo, got.Kind)
			assert.Equal(t, tt.want, got.VideoID)
		})
	}
}

func TestAC103_Classify_Shorts(t *testing.T) {
	got := Classify("https://www.youtube.com/shorts/V1short")

	assert.Equal(t, KindShort, got.Kind)
	assert.Equal(t, "V1short", got.VideoID)
}

func TestAC104_Classify_PlaylistPage(t *testing.T) {
	got := Classify("https://www.youtube.com/playlist?list=PLabc")
	assert.Equal(t, KindPlaylist, got.Kind)
	assert.Equal(t, "PLabc", got.PlaylistID)

	missing := Classify("https://www.youtube.com/playlist")
	assert.Equal(t, KindPlaylist, missing.Kind, "a playlist page without a list id is still a playlist")
	assert.Empty(t, missing.PlaylistID)
}

func TestAC105_Classify_Channels(t *testing.T) {
	tests := []struct {
		url      string
		wantID   string
		wantName string
	}{
		{"https://www.youtube.com/channel/UC123", "UC123", ""},
		{"https://www.youtube.com/channel/UC123/videos", "UC123", ""},
		{"https://www.youtube.com/c/SomeCreator", "", "SomeCreator"},
		{"https://www.youtube.com/@handle", "", "handle"},
		{"https://www.youtube.com/@handle/shorts", "", "handle"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got := Classify(tt.url)
			assert.Equal(t, KindChannel, got.Kind)
			assert.Equal(t, tt.wantID, got.ChannelID)
			assert.Equal(t, tt.wantName, got.ChannelName)
		})
	}
}

func TestAC106_Classify_HostnameInvariant(t *testing.T) {
	paths := []string{
		"/results?search_query=go+lang",
		"/watch?v=abc&list=PL1",
		"/watch?list=PL1",
		"/shorts/abc",
		"/playlist?list=PL1",
		"/channel/UC1",
		"/@name",
		"/feed/trending",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			bare := Classify("https://youtube.com" + path)
			www := Classify("https://www.youtube.com" + path)
			assert.Equal(t, bare, www)
		})
	}
}

func TestAC107_Classify_ForeignHostsAreUnknown(t *testing.T) {
	urls := []string{
		"https://vimeo.com/watch?v=abc",
		"https://m.youtube.com/watch?v=abc",
		"https://youtube.com.evil.example/watch?v=abc",
		"https://example.com/shorts/abc",
		"https://notyoutu.be/abc",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			assert.Equal(t, KindUnknown, Classify(u).Kind)
		})
	}
}

func TestAC108_Classify_NeverFails(t *testing.T) {
	inputs := []string{
		"",
		"not a url",
		"youtube.com/watch?v=abc",
		"http://[::1",
		"https://www.youtube.com/",
		"https://www.youtube.com/feed/subscriptions",
		"https://www.youtube.com/results?search_query=%zz",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			assert.NotPanics(t, func() { Classify(in) })
		})
	}

	assert.Equal(t, KindUnknown, Classify("not a url").Kind)
	assert.Equal(t, KindUnknown, Classify("https://www.youtube.com/").Kind)
	assert.Equal(t, "%zz", Classify("https://www.youtube.com/results?search_query=%zz").Query)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "short", KindShort.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestIntent_JSONUsesKindNames(t *testing.T) {
	data, err := json.Marshal(Classify("https://youtu.be/abc"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"video","videoId":"abc"}`, string(data))

	var back Intent
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, KindVideo, back.Kind)

	require.NoError(t, json.Unmarshal([]byte(`{"kind":"hologram"}`), &back))
	assert.Equal(t, KindUnknown, back.Kind)
}
