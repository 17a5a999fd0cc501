// Package intent classifies YouTube URLs into typed intents.
//
// Classification is total: every input, including strings that are not URLs at
// all, yields exactly one Intent. Anything that cannot be recognised degrades to
// KindUnknown instead of failing.
package intent

import (
	"net/url"
	"strings"
)

// Kind identifies the variant of an Intent.
type Kind int

const (
	KindUnknown Kind = iota
	KindSearch
	KindVideo
	KindShort
	KindPlaylist
	KindChannel
)

var kindNames = map[Kind]string{
	KindUnknown:  "unknown",
	KindSearch:   "search",
	KindVideo:    "video",
	KindShort:    "short",
	KindPlaylist: "playlist",
	KindChannel:  "channel",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText encodes a Kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a Kind name. Unrecognised names become KindUnknown.
func (k *Kind) UnmarshalText(text []byte) error {
	*k = KindUnknown
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			break
		}
	}
	return nil
}

// Intent is the classified purpose of a URL. Only the fields that belong to
// Kind are meaningful; the rest stay empty.
type Intent struct {
	Kind Kind `json:"kind"`

	// Search
	Query   string `json:"query,omitempty"`
	Filters string `json:"filters,omitempty"`

	// Video, Short. A watch URL keeps its list id in PlaylistID even though the
	// video wins.
	VideoID    string `json:"videoId,omitempty"`
	PlaylistID string `json:"playlistId,omitempty"`

	// Channel
	ChannelID   string `json:"channelId,omitempty"`
	ChannelName string `json:"channelName,omitempty"`
}

const (
	hostBare  = "youtube.com"
	hostWWW   = "www.youtube.com"
	hostShort = "youtu.be"
)

// Classify maps a raw URL string to an Intent. Rules are evaluated in order and
// the first match wins.
func Classify(raw string) Intent {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Intent{Kind: KindUnknown}
	}

	host := strings.ToLower(u.Hostname())
	if host != hostBare && host != hostWWW && host != hostShort {
		return Intent{Kind: KindUnknown}
	}

	path := u.Path
	switch {
	case path == "/results":
		return Intent{
			Kind:    KindSearch,
			Query:   decodeSearchQuery(rawParam(u.RawQuery, "search_query")),
			Filters: queryParam(u.RawQuery, "sp"),
		}

	case path == "/watch":
		videoID, playlistID := queryParam(u.RawQuery, "v"), queryParam(u.RawQuery, "list")
		if videoID != "" {
			return Intent{Kind: KindVideo, VideoID: videoID, PlaylistID: playlistID}
		}
		return Intent{Kind: KindPlaylist, PlaylistID: playlistID}

	case host == hostShort:
		return Intent{Kind: KindVideo, VideoID: firstSegment(strings.TrimPrefix(path, "/"))}

	case strings.HasPrefix(path, "/shorts/"):
		return Intent{Kind: KindShort, VideoID: firstSegment(strings.TrimPrefix(path, "/shorts/"))}

	case strings.HasPrefix(path, "/playlist"):
		return Intent{Kind: KindPlaylist, PlaylistID: queryParam(u.RawQuery, "list")}

	case strings.HasPrefix(path, "/channel/"):
		return Intent{Kind: KindChannel, ChannelID: firstSegment(strings.TrimPrefix(path, "/channel/"))}

	case strings.HasPrefix(path, "/c/"):
		return Intent{Kind: KindChannel, ChannelName: firstSegment(strings.TrimPrefix(path, "/c/"))}

	case strings.HasPrefix(path, "/@"):
		return Intent{Kind: KindChannel, ChannelName: firstSegment(strings.TrimPrefix(path, "/@"))}
	}

	return Intent{Kind: KindUnknown}
}

// rawParam returns the first still-encoded value of key in rawQuery.
func rawParam(rawQuery, key string) string {
	for _, pair := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(pair, "=")
		if k == key {
			return v
		}
	}
	return ""
}

// queryParam returns the decoded first value of key. Pairs are split on '&'
// only, so a ';' stays part of the value.
func queryParam(rawQuery, key string) string {
	return decodeSearchQuery(rawParam(rawQuery, key))
}

// decodeSearchQuery turns '+' into spaces before percent-decoding, so a literal
// "%2B" survives as '+'. A malformed escape leaves the value as-is.
func decodeSearchQuery(v string) string {
	v = strings.ReplaceAll(v, "+", " ")
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

func firstSegment(s string) string {
	seg, _, _ := strings.Cut(s, "/")
	return seg
}
