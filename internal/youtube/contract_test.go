package youtube

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The fixtures under testdata are trimmed copies of real Data API v3 list
// responses. Each endpoint puts the video id somewhere else; all three must
// resolve to the same flat id.
func TestContract_AllThreeIDShapesResolveToSameVideo(t *testing.T) {
	fixtures := []struct {
		file         string
		wantKind     string
		wantNextPage string
		wantTotal    int
	}{
		{"videos_list.json", "youtube#videoListResponse", "CAEQAA", 200},
		{"search_list.json", "youtube#searchListResponse", "CDIQAA", 1000000},
		{"playlist_items_list.json", "youtube#playlistItemListResponse", "", 2},
	}

	for _, f := range fixtures {
		t.Run(f.file, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join("testdata", f.file))
			require.NoError(t, err)

			var resp ListResponse
			require.NoError(t, json.Unmarshal(data, &resp))

			assert.Equal(t, f.wantKind, resp.Kind)
			assert.Equal(t, f.wantNextPage, resp.NextPageToken)
			assert.Equal(t, f.wantTotal, resp.PageInfo.TotalResults)
			require.Len(t, resp.Items, 1)
			assert.Equal(t, "abc", resp.Items[0].VideoID())
			assert.NotEmpty(t, resp.Items[0].Snippet.BestThumbnail())
		})
	}
}

func TestItemID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ItemID
		wantErr bool
	}{
		{"bare string", `"abc"`, ItemID{Raw: "abc"}, false},
		{"search object", `{"kind":"youtube#video","videoId":"abc"}`, ItemID{Kind: "youtube#video", VideoID: "abc"}, false},
		{"null", `null`, ItemID{}, false},
		{"number", `42`, ItemID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ItemID
			err := json.Unmarshal([]byte(tt.input), &got)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
