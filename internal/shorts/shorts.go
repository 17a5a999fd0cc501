// Package shorts assembles the batch shown by the vertical shorts player.
//
// A batch always starts with the seed video the user opened, followed by the
// channel's other short videos in upstream order.
package shorts

import "github.com/gauthierbraillon/ytpanel/internal/message"

// Compose returns the seed followed by related, skipping the seed itself,
// entries without an id, and any id already in the batch.
func Compose(seed message.VideoSummary, related []message.VideoSummary) []message.VideoSummary {
	batch := make([]message.VideoSummary, 0, len(related)+1)
	batch = append(batch, seed)

	seen := map[string]bool{seed.ID: true}
	for _, v := range related {
		if v.ID == "" || seen[v.ID] {
			continue
		}
		seen[v.ID] = true
		batch = append(batch, v)
	}

	return batch
}

// Batch builds the outbound message for a composed batch. Playback always
// starts on the seed.
func Batch(videos []message.VideoSummary) message.LoadShorts {
	return message.LoadShorts{Shorts: videos, CurrentIndex: 0}
}
