package sources

import (
	"time"

	"github.com/nijaru/yt-research/normalize"
	"github.com/nijaru/yt-research/youtube/innertube"
)

// parseUploadDate prefers the date line under the player and falls back to
// the microformat publish date. Relative dates resolve against now.
func parseUploadDate(info *innertube.VideoInfo, now time.Time) time.Time {
	if t := normalize.ParseDateAt(info.DateText, now); !t.IsZero() {
		return t
	}
	return normalize.ParseDateAt(info.PublishDate, now)
}
