package innertube

import (
	"context"
	"net/http"
	"strings"

	ytdl "github.com/kkdai/youtube/v2"
	"github.com/pkg/errors"
)

// Captions fetches transcripts through the kkdai/youtube client, which reads
// the player caption tracks instead of the transcript panel.
type Captions struct {
	client   *ytdl.Client
	language string
}

func NewCaptions(httpClient *http.Client, language string) *Captions {
	if language == "" {
		language = "en"
	}
	return &Captions{
		client:   &ytdl.Client{HTTPClient: httpClient},
		language: language,
	}
}

func (c *Captions) FetchCaptions(ctx context.Context, videoID string) (string, error) {
	video, err := c.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return "", errors.Wrap(err, "captions: load video")
	}

	segments, err := c.client.GetTranscriptCtx(ctx, video, c.language)
	if err != nil {
		if errors.Is(err, ytdl.ErrTranscriptDisabled) {
			return "", ErrNoTranscript
		}
		return "", errors.Wrap(err, "captions: transcript")
	}

	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if t := strings.TrimSpace(seg.Text); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return "", ErrNoTranscript
	}
	return strings.Join(parts, " "), nil
}
