package innertube

import (
	"context"
	"net/url"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/pkg/errors"
)

const initialSegmentsPath = "updateEngagementPanelAction.content.transcriptRenderer.content.transcriptSearchPanelRenderer.body.transcriptSegmentListRenderer.initialSegments"

// Transcript returns the transcript of the video info was loaded for, as
// segment texts in order joined by single spaces. ErrNoTranscript means the
// video has no captions.
func (c *Client) Transcript(ctx context.Context, info *VideoInfo) (string, error) {
	if info.transcriptParams == "" {
		return c.fallbackCaptions(ctx, info.ID, errors.Wrap(ErrNoTranscript, "no transcript panel"))
	}

	data, err := c.post(ctx, "get_transcript", map[string]any{
		"params":  info.transcriptParams,
		"context": c.webContext(),
	})
	if err != nil {
		return c.fallbackCaptions(ctx, info.ID, err)
	}

	transcript, err := parseTranscript(data)
	if err != nil {
		return c.fallbackCaptions(ctx, info.ID, err)
	}
	return transcript, nil
}

// TranscriptByID loads the watch-next data for videoID and then its
// transcript.
func (c *Client) TranscriptByID(ctx context.Context, videoID string) (string, error) {
	data, err := c.post(ctx, "next", map[string]any{
		"videoId": videoID,
		"context": c.webContext(),
	})
	if err != nil {
		return "", err
	}

	info := &VideoInfo{ID: videoID}
	if err := parseNext(data, info); err != nil {
		return "", err
	}
	return c.Transcript(ctx, info)
}

func (c *Client) fallbackCaptions(ctx context.Context, videoID string, cause error) (string, error) {
	if c.captions == nil || videoID == "" {
		return "", cause
	}

	transcript, err := c.captions.FetchCaptions(ctx, videoID)
	if err != nil {
		return "", errors.Wrapf(err, "caption fallback after: %v", cause)
	}
	return transcript, nil
}

func parseTranscript(data []byte) (string, error) {
	j, err := gabs.ParseJSON(data)
	if err != nil {
		return "", errors.Wrap(err, "innertube: decode transcript")
	}

	var segments []string
	for _, action := range j.Path("actions").Children() {
		for _, seg := range action.Path(initialSegmentsPath).Children() {
			renderer := seg.Path("transcriptSegmentRenderer")
			if renderer.Data() == nil {
				continue
			}
			if s := text(renderer.Path("snippet")); s != "" {
				segments = append(segments, s)
			}
		}
	}

	if len(segments) == 0 {
		return "", errors.Wrap(ErrNoTranscript, "empty transcript segments")
	}
	return strings.Join(segments, " "), nil
}

// The params value in /next is URL-encoded; get_transcript wants it raw.
func unescapeParams(p string) string {
	if decoded, err := url.QueryUnescape(p); err == nil {
		return decoded
	}
	return p
}
