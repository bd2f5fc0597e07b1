package innertube

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/Jeffail/gabs/v2"
	"github.com/pkg/errors"

	"github.com/nijaru/yt-research/normalize"
)

// VideoInfo is what player and next report about a video. Thumbnails keep
// upstream order, smallest first.
type VideoInfo struct {
	ID               string
	Title            string
	ShortDescription string
	Author           string
	ChannelID        string
	Thumbnails       []string
	ViewCount        int64
	LikeCount        int64
	CommentCount     int64
	LengthSeconds    int
	Keywords         []string
	Category         string
	PublishDate      string

	// DateText is the date line shown under the player ("Mar 5, 2024",
	// "Premiered 2 days ago"). Only set by Info.
	DateText string

	transcriptParams string
}

// FirstThumbnail returns the first thumbnail URL, or "".
func (v *VideoInfo) FirstThumbnail() string {
	if len(v.Thumbnails) == 0 {
		return ""
	}
	return v.Thumbnails[0]
}

const (
	playabilityStatusPath = "playabilityStatus.status"
	playabilityReasonPath = "playabilityStatus.reason"
	videoDetailsPath      = "videoDetails"
	microformatPath       = "microformat.playerMicroformatRenderer"
	watchContentsPath     = "contents.twoColumnWatchNextResults.results.results.contents"
)

var (
	transcriptParamsPattern = regexp.MustCompile(`"getTranscriptEndpoint"\s*:\s*\{\s*"params"\s*:\s*"([^"]+)"`)
	likeCountPatterns       = []*regexp.Regexp{
		regexp.MustCompile(`like this video along with ([\d,]+) other`),
		regexp.MustCompile(`"label"\s*:\s*"([\d,]+) likes"`),
	}
	commentCountPattern = regexp.MustCompile(`"commentCount"\s*:\s*\{\s*"simpleText"\s*:\s*"([^"]+)"`)
)

// BasicInfo calls the player endpoint only.
func (c *Client) BasicInfo(ctx context.Context, videoID string) (*VideoInfo, error) {
	data, err := c.post(ctx, "player", map[string]any{
		"videoId":        videoID,
		"context":        c.webContext(),
		"racyCheckOk":    true,
		"contentCheckOk": true,
	})
	if err != nil {
		return nil, err
	}

	return ParsePlayer(data)
}

// Info calls player and next, adding likes, comments, the date line and the
// transcript handle to what BasicInfo returns.
func (c *Client) Info(ctx context.Context, videoID string) (*VideoInfo, error) {
	info, err := c.BasicInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	data, err := c.post(ctx, "next", map[string]any{
		"videoId": videoID,
		"context": c.webContext(),
	})
	if err != nil {
		return nil, err
	}

	if err := parseNext(data, info); err != nil {
		return nil, err
	}
	return info, nil
}

// ParsePlayer reads a player response, as returned by the player endpoint or
// embedded in a watch page as ytInitialPlayerResponse.
func ParsePlayer(data []byte) (*VideoInfo, error) {
	j, err := gabs.ParseJSON(data)
	if err != nil {
		return nil, errors.Wrap(err, "innertube: decode player")
	}

	if status := str(j, playabilityStatusPath); status != "" && status != "OK" {
		// Age or login gated videos still carry details worth returning.
		if !j.ExistsP(videoDetailsPath + ".title") {
			return nil, errors.Wrapf(ErrUnplayable, "%s: %s", status, str(j, playabilityReasonPath))
		}
	}

	details := j.Path(videoDetailsPath)
	if details == nil || details.Data() == nil {
		return nil, errors.Wrap(ErrUnplayable, "missing videoDetails")
	}

	info := &VideoInfo{
		ID:               str(details, "videoId"),
		Title:            str(details, "title"),
		ShortDescription: str(details, "shortDescription"),
		Author:           str(details, "author"),
		ChannelID:        str(details, "channelId"),
		ViewCount:        normalize.ParseCount(str(details, "viewCount")),
		Keywords:         strs(details, "keywords"),
		PublishDate:      str(j, microformatPath+".publishDate"),
		Category:         str(j, microformatPath+".category"),
	}
	info.LengthSeconds, _ = strconv.Atoi(str(details, "lengthSeconds"))

	for _, thumb := range details.Path("thumbnail.thumbnails").Children() {
		if u := str(thumb, "url"); u != "" {
			info.Thumbnails = append(info.Thumbnails, u)
		}
	}

	if info.PublishDate == "" {
		info.PublishDate = str(j, microformatPath+".uploadDate")
	}

	return info, nil
}

func parseNext(data []byte, info *VideoInfo) error {
	j, err := gabs.ParseJSON(data)
	if err != nil {
		return errors.Wrap(err, "innertube: decode next")
	}

	for _, item := range j.Path(watchContentsPath).Children() {
		if primary := item.Path("videoPrimaryInfoRenderer"); primary.Data() != nil {
			info.DateText = text(primary.Path("dateText"))
			if info.Title == "" {
				info.Title = text(primary.Path("title"))
			}
		}
		if owner := item.Path("videoSecondaryInfoRenderer.owner.videoOwnerRenderer"); owner.Data() != nil {
			if info.Author == "" {
				info.Author = text(owner.Path("title"))
			}
			if info.ChannelID == "" {
				info.ChannelID = str(owner, "navigationEndpoint.browseEndpoint.browseId")
			}
		}
	}

	for _, p := range likeCountPatterns {
		if m := p.FindSubmatch(data); m != nil {
			info.LikeCount = normalize.ParseCount(string(m[1]))
			break
		}
	}

	if m := commentCountPattern.FindSubmatch(data); m != nil {
		info.CommentCount = normalize.ParseCount(string(m[1]))
	}

	if m := transcriptParamsPattern.FindSubmatch(data); m != nil {
		info.transcriptParams = unescapeParams(string(m[1]))
	}

	return nil
}

// str returns the string at path, or "".
func str(c *gabs.Container, path string) string {
	if c == nil {
		return ""
	}
	s, _ := c.Path(path).Data().(string)
	return s
}

func strs(c *gabs.Container, path string) []string {
	var out []string
	for _, child := range c.Path(path).Children() {
		if s, ok := child.Data().(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// text flattens a YouTube text object, either {"simpleText": ...} or
// {"runs": [{"text": ...}, ...]}.
func text(c *gabs.Container) string {
	if c == nil || c.Data() == nil {
		return ""
	}
	if s := str(c, "simpleText"); s != "" {
		return s
	}
	var sb strings.Builder
	for _, run := range c.Path("runs").Children() {
		sb.WriteString(str(run, "text"))
	}
	return sb.String()
}
