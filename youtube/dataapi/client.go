// Package dataapi wraps the official YouTube Data API v3.
package dataapi

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/normalize"
	"github.com/nijaru/yt-research/youtube"
)

// SourceName identifies records produced by this client.
const SourceName = "official"

// MaxResults is the largest page the API serves.
const MaxResults = 50

var (
	ErrNoAPIKey = errors.New("youtube api key not configured")
	ErrNotFound = errors.New("video not found")
)

type Client struct {
	service *ytapi.Service
}

// NewClient builds a Data API client for apiKey. Extra options are applied
// after the key, which lets tests point the client at a fake endpoint.
func NewClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := ytapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "dataapi: create service")
	}

	return &Client{service: service}, nil
}

// Video fetches snippet, statistics and content details for one video.
func (c *Client) Video(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	resp, err := c.service.Videos.
		List([]string{"snippet", "statistics", "contentDetails"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrapf(err, "dataapi: videos.list %s", videoID)
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, errors.Wrap(ErrNotFound, videoID)
	}

	return videoRecord(resp.Items[0]), nil
}

func videoRecord(item *ytapi.Video) *models.VideoRecord {
	snippet := item.Snippet
	rec := &models.VideoRecord{
		ID:          item.Id,
		Title:       snippet.Title,
		Description: snippet.Description,
		Thumbnail:   thumbnailURL(snippet.Thumbnails, "high", "default"),
		ChannelName: snippet.ChannelTitle,
		ChannelID:   snippet.ChannelId,
		ChannelURL:  youtube.ChannelURL(snippet.ChannelId),
		UploadDate:  snippet.PublishedAt,
		UploadedAt:  normalize.ParseDate(snippet.PublishedAt),
		Tags:        snippet.Tags,
		Source:      SourceName,
	}

	if stats := item.Statistics; stats != nil {
		rec.ViewCount = int64(stats.ViewCount)
		rec.LikeCount = int64(stats.LikeCount)
		rec.CommentCount = int64(stats.CommentCount)
	}

	if details := item.ContentDetails; details != nil {
		rec.DurationSeconds = normalize.ParseDuration(details.Duration)
	}

	return rec
}

// PlaylistEntry is one item of an uploads playlist page.
type PlaylistEntry struct {
	VideoID     string
	Title       string
	Thumbnail   string
	PublishedAt string
}

type PlaylistPage struct {
	Entries       []PlaylistEntry
	NextPageToken string
}

// PlaylistPage fetches one page of up to MaxResults playlist items.
func (c *Client) PlaylistPage(ctx context.Context, playlistID, pageToken string) (*PlaylistPage, error) {
	call := c.service.PlaylistItems.
		List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(MaxResults).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, errors.Wrapf(err, "dataapi: playlistItems.list %s", playlistID)
	}

	page := &PlaylistPage{
		Entries:       make([]PlaylistEntry, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}

	for _, item := range resp.Items {
		entry := PlaylistEntry{}
		if item.ContentDetails != nil {
			entry.VideoID = item.ContentDetails.VideoId
		}
		if s := item.Snippet; s != nil {
			entry.Title = s.Title
			entry.Thumbnail = thumbnailURL(s.Thumbnails, "medium", "default")
			entry.PublishedAt = s.PublishedAt
			if entry.VideoID == "" && s.ResourceId != nil {
				entry.VideoID = s.ResourceId.VideoId
			}
		}
		page.Entries = append(page.Entries, entry)
	}

	return page, nil
}

// VideoDetail is the part of a video the channel listing needs.
type VideoDetail struct {
	Views           string
	DurationSeconds int
}

// VideoDetails fetches statistics and duration for up to MaxResults ids.
// Ids the API does not return are absent from the map.
func (c *Client) VideoDetails(ctx context.Context, ids []string) (map[string]VideoDetail, error) {
	if len(ids) > MaxResults {
		return nil, errors.Errorf("dataapi: %d ids exceeds batch limit of %d", len(ids), MaxResults)
	}

	resp, err := c.service.Videos.
		List([]string{"statistics", "contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, errors.Wrap(err, "dataapi: videos.list details")
	}

	details := make(map[string]VideoDetail, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == "" {
			continue
		}
		d := VideoDetail{Views: "0"}
		if item.Statistics != nil {
			d.Views = strconv.FormatUint(item.Statistics.ViewCount, 10)
		}
		if item.ContentDetails != nil {
			d.DurationSeconds = normalize.ParseDuration(item.ContentDetails.Duration)
		}
		details[item.Id] = d
	}

	return details, nil
}

// thumbnailURL returns the first available size in order of preference.
func thumbnailURL(thumbs *ytapi.ThumbnailDetails, prefer ...string) string {
	if thumbs == nil {
		return ""
	}

	sizes := map[string]*ytapi.Thumbnail{
		"maxres":   thumbs.Maxres,
		"standard": thumbs.Standard,
		"high":     thumbs.High,
		"medium":   thumbs.Medium,
		"default":  thumbs.Default,
	}

	for _, name := range prefer {
		if t := sizes[name]; t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}
