// Package sources adapts each upstream to a single metadata interface so
// the extractor can walk them in priority order.
package sources

import (
	"context"
	"time"

	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/youtube"
	"github.com/nijaru/yt-research/youtube/dataapi"
	"github.com/nijaru/yt-research/youtube/innertube"
	"github.com/nijaru/yt-research/youtube/scrape"
)

// MetadataSource fetches single-video metadata from one upstream. A
// returned record without a title counts as a miss.
type MetadataSource interface {
	Name() string
	FetchMetadata(ctx context.Context, videoID string) (*models.VideoRecord, error)
}

type Official struct {
	client *dataapi.Client
}

// NewOfficial wraps the Data API client. A nil client makes every fetch fail
// with dataapi.ErrNoAPIKey so the chain moves on.
func NewOfficial(client *dataapi.Client) *Official {
	return &Official{client: client}
}

func (o *Official) Name() string { return dataapi.SourceName }

func (o *Official) FetchMetadata(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	if o.client == nil {
		return nil, dataapi.ErrNoAPIKey
	}
	return o.client.Video(ctx, videoID)
}

type InnerTube struct {
	client *innertube.Client
}

func NewInnerTube(client *innertube.Client) *InnerTube {
	return &InnerTube{client: client}
}

func (i *InnerTube) Name() string { return "innertube" }

func (i *InnerTube) FetchMetadata(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	info, err := i.client.BasicInfo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return RecordFromInfo(info, i.Name(), time.Now()), nil
}

// RecordFromInfo maps InnerTube video info onto a VideoRecord. Relative
// upload dates are resolved against now.
func RecordFromInfo(info *innertube.VideoInfo, source string, now time.Time) *models.VideoRecord {
	uploadDate := info.DateText
	if uploadDate == "" {
		uploadDate = info.PublishDate
	}

	return &models.VideoRecord{
		ID:              info.ID,
		Title:           info.Title,
		Description:     info.ShortDescription,
		Thumbnail:       info.FirstThumbnail(),
		ChannelName:     info.Author,
		ChannelID:       info.ChannelID,
		ChannelURL:      youtube.ChannelURL(info.ChannelID),
		ViewCount:       info.ViewCount,
		LikeCount:       info.LikeCount,
		CommentCount:    info.CommentCount,
		UploadDate:      uploadDate,
		UploadedAt:      parseUploadDate(info, now),
		DurationSeconds: info.LengthSeconds,
		Tags:            info.Keywords,
		Category:        info.Category,
		Source:          source,
	}
}

type Scrape struct {
	scraper *scrape.Scraper
}

func NewScrape(scraper *scrape.Scraper) *Scrape {
	return &Scrape{scraper: scraper}
}

func (s *Scrape) Name() string { return scrape.SourceName }

func (s *Scrape) FetchMetadata(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	return s.scraper.Video(ctx, videoID)
}
