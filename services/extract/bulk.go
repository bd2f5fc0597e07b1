package extract

import (
	"context"
	"fmt"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/normalize"
	"github.com/nijaru/yt-research/ptr"
	"github.com/nijaru/yt-research/sources"
	"github.com/nijaru/yt-research/youtube"
	"github.com/sirupsen/logrus"
)

func (s *service) AnalyzeMany(ctx context.Context, urls []string, opts models.ExtractionOptions) ([]models.AnalyzedVideo, error) {
	const op = "ExtractService.AnalyzeMany"
	if len(urls) == 0 {
		return nil, errors.InvalidInput(op, nil, "URLs array is required for bulk_analyze")
	}
	if len(urls) > s.config.BulkMaxURLs {
		return nil, errors.InvalidInput(op, nil,
			fmt.Sprintf("At most %d URLs are allowed per bulk_analyze request", s.config.BulkMaxURLs))
	}

	logger := s.logger.WithFields(logrus.Fields{
		"operation": op,
		"count":     len(urls),
	})
	logger.Info("Starting bulk analysis")

	results := make([]models.AnalyzedVideo, 0, len(urls))
	failed := 0
	for _, url := range urls {
		item, err := s.analyzeOne(ctx, url, opts, logger)
		if err != nil {
			logger.WithError(err).WithField("url", url).Warn("Video analysis failed")
			results = append(results, models.AnalyzedVideo{URL: url, Error: analyzeFailed})
			failed++
			continue
		}
		results = append(results, *item)
	}

	logger.WithField("failed", failed).Info("Bulk analysis finished")
	return results, nil
}

func (s *service) analyzeOne(ctx context.Context, url string, opts models.ExtractionOptions, logger *logrus.Entry) (*models.AnalyzedVideo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	videoID, err := youtube.VideoID(url)
	if err != nil {
		return nil, err
	}

	info, err := s.client.Info(ctx, videoID)
	if err != nil {
		return nil, err
	}
	record := sources.RecordFromInfo(info, "innertube", s.now())

	meta := &models.AnalyzedMetadata{
		Channel: orDefault(record.ChannelName, unknownChannel),
		Title:   orDefault(record.Title, untitledVideo),
	}
	if record.ChannelURL != "" {
		meta.ChannelURL = ptr.String(record.ChannelURL)
	}
	if opts.IncludeThumbnail() {
		meta.Thumbnail = ptr.String(record.Thumbnail)
	}
	if opts.IncludeDescription() {
		meta.Description = ptr.String(record.Description)
	}

	item := &models.AnalyzedVideo{URL: url, Metadata: meta}

	if opts.IncludeMetadata() {
		meta.Views = ptr.Int64(record.ViewCount)
		meta.Likes = ptr.Int64(record.LikeCount)
		meta.UploadDate = ptr.String(orDefault(record.UploadDate, unknown))
		meta.Duration = ptr.String(normalize.FormatClock(record.DurationSeconds))
		meta.CommentCount = ptr.Int64(record.CommentCount)

		perf := normalize.Performance(record.ViewCount, record.LikeCount, record.CommentCount, record.UploadedAt, s.now())
		schedule := normalize.Schedule(record.UploadedAt)
		item.Performance = &perf
		item.PublishingSchedule = &schedule
		item.Tags = record.Tags
		item.Category = orDefault(record.Category, unknown)
	}

	if opts.IncludeTranscript() {
		transcript, err := s.client.Transcript(ctx, info)
		if err != nil {
			logger.WithError(err).WithField("video_id", videoID).Debug("No transcript for bulk item")
		}
		item.Transcript = ptr.String(orDefault(transcript, noTranscriptBulk))
	}

	return item, nil
}
