package extract

import (
	"context"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/ptr"
	"github.com/nijaru/yt-research/youtube"
	"github.com/nijaru/yt-research/youtube/innertube"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var errNoMetadata = pkgerrors.New("no source returned metadata")

func (s *service) ExtractVideo(ctx context.Context, url string, opts models.ExtractionOptions) (*models.VideoResult, error) {
	const op = "ExtractService.ExtractVideo"
	logger := s.logger.WithFields(logrus.Fields{
		"operation": op,
		"url":       url,
	})

	videoID, err := youtube.VideoID(url)
	if err != nil {
		return nil, errors.InvalidInput(op, err, "Invalid YouTube video URL")
	}

	record, err := s.fetchMetadata(ctx, videoID, logger)
	if err != nil {
		logger.WithError(err).Error("Metadata sources exhausted")
		return nil, errors.Internal(op, err, "Failed to fetch video metadata")
	}

	var transcript string
	if opts.IncludeTranscript() {
		transcript = s.videoTranscript(ctx, videoID, logger)
	}

	logger.WithField("source", record.Source).Info("Video extracted")
	return videoResult(url, record, transcript, opts), nil
}

// fetchMetadata walks the sources in order. The first record with a
// non-empty title wins; errors and empty records fall through.
func (s *service) fetchMetadata(ctx context.Context, videoID string, logger *logrus.Entry) (*models.VideoRecord, error) {
	lastErr := errNoMetadata
	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := src.FetchMetadata(ctx, videoID)
		if err != nil {
			logger.WithError(err).WithField("source", src.Name()).Warn("Metadata source failed")
			lastErr = pkgerrors.Wrap(err, src.Name())
			continue
		}
		if !record.HasTitle() {
			logger.WithField("source", src.Name()).Warn("Metadata source returned no title")
			continue
		}

		if record.Source == "" {
			record.Source = src.Name()
		}
		return record, nil
	}
	return nil, lastErr
}

// videoTranscript always goes through the semi-official client, whichever
// source produced the metadata.
func (s *service) videoTranscript(ctx context.Context, videoID string, logger *logrus.Entry) string {
	transcript, err := s.client.TranscriptByID(ctx, videoID)
	switch {
	case err == nil && transcript != "":
		return transcript
	case err == nil, pkgerrors.Is(err, innertube.ErrNoTranscript):
		logger.Debug("No transcript for video")
	default:
		logger.WithError(err).Warn("Transcript fetch failed")
	}
	return noTranscriptVideo
}

func videoResult(url string, record *models.VideoRecord, transcript string, opts models.ExtractionOptions) *models.VideoResult {
	result := &models.VideoResult{
		URL:         url,
		Source:      record.Source,
		Channel:     record.ChannelName,
		ChannelURL:  record.ChannelURL,
		Views:       record.ViewCount,
		PublishedAt: orDefault(record.UploadDate, unknown),
	}

	if opts.IncludeTitle() {
		result.Title = ptr.String(record.Title)
	}
	if opts.IncludeDescription() {
		result.Description = ptr.String(record.Description)
	}
	if opts.IncludeThumbnail() {
		result.Thumbnail = ptr.String(record.Thumbnail)
	}
	if opts.IncludeTranscript() {
		result.Transcript = ptr.String(orDefault(transcript, noTranscriptVideo))
	}
	if opts.IncludeMetadata() {
		result.DurationSeconds = ptr.Int(record.DurationSeconds)
		result.Likes = ptr.Int64(record.LikeCount)
		result.Tags = record.Tags
		result.Category = record.Category
	}

	return result
}
