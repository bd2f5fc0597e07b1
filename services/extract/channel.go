package extract

import (
	"context"
	"strings"

	"github.com/nijaru/yt-research/errors"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/youtube"
	"github.com/nijaru/yt-research/youtube/dataapi"
	"github.com/nijaru/yt-research/youtube/innertube"
	"github.com/nijaru/yt-research/youtube/scrape"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	msgNoAPIKey        = "YouTube API key required for channel fetching. Add YOUTUBE_API_KEY to your environment"
	msgUnresolvable    = "Could not resolve channel URL. Please use a direct channel URL (youtube.com/channel/UC...)"
	msgNoChannelID     = "Could not extract channel ID from URL"
	msgChannelFetchErr = "Failed to fetch channel videos"
	msgResolveAborted  = "Channel resolution cancelled"
)

func (s *service) ListChannel(ctx context.Context, url string) (*models.ChannelListing, error) {
	const op = "ExtractService.ListChannel"
	logger := s.logger.WithFields(logrus.Fields{
		"operation": op,
		"url":       url,
	})

	if s.uploads == nil {
		return nil, errors.InvalidInput(op, dataapi.ErrNoAPIKey, msgNoAPIKey)
	}

	channelID, err := s.resolveChannelID(ctx, url, logger)
	if err != nil {
		return nil, err
	}
	logger = logger.WithField("channel_id", channelID)

	listing, err := s.listUploads(ctx, channelID, logger)
	if err != nil {
		logger.WithError(err).Error("Channel listing failed")
		return nil, errors.Internal(op, err, msgChannelFetchErr)
	}

	logger.WithFields(logrus.Fields{
		"videos":    listing.Meta.TotalVideos,
		"pages":     listing.Meta.Pages,
		"truncated": listing.Meta.Truncated,
	}).Info("Channel listed")
	return listing, nil
}

// resolveChannelID accepts direct channel URLs as-is. Anything else is
// resolved upstream once per URL; concurrent callers share the lookup.
func (s *service) resolveChannelID(ctx context.Context, url string, logger *logrus.Entry) (string, error) {
	const op = "ExtractService.resolveChannelID"

	if id, ok := youtube.ChannelIDFromURL(url); ok {
		return id, nil
	}
	if id, ok := s.resolved.Get(url); ok {
		return id, nil
	}

	// The lookup outlives any single caller so one cancelled request does
	// not fail the others waiting on it.
	ch := s.group.DoChan(url, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.config.ResolveTimeout)
		defer cancel()

		id, err := s.lookupChannelID(lookupCtx, url, logger)
		if err == nil && strings.HasPrefix(id, "UC") {
			s.resolved.Add(url, id)
		}
		return id, err
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return "", errors.Internal(op, ctx.Err(), msgResolveAborted)
	case res = <-ch:
	}

	if err := res.Err; err != nil {
		if pkgerrors.Is(err, innertube.ErrNotResolved) || pkgerrors.Is(err, scrape.ErrNoChannelID) {
			return "", errors.InvalidInput(op, err, msgNoChannelID)
		}
		return "", errors.InvalidInput(op, err, msgUnresolvable)
	}

	id := res.Val.(string)
	if !strings.HasPrefix(id, "UC") {
		return "", errors.InvalidInput(op, nil, msgNoChannelID)
	}
	return id, nil
}

func (s *service) lookupChannelID(ctx context.Context, url string, logger *logrus.Entry) (string, error) {
	id, err := s.client.ResolveURL(ctx, url)
	if err == nil && id != "" {
		return id, nil
	}
	if err == nil {
		err = innertube.ErrNotResolved
	}
	if s.pages == nil {
		return "", err
	}

	logger.WithError(err).Debug("URL resolution failed, reading channel page")
	id, pageErr := s.pages.ChannelID(ctx, url)
	if pageErr != nil {
		return "", pageErr
	}
	return id, nil
}

// listUploads pages through the channel's uploads playlist, then fetches
// details in batches and drops short-form videos.
func (s *service) listUploads(ctx context.Context, channelID string, logger *logrus.Entry) (*models.ChannelListing, error) {
	playlistID := youtube.UploadsPlaylistID(channelID)

	var (
		entries   []dataapi.PlaylistEntry
		token     string
		pages     int
		truncated bool
		seen      = make(map[string]struct{})
	)
	for {
		page, err := s.uploads.PlaylistPage(ctx, playlistID, token)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "playlist page %d", pages+1)
		}
		pages++
		entries = append(entries, page.Entries...)

		next := page.NextPageToken
		if next == "" {
			break
		}
		if _, dup := seen[next]; dup {
			logger.WithField("page_token", next).Warn("Page token repeated, stopping pagination")
			truncated = true
			break
		}
		if pages >= s.config.MaxPages {
			logger.WithField("max_pages", s.config.MaxPages).Warn("Page limit reached")
			truncated = true
			break
		}
		seen[next] = struct{}{}
		token = next

		if err := s.sleep(ctx, s.config.PageDelay); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.VideoID != "" {
			ids = append(ids, e.VideoID)
		}
	}

	details := make(map[string]dataapi.VideoDetail, len(ids))
	for start := 0; start < len(ids); start += s.config.BatchSize {
		end := min(start+s.config.BatchSize, len(ids))

		batch, err := s.uploads.VideoDetails(ctx, ids[start:end])
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"batch_start": start,
				"batch_size":  end - start,
			}).Warn("Video details batch failed, skipping")
		}
		for id, d := range batch {
			details[id] = d
		}

		if end < len(ids) {
			if err := s.sleep(ctx, s.config.PageDelay); err != nil {
				return nil, err
			}
		}
	}

	listing := &models.ChannelListing{
		Videos: make([]models.ChannelVideoSummary, 0, len(ids)),
		Meta: models.ChannelListingMeta{
			ChannelID: channelID,
			Pages:     pages,
			Truncated: truncated,
		},
	}
	for _, e := range entries {
		if e.VideoID == "" {
			continue
		}
		d, ok := details[e.VideoID]
		if !ok {
			listing.Meta.SkippedMissingDetails++
			continue
		}
		if d.DurationSeconds < s.config.ShortFormSeconds {
			continue
		}
		listing.Videos = append(listing.Videos, models.ChannelVideoSummary{
			ID:          e.VideoID,
			Title:       orDefault(e.Title, untitled),
			Thumbnail:   e.Thumbnail,
			URL:         youtube.WatchURL(e.VideoID),
			Views:       orDefault(d.Views, "0"),
			PublishedAt: orDefault(e.PublishedAt, unknown),
		})
	}
	listing.Meta.TotalVideos = len(listing.Videos)

	return listing, nil
}
