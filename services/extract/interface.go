package extract

import (
	"context"
	"time"

	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/youtube/dataapi"
	"github.com/nijaru/yt-research/youtube/innertube"
)

type Service interface {
	// ExtractVideo returns metadata and transcript for one video, walking the
	// metadata sources in priority order.
	ExtractVideo(ctx context.Context, url string, opts models.ExtractionOptions) (*models.VideoResult, error)

	// AnalyzeMany analyzes each URL in turn. A failing URL yields an error
	// entry in its slot; it never fails the batch.
	AnalyzeMany(ctx context.Context, urls []string, opts models.ExtractionOptions) ([]models.AnalyzedVideo, error)

	// ListChannel lists every long-form upload of a channel.
	ListChannel(ctx context.Context, url string) (*models.ChannelListing, error)
}

// VideoClient is the semi-official client: bulk analysis, transcripts and
// channel handle resolution all go through it.
type VideoClient interface {
	Info(ctx context.Context, videoID string) (*innertube.VideoInfo, error)
	Transcript(ctx context.Context, info *innertube.VideoInfo) (string, error)
	TranscriptByID(ctx context.Context, videoID string) (string, error)
	ResolveURL(ctx context.Context, url string) (string, error)
}

// UploadsLister pages through playlists and batches video details. Only the
// official API provides it.
type UploadsLister interface {
	PlaylistPage(ctx context.Context, playlistID, pageToken string) (*dataapi.PlaylistPage, error)
	VideoDetails(ctx context.Context, ids []string) (map[string]dataapi.VideoDetail, error)
}

// ChannelPageReader reads a channel id off a channel page. Used when URL
// resolution through the client fails.
type ChannelPageReader interface {
	ChannelID(ctx context.Context, url string) (string, error)
}

type Config struct {
	// PageDelay is slept between successive playlist pages and detail batches.
	PageDelay time.Duration `json:"page_delay"`

	// MaxPages bounds channel pagination; hitting it marks the listing truncated.
	MaxPages int `json:"max_pages"`

	BatchSize        int `json:"batch_size"`
	ShortFormSeconds int `json:"short_form_seconds"`
	BulkMaxURLs      int `json:"bulk_max_urls"`
	ResolveCacheSize int `json:"resolve_cache_size"`

	// ResolveTimeout bounds a shared handle lookup, which runs detached from
	// the request that started it.
	ResolveTimeout time.Duration `json:"resolve_timeout"`
}

func DefaultConfig() Config {
	return Config{
		PageDelay:        100 * time.Millisecond,
		MaxPages:         200,
		BatchSize:        dataapi.MaxResults,
		ShortFormSeconds: 60,
		BulkMaxURLs:      50,
		ResolveCacheSize: 1024,
		ResolveTimeout:   15 * time.Second,
	}
}
