package extract

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/nijaru/yt-research/sources"
)

const (
	noTranscriptVideo = "No transcript available for this video."
	noTranscriptBulk  = "No transcript available."
	unknownChannel    = "Unknown Channel"
	untitledVideo     = "Untitled Video"
	untitled          = "Untitled"
	unknown           = "Unknown"
	analyzeFailed     = "Failed to analyze video"
)

type service struct {
	sources []sources.MetadataSource
	client  VideoClient
	uploads UploadsLister
	pages   ChannelPageReader
	config  Config
	logger  *logrus.Logger

	resolved *lru.Cache[string, string]
	group    singleflight.Group

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type Option func(*service)

func WithLogger(logger *logrus.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithChannelPages adds a page scraper as a second way to resolve channel
// handles.
func WithChannelPages(pages ChannelPageReader) Option {
	return func(s *service) {
		s.pages = pages
	}
}

func withSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *service) {
		s.sleep = fn
	}
}

func withClock(fn func() time.Time) Option {
	return func(s *service) {
		s.now = fn
	}
}

// NewService wires the extractor. chain is tried in order for single-video
// metadata. uploads may be nil when no API key is configured, in which case
// channel listing is refused.
func NewService(
	chain []sources.MetadataSource,
	client VideoClient,
	uploads UploadsLister,
	config Config,
	opts ...Option,
) (Service, error) {
	defaults := DefaultConfig()
	if config.MaxPages <= 0 {
		config.MaxPages = defaults.MaxPages
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaults.BatchSize
	}
	if config.BulkMaxURLs <= 0 {
		config.BulkMaxURLs = defaults.BulkMaxURLs
	}
	if config.ResolveCacheSize <= 0 {
		config.ResolveCacheSize = defaults.ResolveCacheSize
	}
	if config.ResolveTimeout <= 0 {
		config.ResolveTimeout = defaults.ResolveTimeout
	}

	resolved, err := lru.New[string, string](config.ResolveCacheSize)
	if err != nil {
		return nil, err
	}

	s := &service{
		sources:  chain,
		client:   client,
		uploads:  uploads,
		config:   config,
		logger:   logrus.StandardLogger(),
		resolved: resolved,
		sleep:    sleepContext,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
