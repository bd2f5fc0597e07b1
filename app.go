package main

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"

	"github.com/nijaru/yt-research/config"
	"github.com/nijaru/yt-research/repository/sqlite"
	"github.com/nijaru/yt-research/services/extract"
	"github.com/nijaru/yt-research/services/history"
	"github.com/nijaru/yt-research/sources"
	"github.com/nijaru/yt-research/storage"
	"github.com/nijaru/yt-research/youtube/dataapi"
	"github.com/nijaru/yt-research/youtube/innertube"
	"github.com/nijaru/yt-research/youtube/scrape"
)

// app holds the wired services and whatever must be closed on exit.
type app struct {
	extract extract.Service
	history history.Service
	closers []func() error
}

func (a *app) Close(logger *logrus.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.WithError(err).Warn("Shutdown error")
		}
	}
}

func newExtractService(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (extract.Service, error) {
	httpClient := &http.Client{Timeout: cfg.YouTube.UpstreamTimeout}

	semi := innertube.New(
		innertube.WithHTTPClient(httpClient),
		innertube.WithClientVersion(cfg.YouTube.InnerTubeClientVersion),
		innertube.WithCaptionFallback(innertube.NewCaptions(httpClient, "en")),
	)
	scraper := scrape.New(scrape.WithHTTPClient(httpClient))

	var (
		official *dataapi.Client
		uploads  extract.UploadsLister
	)
	if cfg.YouTube.APIKey != "" {
		client, err := dataapi.NewClient(ctx, cfg.YouTube.APIKey, option.WithUserAgent("yt-research/"+cfg.Version))
		if err != nil {
			return nil, err
		}
		official = client
		uploads = client
	} else {
		logger.Warn("YOUTUBE_API_KEY not set: official source and channel listing disabled")
	}

	return extract.NewService(metadataChain(official, semi, scraper), semi, uploads, extract.Config{
		PageDelay:        cfg.YouTube.ChannelPageDelay,
		MaxPages:         cfg.YouTube.ChannelMaxPages,
		BatchSize:        cfg.YouTube.ChannelBatchSize,
		ShortFormSeconds: cfg.YouTube.ShortFormSeconds,
		BulkMaxURLs:      cfg.YouTube.BulkMaxURLs,
		ResolveCacheSize: cfg.YouTube.ResolveCacheSize,
	},
		extract.WithLogger(logger),
		extract.WithChannelPages(scraper),
	)
}

// metadataChain orders the single-video sources. The official API is only
// tried when a key is configured.
func metadataChain(official *dataapi.Client, semi *innertube.Client, scraper *scrape.Scraper) []sources.MetadataSource {
	var chain []sources.MetadataSource
	if official != nil {
		chain = append(chain, sources.NewOfficial(official))
	}
	return append(chain, sources.NewInnerTube(semi), sources.NewScrape(scraper))
}

func newApp(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*app, error) {
	a := &app{}

	extractSvc, err := newExtractService(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.extract = extractSvc

	dbConfig := sqlite.DefaultDBConfig()
	dbConfig.MaxConnections = cfg.Database.MaxConnections
	dbConfig.MaxIdleConnections = cfg.Database.MaxIdleConnections
	dbConfig.ConnMaxLifetime = cfg.Database.ConnMaxLifetime

	db, err := sqlite.Open(ctx, cfg.Database.Path, dbConfig)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db.Close)

	var archiver history.Archiver
	if cfg.Spaces.Enabled() {
		spaces, err := storage.NewSpacesClient(ctx, storage.SpacesConfig{
			AccessKey: cfg.Spaces.AccessKey,
			SecretKey: cfg.Spaces.SecretKey,
			Region:    cfg.Spaces.Region,
			Endpoint:  cfg.Spaces.Endpoint,
			Bucket:    cfg.Spaces.Bucket,
		})
		if err != nil {
			a.Close(logger)
			return nil, err
		}
		archiver = spaces
		logger.WithField("bucket", cfg.Spaces.Bucket).Info("Archiving saved analyses")
	}

	a.history = history.NewService(sqlite.NewRepository(db), archiver, logger)
	return a, nil
}
