package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nijaru/yt-research/config"
	"github.com/nijaru/yt-research/handlers/api"
	"github.com/nijaru/yt-research/logger"
	"github.com/nijaru/yt-research/models"
	"github.com/nijaru/yt-research/validation"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "yt-research",
		Short:         "YouTube metadata and transcript extraction for competitor research",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newExtractCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctxOrBackground(ctx), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize services")
		return err
	}
	defer a.Close(log)

	server, err := api.NewServer(cfg,
		api.WithLogger(log),
		api.WithServices(a.extract, a.history),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.WithError(err).Error("Server error")
			return err
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown error")
		return err
	}
	return nil
}

type extractFlags struct {
	extractType string
	url         string
	urls        []string

	title       bool
	description bool
	thumbnail   bool
	transcript  bool
	metadata    bool
}

func newExtractCmd() *cobra.Command {
	var f extractFlags

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Run one extraction and print the JSON result",
		Example: `  yt-research extract --url https://youtu.be/dQw4w9WgXcQ
  yt-research extract --type channel_list --url https://www.youtube.com/@veritasium
  yt-research extract --type bulk_analyze --urls https://youtu.be/a,https://youtu.be/b --transcript=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.extractType, "type", string(models.ExtractVideo), "video, bulk_analyze or channel_list")
	flags.StringVar(&f.url, "url", "", "video or channel URL")
	flags.StringSliceVar(&f.urls, "urls", nil, "video URLs for bulk_analyze")
	flags.BoolVar(&f.title, "title", true, "include the title")
	flags.BoolVar(&f.description, "description", true, "include the description")
	flags.BoolVar(&f.thumbnail, "thumbnail", true, "include the thumbnail")
	flags.BoolVar(&f.transcript, "transcript", true, "include the transcript")
	flags.BoolVar(&f.metadata, "metadata", true, "include extended metadata")

	return cmd
}

// options only sets the flags the user passed, so unset ones keep the
// include-by-default behaviour.
func (f extractFlags) options(cmd *cobra.Command) models.ExtractionOptions {
	var opts models.ExtractionOptions
	set := func(name string, v bool, dst **bool) {
		if cmd.Flags().Changed(name) {
			b := v
			*dst = &b
		}
	}
	set("title", f.title, &opts.Title)
	set("description", f.description, &opts.Description)
	set("thumbnail", f.thumbnail, &opts.Thumbnail)
	set("transcript", f.transcript, &opts.Transcript)
	set("metadata", f.metadata, &opts.Metadata)
	return opts
}

func runExtract(cmd *cobra.Command, f extractFlags) error {
	cfg := config.FromEnv()

	log := logrus.New()
	log.SetOutput(cmd.ErrOrStderr())
	log.SetLevel(logrus.WarnLevel)

	req := models.ExtractRequest{
		Type:    models.ExtractType(f.extractType),
		URL:     f.url,
		URLs:    f.urls,
		Options: f.options(cmd),
	}
	if err := validation.NewValidator(cfg).ValidateExtractRequest(&req); err != nil {
		return err
	}

	ctx := ctxOrBackground(cmd.Context())
	svc, err := newExtractService(ctx, cfg, log)
	if err != nil {
		return err
	}

	var result interface{}
	switch req.Type {
	case models.ExtractVideo:
		result, err = svc.ExtractVideo(ctx, req.URL, req.Options)
	case models.ExtractBulkAnalyze:
		result, err = svc.AnalyzeMany(ctx, req.URLs, req.Options)
	case models.ExtractChannelList:
		result, err = svc.ListChannel(ctx, req.URL)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
