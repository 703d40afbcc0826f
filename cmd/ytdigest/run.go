package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"ytdigest/config"
	"ytdigest/logging"
	"ytdigest/media"
	"ytdigest/pipeline"
	"ytdigest/report"
	"ytdigest/runner"
	"ytdigest/selector"
	"ytdigest/storage"
	"ytdigest/transcribe"
	"ytdigest/youtube"
)

func newRunCommand(cfg **config.Config) *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process all configured channels and write the digest report",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := *cfg
			if len(c.Channels) == 0 {
				return fmt.Errorf("no channels configured")
			}
			if reportPath != "" {
				c.ReportPath = reportPath
			}
			return runDigest(cmd.Context(), c)
		},
	}

	cmd.Flags().StringVar(&reportPath, "report", "", "Report output path (overrides config)")
	return cmd
}

func runDigest(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.LogLevel, cfg.LogFile)

	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	// The resolver cache is loaded once at start and persisted at end.
	cache, err := storage.OpenIDCache(cfg.CachePath)
	if err != nil {
		return fmt.Errorf("open id cache: %w", err)
	}
	defer cache.Close()

	lister, err := newLister(ctx, cfg)
	if err != nil {
		return err
	}

	run := &runner.Runner{
		Resolver: youtube.NewResolver(lister, cache),
		Selector: &selector.Selector{
			Lister:     lister,
			Window:     cfg.Window(),
			MaxEntries: cfg.MaxEntries,
		},
		Controller: &runner.Controller{
			Pipeline:   newPipeline(cfg),
			MaxRetries: cfg.MaxRetries,
			Pause:      cfg.RetryPause(),
			Log:        log,
		},
		WorkDir: cfg.WorkDir,
		Log:     log,
	}

	channels := make([]runner.ChannelSpec, 0, len(cfg.Channels))
	for _, ch := range cfg.Channels {
		channels = append(channels, runner.ChannelSpec{Name: ch.Name, Reference: ch.Reference})
	}

	now := time.Now()
	outcomes := run.Run(ctx, channels)

	if err := cache.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to persist id cache")
	}

	if err := report.Write(cfg.ReportPath, outcomes, now); err != nil {
		return err
	}
	log.Info().Str("path", cfg.ReportPath).Int("channels", len(outcomes)).Msg("report written")
	return nil
}

// newLister selects the listing backend: the Data API when a key is
// configured, yt-dlp otherwise. Both share a rate limiter.
func newLister(ctx context.Context, cfg *config.Config) (youtube.RecentLister, error) {
	var limiter *rate.Limiter
	if cfg.ListRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.ListRPS), 1)
	}

	if cfg.YouTubeAPIKey != "" {
		lister, err := youtube.NewAPILister(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			return nil, err
		}
		lister.Limiter = limiter
		return lister, nil
	}

	lister := youtube.NewYtdlpLister()
	lister.Path = cfg.YtdlpPath
	lister.Timeout = cfg.ListTimeout()
	lister.Limiter = limiter
	return lister, nil
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	downloader := media.NewDownloader()
	downloader.YtdlpPath = cfg.YtdlpPath
	downloader.Timeout = cfg.DownloadTimeout()

	ffmpeg := media.NewFFmpeg()
	ffmpeg.Path = cfg.FFmpegPath
	ffmpeg.Timeout = cfg.ProcessTimeout()

	whisper := transcribe.NewWhisperCLI(cfg.WhisperPath, cfg.WhisperModel)
	whisper.Language = cfg.Language
	whisper.Timeout = cfg.TranscribeTimeout()

	return &pipeline.Pipeline{
		Fetcher:        downloader,
		Processor:      ffmpeg,
		Transcriber:    whisper,
		SegmentSeconds: cfg.SegmentSeconds,
	}
}
