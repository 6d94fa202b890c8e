package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/khanCurtis/rustwav/internal/artwork"
	"github.com/khanCurtis/rustwav/internal/catalog"
	"github.com/khanCurtis/rustwav/internal/config"
	"github.com/khanCurtis/rustwav/internal/constants"
	"github.com/khanCurtis/rustwav/internal/dedup"
	"github.com/khanCurtis/rustwav/internal/domain"
	"github.com/khanCurtis/rustwav/internal/downloader"
	"github.com/khanCurtis/rustwav/internal/extract"
	"github.com/khanCurtis/rustwav/internal/httpclient"
	"github.com/khanCurtis/rustwav/internal/logger"
	"github.com/khanCurtis/rustwav/internal/source"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info("starting rustwav",
		"library", cfg.LibraryDir,
		"format", cfg.Format,
		"quality", cfg.Quality,
		"concurrency", cfg.Concurrency,
	)
	if cfg.Portable {
		log.Info("portable profile active: flat layout, ASCII names, reduced cover art")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := dedup.NewSQLiteDB(cfg.DBPath)
	if err != nil {
		log.Error("failed to open dedup cache", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	client := httpclient.NewClient(&http.Client{Timeout: constants.DefaultHTTPTimeout}, constants.MinRequestInterval)

	orch := downloader.New(downloader.Params{
		Catalog:     catalog.NewProvider(cfg.CatalogURL, client),
		Source:      source.NewYTDLP(),
		Extractor:   extract.New(),
		Store:       db,
		Artwork:     artwork.NewFetcher(client),
		ArtSizer:    artwork.Fit,
		Profile:     cfg.Profile(),
		LibraryDir:  cfg.LibraryDir,
		Concurrency: cfg.Concurrency,
		MaxAttempts: cfg.MaxAttempts,
		Logger:      log,
		Events:      eventSink(log.WithComponent("pipeline")),
	})

	report, err := orch.Run(ctx, cfg.Link)
	if err != nil {
		log.Error("run failed", "link", cfg.Link, "error", err)
		os.Exit(1)
	}

	log.Info("run complete",
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"skipped", report.Skipped,
	)
	for trackID, cause := range report.Errors {
		log.Error("track failed", "track_id", trackID, "error", cause)
	}
}

// eventSink translates pipeline events into log lines.
func eventSink(log *logger.Logger) func(domain.Event) {
	return func(ev domain.Event) {
		switch ev.Kind {
		case domain.EventRunStarted:
			log.Info("run started", "collection", ev.Track)
		case domain.EventJobStarted:
			log.Info("job started", "job_id", ev.JobID, "track_id", ev.Track, "seq", ev.Seq)
		case domain.EventJobProgress:
			log.Debug("job progress", "job_id", ev.JobID, "track_id", ev.Track, "state", ev.State)
		case domain.EventLogLine:
			log.Debug("extractor", "job_id", ev.JobID, "line", ev.Line)
		case domain.EventJobCompleted:
			log.Info("job completed", "job_id", ev.JobID, "track_id", ev.Track, "path", ev.Path)
		case domain.EventJobSkipped:
			log.Info("job skipped", "track_id", ev.Track, "seq", ev.Seq, "path", ev.Path)
		case domain.EventJobFailed:
			log.Warn("job failed", "job_id", ev.JobID, "track_id", ev.Track, "error", ev.Err)
		case domain.EventRunFinished:
			log.Info("run finished")
		}
	}
}
