package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrianliechti/studio/config"
	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/otel"
	"github.com/adrianliechti/studio/pkg/pipeline"
	"github.com/adrianliechti/studio/pkg/scheduler"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/studio"
	"github.com/adrianliechti/studio/server"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	addressFlag := flag.String("address", "", "server address")
	configFlag := flag.String("config", "config.yaml", "config file")

	flag.Parse()

	godotenv.Load()

	otel.EnableDebug = otel.EnableDebug || os.Getenv("DEBUG") != ""
	otel.EnableTelemetry = otel.EnableTelemetry || os.Getenv("TELEMETRY") != ""

	if err := run(*configFlag, *addressFlag); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(path, address string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdown, err := otel.Setup(ctx, "studio", version)

	if err != nil {
		return err
	}

	defer shutdown(context.WithoutCancel(ctx))

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		path = ""
	}

	cfg, err := config.Parse(path)

	if err != nil {
		return err
	}

	if address != "" {
		cfg.Address = address
	}

	files, err := storage.NewFileStore(cfg.Storage)

	if err != nil {
		return err
	}

	store := job.NewStore(
		job.WithSize(cfg.Jobs.Size),
		job.WithRetention(cfg.Jobs.Retention),
		job.WithEvictHandler(studio.PurgeArtifacts(files)),
	)

	extractor, err := cfg.Extractor("")

	if err != nil {
		return err
	}

	translator, err := cfg.Translator("")

	if err != nil {
		return fmt.Errorf("no translator configured: %w", err)
	}

	engine, err := pipeline.New(store, files, extractor, translator, cfg.Exporters(),
		pipeline.WithMetrics(otel.NewJobMetrics()),
	)

	if err != nil {
		return err
	}

	sched := scheduler.New(engine,
		scheduler.WithWorkers(cfg.Jobs.Workers),
		scheduler.WithQueueSize(cfg.Jobs.Queue),
	)

	app, err := studio.New(store, files, sched,
		studio.WithLanguages(cfg.Languages),
		studio.WithFormats(cfg.Formats()),
	)

	if err != nil {
		return err
	}

	srv, err := server.New(cfg.Address, app,
		server.WithAuthorizers(cfg.Authorizers...),
	)

	if err != nil {
		return err
	}

	slog.Info("studio started", "version", version, "storage", files.BasePath(), "workers", cfg.Jobs.Workers, "formats", cfg.Formats(), "languages", app.Languages())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return sched.Run(gctx)
	})

	g.Go(func() error {
		return srv.ListenAndServe(gctx)
	})

	return g.Wait()
}
