// Command seismic reads a WEED event file, counts earthquakes per year at or
// above each integer magnitude threshold, and renders one line chart per
// threshold.
//
// Usage:
//
//	seismic -f weedevent-new.txt        # write seismic_<T>.png to the working directory
//	seismic -f weedevent-new.txt -i     # show each chart in $SEISMIC_VIEWER instead
//	seismic -f weedevent-new.txt --serve  # also serve /histograms and /charts over HTTP
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/seismic-histogram/internal/adapter/file"
	httpadapter "github.com/couchcryptid/seismic-histogram/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/seismic-histogram/internal/adapter/kafka"
	"github.com/couchcryptid/seismic-histogram/internal/config"
	"github.com/couchcryptid/seismic-histogram/internal/observability"
	"github.com/couchcryptid/seismic-histogram/internal/pipeline"
	"github.com/couchcryptid/seismic-histogram/internal/render"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	if err := run(cfg, logger, metrics); err != nil {
		logger.Error("seismic sweep failed", "file", cfg.InputPath, "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	size := render.SizeInches(cfg.PlotWidth, cfg.PlotHeight)
	renderer, err := newRenderer(cfg, size, logger)
	if err != nil {
		return err
	}

	// Report publishing is feature-flagged via KAFKA_BROKERS.
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("report publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	}

	source := file.NewSource(cfg.InputPath, logger)
	p := pipeline.New(source, renderer, publisher, logger, metrics, cfg.PublishRetries)

	if !cfg.Serve {
		_, err := p.Run(ctx)
		return err
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, size, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if _, err := p.Run(ctx); err != nil {
		shutdown(cfg, srv, logger)
		return err
	}

	<-ctx.Done()
	logger.Info("shutting down")
	shutdown(cfg, srv, logger)
	logger.Info("shutdown complete")
	return nil
}

func newRenderer(cfg *config.Config, size render.Size, logger *slog.Logger) (pipeline.Renderer, error) {
	if cfg.Interactive {
		viewer, err := render.NewViewerRenderer(cfg.Viewer, size, logger)
		if err != nil {
			return nil, err
		}
		return viewer, nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, err
	}
	return render.NewFileRenderer(cfg.OutputDir, size, logger), nil
}

func shutdown(cfg *config.Config, srv *httpadapter.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
}
