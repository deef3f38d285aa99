package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/ridgelinegeo/snowbelt-pipeline/internal/adapter/http"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/config"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/domain"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/frame"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/layer"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/observability"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/pipeline"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/sink/geojsonsink"
	"github.com/ridgelinegeo/snowbelt-pipeline/internal/sink/kafkasink"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := layer.NewFileLoader(
		cfg.DEMPath, domain.ReferenceFrame{EPSG: cfg.DEMEPSG},
		cfg.StationsPath, cfg.CitiesPath, cfg.CountiesPath,
		domain.ReferenceFrame{EPSG: cfg.VectorEPSG},
		logger,
	)

	sinks := []pipeline.ResultSink{geojsonsink.New(cfg.OutputDir, logger)}
	var kafkaWriter *kafkasink.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkasink.NewWriter(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	params := pipeline.Params{
		WorkFrame:          domain.ReferenceFrame{EPSG: cfg.WorkEPSG},
		WarpCellMeters:     cfg.WarpCellMeters,
		MinElevationMeters: cfg.MinElevationMeters,
		MinDurationDays:    cfg.MinDurationDays,
		BufferRadiusMeters: cfg.BufferRadiusMeters,
		SampleWorkers:      cfg.SampleWorkers,
	}

	p := pipeline.New(loader, frame.NewReprojector(), sinks, params, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *httpadapter.Server
	if cfg.HTTPEnabled {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	_, runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("analysis failed", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if srv != nil {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
