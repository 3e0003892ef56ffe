package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/agroclim/yield-etl/internal/adapter/csvio"
	httpadapter "github.com/agroclim/yield-etl/internal/adapter/http"
	kafkaadapter "github.com/agroclim/yield-etl/internal/adapter/kafka"
	"github.com/agroclim/yield-etl/internal/adapter/parquetio"
	"github.com/agroclim/yield-etl/internal/config"
	"github.com/agroclim/yield-etl/internal/observability"
	"github.com/agroclim/yield-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	climate := parquetio.NewClimateReader(cfg.ClimatePath, logger)
	yields := csvio.NewYieldReader(cfg.YieldPath, logger)
	transformer := pipeline.NewFeatureTransformer(cfg.Params, logger, metrics)
	loader := parquetio.NewGoldWriter(cfg.GoldDir, logger)

	// Feature publishing is flagged via KAFKA_ENABLED / KAFKA_BROKERS.
	var publisher pipeline.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		metrics.PublishEnabled.Set(1)
		logger.Info("feature publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaFeaturesTopic)
	} else {
		logger.Info("feature publishing disabled")
	}

	p := pipeline.New(climate, yields, transformer, loader, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The metrics/health endpoint is optional for a batch run; an empty addr
	// skips it entirely.
	var srv *httpadapter.Server
	if cfg.HTTPAddr != "" {
		srv = httpadapter.NewServer(cfg.HTTPAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	runErr := p.Run(ctx)
	if runErr != nil {
		logger.Error("pipeline error", "error", runErr)
	}

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		cancel()
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
