// Command forecast builds the weekly demand forecast once, writes it to disk,
// optionally publishes it to Kafka, and prints a summary. With HTTP_ADDR set it
// keeps serving the report and metrics until interrupted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/demand-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/demand-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/demand-forecast-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/demand-forecast-service/internal/adapter/report"
	"github.com/couchcryptid/demand-forecast-service/internal/adapter/scrape"
	"github.com/couchcryptid/demand-forecast-service/internal/config"
	"github.com/couchcryptid/demand-forecast-service/internal/domain"
	"github.com/couchcryptid/demand-forecast-service/internal/observability"
	"github.com/couchcryptid/demand-forecast-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// forecaster builds the report and answers for the latest one.
type forecaster interface {
	Build(ctx context.Context) (domain.ForecastReport, error)
	httpadapter.ReportProvider
	sharedobs.ReadinessChecker
}

// publisher delivers a finished report somewhere.
type publisher interface {
	Publish(ctx context.Context, r domain.ForecastReport) error
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}

	logger := observability.NewLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat).With("run_id", uuid.NewString())
	slog.SetDefault(logger)
	metrics := observability.NewMetrics()
	defer writeTextfile(cfg, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	weather := openmeteo.NewClient(cfg.WeatherBaseURL, cfg.Latitude, cfg.Longitude, cfg.Timezone, cfg.WeatherTimeout, metrics, logger)
	fetcher := scrape.NewFetcher(scrape.FetcherConfig{
		Timeout:     cfg.ScrapeTimeout,
		MaxAttempts: cfg.ScrapeMaxAttempts,
		RetryDelay:  cfg.ScrapeRetryDelay,
	}, clock, metrics, logger)
	collector := pipeline.NewCollector(logger, metrics,
		pipeline.NewRecurringSource(metrics),
		scrape.NewCruiseSource(fetcher, cfg.CruiseURL, cfg.CruiseLimit, metrics, logger),
		scrape.NewConcertSource(fetcher, cfg.ConcertURL, cfg.ConcertVenue, cfg.ConcertLimit, metrics, logger),
	)
	assembler := pipeline.NewAssembler(weather, collector, clock, cfg.Location, cfg.Days, logger, metrics)

	return runWith(ctx, cfg, assembler, os.Stdout, metrics, logger)
}

// runWith builds one report, writes it to cfg.OutputPath, publishes it and
// prints the summary to stdout. It returns the process exit code; the output
// file is left untouched when the build fails.
func runWith(ctx context.Context, cfg *config.Config, f forecaster, stdout io.Writer, metrics *observability.Metrics, logger *slog.Logger) int {
	logger.Info("building forecast",
		"latitude", cfg.Latitude,
		"longitude", cfg.Longitude,
		"timezone", cfg.Timezone,
		"days", cfg.Days,
	)
	r, err := f.Build(ctx)
	if err != nil {
		logger.Error("could not generate forecast", "error", err)
		fmt.Fprintln(stdout, "FATAL ERROR: could not generate forecast")
		return 1
	}

	fileSink := report.NewFileSink(cfg.OutputPath, logger)
	if err := fileSink.Publish(ctx, r); err != nil {
		logger.Error("failed to write report", "error", err)
		return 1
	}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		publishOptional(ctx, writer, r, logger)
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	if err := report.WriteSummary(stdout, r); err != nil {
		logger.Warn("failed to print summary", "error", err)
	}

	if cfg.HTTPAddr != "" {
		serve(ctx, cfg, f, metrics, logger)
	}
	return 0
}

// publishOptional sends r to a best-effort sink. Failures are logged only.
func publishOptional(ctx context.Context, p publisher, r domain.ForecastReport, logger *slog.Logger) {
	if err := p.Publish(ctx, r); err != nil {
		logger.Error("optional publish failed", "error", err)
	}
}

func serve(ctx context.Context, cfg *config.Config, f forecaster, metrics *observability.Metrics, logger *slog.Logger) {
	srv := httpadapter.NewServer(cfg.HTTPAddr, f, f, metrics.Registry, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}

func writeTextfile(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) {
	if cfg.MetricsTextfile == "" {
		return
	}
	if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
		logger.Error("failed to write metrics textfile", "path", cfg.MetricsTextfile, "error", err)
	}
}
