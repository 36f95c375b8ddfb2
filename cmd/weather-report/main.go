package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-report/internal/client"
	"github.com/kjstillabower/weather-report/internal/config"
	"github.com/kjstillabower/weather-report/internal/observability"
	"github.com/kjstillabower/weather-report/internal/prompt"
	"github.com/kjstillabower/weather-report/internal/report"
	"github.com/kjstillabower/weather-report/internal/service"
)

const flushTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	if cfg.WeatherAPIKey == "" {
		logger.Warn("WEATHER_API_KEY not set; OpenWeather will reject requests")
	}

	shutdownTracer, err := observability.InitTracer(observability.TracingConfig{
		Enabled:        cfg.TracingEnabled,
		ZipkinURL:      cfg.ZipkinURL,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: "0.1.0",
	})
	if err != nil {
		logger.Fatal("tracing", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	ctx = observability.WithRunID(ctx, runID)
	runErr := run(ctx, cfg, logger, os.Stdin, os.Stdout)
	stop()

	category := client.CategorizeError(runErr)
	observability.RecordLookup(runErr, string(category))
	if runErr != nil {
		logger.Error("weather report failed", zap.String("category", string(category)), zap.Error(runErr))
	}

	flushers := []func(context.Context) error{shutdownTracer}
	if cfg.PushgatewayURL != "" {
		flushers = append(flushers, func(context.Context) error {
			return observability.PushMetrics(cfg.PushgatewayURL, runID, cfg.PushTimeout)
		})
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	if err := observability.FlushTelemetry(flushCtx, logger, flushers...); err != nil {
		logger.Warn("telemetry flush", zap.Error(err))
	}
	cancel()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}

// run collects one location, looks it up, and prints the report to out.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, in io.Reader, out io.Writer) error {
	geocoder, err := client.NewOpenWeatherGeocoder(cfg.WeatherAPIKey, cfg.GeocodingAPIURL, cfg.CountryCode, cfg.GeocodingAPITimeout, logger)
	if err != nil {
		return fmt.Errorf("geocoding client: %w", err)
	}
	weatherClient, err := client.NewOpenWeatherClient(cfg.WeatherAPIKey, cfg.WeatherAPIURL, cfg.WeatherAPITimeout, logger)
	if err != nil {
		return fmt.Errorf("weather client: %w", err)
	}
	svc := service.NewReportService(geocoder, weatherClient, logger)

	query, err := prompt.NewCollector(in, out, cfg.LocationMaxLength).Collect(ctx)
	if err != nil {
		return err
	}
	logger.Info("looking up weather", zap.String("city", query.CityName), zap.String("state", query.StateCode))

	rep, err := svc.Lookup(ctx, query)
	if err != nil {
		return err
	}
	return report.NewReporter(out).Render(rep)
}
