package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/kjstillabower/weather-report/internal/client"
	"github.com/kjstillabower/weather-report/internal/models"
	"github.com/kjstillabower/weather-report/internal/observability"
	"github.com/kjstillabower/weather-report/internal/units"
)

// ReportService chains geocoding and current weather into one Report.
type ReportService struct {
	geocoder client.GeocodingClient
	weather  client.WeatherClient
	logger   *zap.Logger
}

// NewReportService creates a ReportService. A nil logger disables logging.
func NewReportService(geocoder client.GeocodingClient, weather client.WeatherClient, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		geocoder: geocoder,
		weather:  weather,
		logger:   logger,
	}
}

// SelectCandidate applies the geocoding selection rule: the first candidate wins,
// and an empty list is ErrLocationNotFound.
func SelectCandidate(candidates []models.GeocodeCandidate) (models.GeocodeCandidate, error) {
	if len(candidates) == 0 {
		return models.GeocodeCandidate{}, fmt.Errorf("%w: no geocoding candidates", client.ErrLocationNotFound)
	}
	return candidates[0], nil
}

// Lookup geocodes the query, fetches weather for exactly the selected coordinates, and
// converts the temperature to Celsius. It fails on the first error; nothing is retried.
func (s *ReportService) Lookup(ctx context.Context, query models.LocationQuery) (models.Report, error) {
	ctx, span := observability.Tracer().Start(ctx, "weather.lookup")
	defer span.End()
	span.SetAttributes(
		attribute.String("city", query.CityName),
		attribute.String("state", query.StateCode),
	)

	start := time.Now()
	logger := s.logger.With(zap.String("city", query.CityName), zap.String("state", query.StateCode))

	report, err := s.lookup(ctx, logger, query)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return models.Report{}, err
	}

	logger.Debug("weather report ready",
		zap.Float64("temp_celsius", report.TemperatureCelsius),
		zap.Duration("duration", time.Since(start)),
	)
	return report, nil
}

func (s *ReportService) lookup(ctx context.Context, logger *zap.Logger, query models.LocationQuery) (models.Report, error) {
	candidates, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		return models.Report{}, err
	}
	candidate, err := SelectCandidate(candidates)
	if err != nil {
		observability.GeocodeEmptyResultsTotal.Inc()
		return models.Report{}, fmt.Errorf("geocode %s, %s: %w", query.CityName, query.StateCode, err)
	}
	coords := candidate.Coordinates()
	logger.Debug("location resolved",
		zap.String("match", candidate.Name),
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon),
		zap.Int("candidates", len(candidates)),
	)

	data, err := s.weather.GetCurrentWeather(ctx, coords)
	if err != nil {
		return models.Report{}, err
	}

	return models.Report{
		Query:              query,
		Coordinates:        coords,
		TemperatureCelsius: units.KelvinToCelsius(data.TemperatureKelvin),
		Humidity:           data.Humidity,
		Description:        data.Description,
	}, nil
}
