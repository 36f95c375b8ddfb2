package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-report/internal/models"
)

// GeocodingClient resolves a city/state query to candidate coordinates.
type GeocodingClient interface {
	Geocode(ctx context.Context, query models.LocationQuery) ([]models.GeocodeCandidate, error)
}

// OpenWeatherGeocoder calls OpenWeather's direct geocoding API.
type OpenWeatherGeocoder struct {
	api         *apiClient
	countryCode string
	limit       int
	logger      *zap.Logger
}

// NewOpenWeatherGeocoder creates a geocoder that restricts matches to countryCode and
// asks for at most one candidate. An empty apiKey is sent as-is; the upstream rejects it.
func NewOpenWeatherGeocoder(apiKey, apiURL, countryCode string, timeout time.Duration, logger *zap.Logger) (*OpenWeatherGeocoder, error) {
	api, err := newAPIClient(APIGeocoding, apiKey, apiURL, timeout)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenWeatherGeocoder{
		api:         api,
		countryCode: countryCode,
		limit:       1,
		logger:      logger,
	}, nil
}

type geocodingCandidate struct {
	Name    string   `json:"name"`
	State   string   `json:"state"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Geocode returns the candidates in upstream order. An empty slice is not an error here;
// choosing among candidates is the caller's policy.
func (g *OpenWeatherGeocoder) Geocode(ctx context.Context, query models.LocationQuery) ([]models.GeocodeCandidate, error) {
	params := url.Values{}
	params.Set("q", g.queryString(query))
	params.Set("limit", fmt.Sprint(g.limit))

	var raw []geocodingCandidate
	if err := g.api.getJSON(ctx, params, &raw); err != nil {
		return nil, fmt.Errorf("geocode %s, %s: %w", query.CityName, query.StateCode, err)
	}

	out := make([]models.GeocodeCandidate, 0, len(raw))
	for i, c := range raw {
		if c.Lat == nil || c.Lon == nil {
			return nil, fmt.Errorf("geocode %s, %s: candidate %d: %w: lat/lon", query.CityName, query.StateCode, i, ErrMissingField)
		}
		out = append(out, models.GeocodeCandidate{
			Name:    c.Name,
			State:   c.State,
			Country: c.Country,
			Lat:     *c.Lat,
			Lon:     *c.Lon,
		})
	}
	g.logger.Debug("geocoding response",
		zap.String("city", query.CityName),
		zap.String("state", query.StateCode),
		zap.Int("candidates", len(out)),
	)
	return out, nil
}

// queryString builds OpenWeather's "{city},{state},{country}" q parameter.
func (g *OpenWeatherGeocoder) queryString(query models.LocationQuery) string {
	parts := []string{query.CityName, query.StateCode}
	if g.countryCode != "" {
		parts = append(parts, g.countryCode)
	}
	return strings.Join(parts, ",")
}
