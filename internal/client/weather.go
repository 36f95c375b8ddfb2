package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-report/internal/models"
)

// WeatherClient fetches current conditions for a coordinate.
type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, coords models.Coordinates) (models.WeatherData, error)
}

// OpenWeatherClient calls OpenWeather's current weather API. No units parameter is sent,
// so temperatures come back in Kelvin.
type OpenWeatherClient struct {
	api    *apiClient
	logger *zap.Logger
}

// NewOpenWeatherClient returns a client for the current-weather endpoint at apiURL.
func NewOpenWeatherClient(apiKey, apiURL string, timeout time.Duration, logger *zap.Logger) (*OpenWeatherClient, error) {
	api, err := newAPIClient(APIWeather, apiKey, apiURL, timeout)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenWeatherClient{api: api, logger: logger}, nil
}

type openWeatherResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Name string `json:"name"`
}

func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, coords models.Coordinates) (models.WeatherData, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))

	var apiResp openWeatherResponse
	if err := c.api.getJSON(ctx, params, &apiResp); err != nil {
		return models.WeatherData{}, fmt.Errorf("current weather at %v,%v: %w", coords.Lat, coords.Lon, err)
	}

	data, err := mapResponse(apiResp)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("current weather at %v,%v: %w", coords.Lat, coords.Lon, err)
	}
	c.logger.Debug("weather response",
		zap.Float64("lat", coords.Lat),
		zap.Float64("lon", coords.Lon),
		zap.String("station", apiResp.Name),
		zap.Float64("temp_kelvin", data.TemperatureKelvin),
	)
	return data, nil
}

// mapResponse requires main.temp, main.humidity and a first weather entry.
// The description falls back to the short condition name when empty.
func mapResponse(apiResp openWeatherResponse) (models.WeatherData, error) {
	if apiResp.Main == nil {
		return models.WeatherData{}, fmt.Errorf("%w: main", ErrMissingField)
	}
	if apiResp.Main.Temp == nil {
		return models.WeatherData{}, fmt.Errorf("%w: main.temp", ErrMissingField)
	}
	if apiResp.Main.Humidity == nil {
		return models.WeatherData{}, fmt.Errorf("%w: main.humidity", ErrMissingField)
	}
	if len(apiResp.Weather) == 0 {
		return models.WeatherData{}, fmt.Errorf("%w: weather[0]", ErrMissingField)
	}

	description := apiResp.Weather[0].Description
	if description == "" {
		description = apiResp.Weather[0].Main
	}
	if description == "" {
		return models.WeatherData{}, fmt.Errorf("%w: weather[0].description", ErrMissingField)
	}

	return models.WeatherData{
		TemperatureKelvin: *apiResp.Main.Temp,
		Humidity:          *apiResp.Main.Humidity,
		Description:       description,
	}, nil
}
