package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultGeocodingAPIURL = "https://api.openweathermap.org/geo/1.0/direct"
	DefaultWeatherAPIURL   = "https://api.openweathermap.org/data/2.5/weather"
	DefaultCountryCode     = "US"
	DefaultAPITimeout      = 10 * time.Second
	DefaultLocationMaxLen  = 100
	DefaultLogLevel        = "warn"
	DefaultZipkinURL       = "http://localhost:9411/api/v2/spans"
	DefaultServiceName     = "weather-report"
)

// Config holds the CLI configuration loaded from .env, YAML and environment.
type Config struct {
	// WeatherAPIKey may be empty; the upstream rejects the requests rather than Load.
	WeatherAPIKey string

	GeocodingAPIURL     string        `validate:"required,url"`
	GeocodingAPITimeout time.Duration `validate:"gt=0"`
	CountryCode         string        `validate:"omitempty,len=2,alpha"`

	WeatherAPIURL     string        `validate:"required,url"`
	WeatherAPITimeout time.Duration `validate:"gt=0"`

	LocationMaxLength int `validate:"gte=0"`

	LogLevel string `validate:"oneof=debug info warn error"`

	TracingEnabled bool
	ZipkinURL      string `validate:"omitempty,url"`
	ServiceName    string `validate:"required"`

	PushgatewayURL string        `validate:"omitempty,url"`
	PushTimeout    time.Duration `validate:"gt=0"`
}

type fileConfig struct {
	GeocodingAPI struct {
		URL         string `yaml:"url"`
		Timeout     string `yaml:"timeout"`
		CountryCode string `yaml:"country_code"`
	} `yaml:"geocoding_api"`

	WeatherAPI struct {
		URL     string `yaml:"url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"weather_api"`

	Input struct {
		LocationMaxLength *int `yaml:"location_max_length"`
	} `yaml:"input"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Tracing struct {
		Enabled     bool   `yaml:"enabled"`
		ZipkinURL   string `yaml:"zipkin_url"`
		ServiceName string `yaml:"service_name"`
	} `yaml:"tracing"`

	Metrics struct {
		PushgatewayURL string `yaml:"pushgateway_url"`
		PushTimeout    string `yaml:"push_timeout"`
	} `yaml:"metrics"`
}

type secretsFile struct {
	WeatherAPIKey string `yaml:"weather_api_key"`
}

// Load reads an optional .env, then config/{ENV_NAME}.yaml (default dev) and config/secrets.yaml
// relative to the working directory. Every file is optional; missing values take defaults.
// The API key comes from WEATHER_API_KEY, falling back to the secrets file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	env := os.Getenv("ENV_NAME")
	if env == "" {
		env = "dev"
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("config: get working directory: %w", err)
	}

	var fc fileConfig
	configPath := filepath.Join(cwd, "config", env+".yaml")
	if err := readYAML(configPath, &fc); err != nil {
		return nil, err
	}

	cfg := &Config{}

	cfg.WeatherAPIKey = strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
	if cfg.WeatherAPIKey == "" {
		var sec secretsFile
		if err := readYAML(filepath.Join(cwd, "config", "secrets.yaml"), &sec); err != nil {
			return nil, err
		}
		cfg.WeatherAPIKey = strings.TrimSpace(sec.WeatherAPIKey)
	}

	cfg.GeocodingAPIURL = stringOr(fc.GeocodingAPI.URL, DefaultGeocodingAPIURL)
	cfg.GeocodingAPITimeout = parseDuration(fc.GeocodingAPI.Timeout, DefaultAPITimeout)
	cfg.CountryCode = strings.ToUpper(stringOr(fc.GeocodingAPI.CountryCode, DefaultCountryCode))

	cfg.WeatherAPIURL = stringOr(fc.WeatherAPI.URL, DefaultWeatherAPIURL)
	cfg.WeatherAPITimeout = parseDuration(fc.WeatherAPI.Timeout, DefaultAPITimeout)

	cfg.LocationMaxLength = DefaultLocationMaxLen
	if fc.Input.LocationMaxLength != nil {
		cfg.LocationMaxLength = *fc.Input.LocationMaxLength
	}

	cfg.LogLevel = strings.ToLower(stringOr(fc.Log.Level, DefaultLogLevel))

	cfg.TracingEnabled = fc.Tracing.Enabled
	cfg.ZipkinURL = stringOr(os.Getenv("ZIPKIN_URL"), fc.Tracing.ZipkinURL)
	if cfg.TracingEnabled && cfg.ZipkinURL == "" {
		cfg.ZipkinURL = DefaultZipkinURL
	}
	cfg.ServiceName = stringOr(fc.Tracing.ServiceName, DefaultServiceName)

	cfg.PushgatewayURL = stringOr(os.Getenv("PUSHGATEWAY_URL"), fc.Metrics.PushgatewayURL)
	cfg.PushTimeout = parseDuration(fc.Metrics.PushTimeout, 5*time.Second)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readYAML unmarshals path into out. A missing file leaves out untouched.
func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func stringOr(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

// parseDuration parses a duration string and returns defaultVal if parsing fails or result is <= 0.
func parseDuration(s string, defaultVal time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// validate checks field constraints and reports every failing field.
func validate(cfg *Config) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
