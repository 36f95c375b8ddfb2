package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/weather-report/internal/client"
	"github.com/kjstillabower/weather-report/internal/config"
	"github.com/kjstillabower/weather-report/internal/observability"
	"github.com/kjstillabower/weather-report/internal/testhelpers"
	"github.com/kjstillabower/weather-report/internal/validation"
)

func testConfig(fake *testhelpers.FakeOpenWeather) *config.Config {
	return &config.Config{
		WeatherAPIKey:       "test-api-key-12345",
		GeocodingAPIURL:     fake.GeocodingURL(),
		GeocodingAPITimeout: 2 * time.Second,
		CountryCode:         "US",
		WeatherAPIURL:       fake.WeatherURL(),
		WeatherAPITimeout:   2 * time.Second,
		LocationMaxLength:   100,
	}
}

// TestRun_EndToEnd drives the whole pipeline against the fake OpenWeather upstream.
func TestRun_EndToEnd(t *testing.T) {
	fake := testhelpers.NewFakeOpenWeather(t)
	var out bytes.Buffer
	ctx := observability.WithRunID(context.Background(), "run-e2e")

	err := run(ctx, testConfig(fake), zap.NewNop(), strings.NewReader("Seattle, WA\n"), &out)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	printed := out.String()
	for _, want := range []string{
		"Weather report for Seattle, WA:",
		"Temperature: 10.00°C",
		"Humidity: 80%",
		"Description: light rain",
	} {
		if !strings.Contains(printed, want) {
			t.Errorf("output missing %q:\n%s", want, printed)
		}
	}

	geoReqs := fake.RequestsTo(testhelpers.GeocodingPath)
	weatherReqs := fake.RequestsTo(testhelpers.WeatherPath)
	if len(geoReqs) != 1 || len(weatherReqs) != 1 {
		t.Fatalf("requests geocoding=%d weather=%d, want 1 each", len(geoReqs), len(weatherReqs))
	}
	if q := geoReqs[0].Query.Get("q"); q != "Seattle,WA,US" {
		t.Errorf("geocoding q = %q, want Seattle,WA,US", q)
	}
	wq := weatherReqs[0].Query
	if wq.Get("lat") != "47.6" || wq.Get("lon") != "-122.3" {
		t.Errorf("weather lat/lon = %s/%s, want 47.6/-122.3", wq.Get("lat"), wq.Get("lon"))
	}
	for _, r := range fake.Requests() {
		if got := r.Header.Get("X-Correlation-ID"); got != "run-e2e" {
			t.Errorf("%s X-Correlation-ID = %q, want run-e2e", r.Path, got)
		}
	}
}

func TestRun_MalformedInputMakesNoRequests(t *testing.T) {
	fake := testhelpers.NewFakeOpenWeather(t)
	var out bytes.Buffer

	err := run(context.Background(), testConfig(fake), zap.NewNop(), strings.NewReader("Seattle WA\n"), &out)
	if !errors.Is(err, validation.ErrMalformedLocation) {
		t.Fatalf("run() error = %v, want ErrMalformedLocation", err)
	}
	if got := client.CategorizeError(err); got != client.ErrorCategoryInput {
		t.Errorf("CategorizeError() = %v, want input", got)
	}
	if n := len(fake.Requests()); n != 0 {
		t.Errorf("upstream requests = %d, want 0", n)
	}
	if strings.Contains(out.String(), "Weather report for") {
		t.Error("no report should be printed on input error")
	}
}

func TestRun_UpstreamFailures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*testhelpers.FakeOpenWeather)
		wantErr error
		wantCat client.ErrorCategory
	}{
		{
			name:    "empty geocoding result",
			setup:   func(f *testhelpers.FakeOpenWeather) { f.SetGeocode(http.StatusOK, []map[string]any{}) },
			wantErr: client.ErrLocationNotFound,
			wantCat: client.ErrorCategoryLocationNotFound,
		},
		{
			name: "invalid api key",
			setup: func(f *testhelpers.FakeOpenWeather) {
				f.SetGeocode(http.StatusUnauthorized, map[string]any{"cod": 401, "message": "Invalid API key"})
			},
			wantErr: client.ErrInvalidAPIKey,
			wantCat: client.ErrorCategoryInvalidAPIKey,
		},
		{
			name: "weather missing fields",
			setup: func(f *testhelpers.FakeOpenWeather) {
				f.SetWeather(http.StatusOK, map[string]any{"weather": []map[string]any{{"description": "fog"}}})
			},
			wantErr: client.ErrMissingField,
			wantCat: client.ErrorCategoryMissingField,
		},
		{
			name:    "weather malformed json",
			setup:   func(f *testhelpers.FakeOpenWeather) { f.SetWeather(http.StatusOK, "{not json") },
			wantErr: client.ErrMalformedResponse,
			wantCat: client.ErrorCategoryParsing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := testhelpers.NewFakeOpenWeather(t)
			tt.setup(fake)
			var out bytes.Buffer

			err := run(context.Background(), testConfig(fake), zap.NewNop(), strings.NewReader("Seattle, WA\n"), &out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
			}
			if got := client.CategorizeError(err); got != tt.wantCat {
				t.Errorf("CategorizeError() = %v, want %v", got, tt.wantCat)
			}
			if strings.Contains(out.String(), "Weather report for") {
				t.Error("no report should be printed on failure")
			}
		})
	}
}

func TestRun_InvalidClientURL(t *testing.T) {
	fake := testhelpers.NewFakeOpenWeather(t)
	cfg := testConfig(fake)
	cfg.WeatherAPIURL = "not a url"

	err := run(context.Background(), cfg, zap.NewNop(), strings.NewReader("Seattle, WA\n"), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "weather client") {
		t.Errorf("run() error = %v, want weather client error", err)
	}
}

// TestRun_InterruptAtPrompt cancels the run while it waits for input; no request is made.
func TestRun_InterruptAtPrompt(t *testing.T) {
	fake := testhelpers.NewFakeOpenWeather(t)
	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(50*time.Millisecond, cancel)

	err := run(ctx, testConfig(fake), zap.NewNop(), pr, &bytes.Buffer{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("run() error = %v, want context.Canceled", err)
	}
	if got := client.CategorizeError(err); got != client.ErrorCategoryCanceled {
		t.Errorf("CategorizeError() = %v, want canceled", got)
	}
	if n := len(fake.Requests()); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}
