package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PushJobName is the Pushgateway job label for weather-report runs.
const PushJobName = "weather_report"

var (
	registry *prometheus.Registry

	// OpenWeather API call count per endpoint ("geocoding", "weather") and outcome.
	WeatherAPICallsTotal *prometheus.CounterVec

	// OpenWeather API latency per endpoint. Watch for: p95 > 2s (upstream degradation).
	WeatherAPIDuration *prometheus.HistogramVec

	// Completed lookups by result ("success", "error").
	LookupsTotal *prometheus.CounterVec

	// Failed runs by error category (see client.CategorizeError).
	ErrorsTotal *prometheus.CounterVec

	// Geocoding responses with no candidates.
	GeocodeEmptyResultsTotal prometheus.Counter

	// Unix time of the last successful report; the usual Pushgateway liveness signal for batch jobs.
	LastSuccessTimestamp prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeather API calls",
		},
		[]string{"api", "status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeather API latency in seconds (per request)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"api", "status"},
	)
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherLookupsTotal",
			Help: "Total number of weather report lookups",
		},
		[]string{"result"},
	)
	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherReportErrorsTotal",
			Help: "Failed runs by error category",
		},
		[]string{"category"},
	)
	GeocodeEmptyResultsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "geocodeEmptyResultsTotal",
			Help: "Geocoding responses that contained no candidates",
		},
	)
	LastSuccessTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "weatherReportLastSuccessTimestampSeconds",
			Help: "Unix time of the last successful weather report",
		},
	)

	registry.MustRegister(
		WeatherAPICallsTotal, WeatherAPIDuration,
		LookupsTotal, ErrorsTotal,
		GeocodeEmptyResultsTotal, LastSuccessTimestamp,
	)
}

// RecordLookup counts a finished lookup. category is the error label and is ignored on success.
func RecordLookup(err error, category string) {
	if err == nil {
		LookupsTotal.WithLabelValues("success").Inc()
		LastSuccessTimestamp.SetToCurrentTime()
		return
	}
	LookupsTotal.WithLabelValues("error").Inc()
	if category == "" {
		category = "unknown"
	}
	ErrorsTotal.WithLabelValues(category).Inc()
}

// PushMetrics sends the registry to a Pushgateway, grouped by run ID so concurrent
// invocations do not overwrite each other.
func PushMetrics(gatewayURL, runID string, timeout time.Duration) error {
	pusher := push.New(gatewayURL, PushJobName).
		Gatherer(registry).
		Client(&http.Client{Timeout: timeout})
	if runID != "" {
		pusher = pusher.Grouping("run_id", runID)
	}
	if err := pusher.Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
