// Package testhelpers provides a fake OpenWeather upstream for package and end-to-end tests.
package testhelpers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/gorilla/mux"
)

const (
	GeocodingPath = "/geo/1.0/direct"
	WeatherPath   = "/data/2.5/weather"
)

// Reply is a canned upstream response. A nil Body writes no body.
type Reply struct {
	Status int
	Body   any
}

// RecordedRequest captures what the fake upstream received.
type RecordedRequest struct {
	Path   string
	Query  url.Values
	Header http.Header
}

// FakeOpenWeather serves the geocoding and current weather endpoints from canned replies.
type FakeOpenWeather struct {
	server *httptest.Server

	mu       sync.Mutex
	geocode  Reply
	weather  Reply
	requests []RecordedRequest
}

// NewFakeOpenWeather starts the fake and closes it when the test ends.
// Defaults: geocoding returns Seattle at 47.6,-122.3; weather returns 283.15 K, 80%, light rain.
func NewFakeOpenWeather(t testing.TB) *FakeOpenWeather {
	t.Helper()
	f := &FakeOpenWeather{
		geocode: Reply{Status: http.StatusOK, Body: []map[string]any{
			{"name": "Seattle", "state": "Washington", "country": "US", "lat": 47.6, "lon": -122.3},
		}},
		weather: Reply{Status: http.StatusOK, Body: WeatherBody(283.15, 80, "light rain")},
	}

	router := mux.NewRouter()
	router.HandleFunc(GeocodingPath, f.handle(func() Reply { return f.geocode })).Methods(http.MethodGet)
	router.HandleFunc(WeatherPath, f.handle(func() Reply { return f.weather })).Methods(http.MethodGet)

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

// WeatherBody builds a current weather payload in OpenWeather's shape.
func WeatherBody(tempKelvin float64, humidity int, description string) map[string]any {
	return map[string]any{
		"name": "Seattle",
		"main": map[string]any{
			"temp":     tempKelvin,
			"humidity": humidity,
		},
		"weather": []map[string]any{
			{"main": "Rain", "description": description},
		},
	}
}

func (f *FakeOpenWeather) handle(reply func() Reply) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, RecordedRequest{
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		rep := reply()
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(rep.Status)
		if rep.Body == nil {
			return
		}
		if raw, ok := rep.Body.(string); ok {
			_, _ = w.Write([]byte(raw))
			return
		}
		_ = json.NewEncoder(w).Encode(rep.Body)
	}
}

func (f *FakeOpenWeather) SetGeocode(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.geocode = Reply{Status: status, Body: body}
}

func (f *FakeOpenWeather) SetWeather(status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.weather = Reply{Status: status, Body: body}
}

func (f *FakeOpenWeather) GeocodingURL() string { return f.server.URL + GeocodingPath }
func (f *FakeOpenWeather) WeatherURL() string   { return f.server.URL + WeatherPath }

// Requests returns a copy of every request received so far, in order.
func (f *FakeOpenWeather) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestsTo returns the recorded requests for one path.
func (f *FakeOpenWeather) RequestsTo(path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}
