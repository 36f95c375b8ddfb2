package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/kjstillabower/weather-report/internal/observability"
)

var (
	ErrInvalidAPIKey     = errors.New("invalid API key")
	ErrLocationNotFound  = errors.New("location not found")
	ErrUpstreamFailure   = errors.New("upstream failure")
	ErrRateLimited       = errors.New("rate limited")
	ErrMissingField      = errors.New("missing field in response")
	ErrMalformedResponse = errors.New("malformed response")
	ErrNetwork           = errors.New("network error")
	ErrTimeout           = errors.New("request timeout")
)

// Endpoint labels used in metrics and span names.
const (
	APIGeocoding = "geocoding"
	APIWeather   = "weather"
)

// maxErrorBody bounds how much of a non-2xx body is read for the upstream message.
const maxErrorBody = 4 << 10

// apiClient is the shared GET-and-decode path for both OpenWeather endpoints.
// There are no retries: every call is issued exactly once.
type apiClient struct {
	api     string
	apiKey  string
	baseURL *url.URL
	client  *http.Client
}

func newAPIClient(api, apiKey, apiURL string, timeout time.Duration) (*apiClient, error) {
	baseURL, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s API URL: %w", api, err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("invalid %s API URL: %q", api, apiURL)
	}
	return &apiClient{
		api:     api,
		apiKey:  apiKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// getJSON issues one GET with params plus appid and decodes a 2xx body into out.
func (c *apiClient) getJSON(ctx context.Context, params url.Values, out any) error {
	ctx, span := observability.Tracer().Start(ctx, "openweather."+c.api)
	defer span.End()

	start := time.Now()
	err := c.do(ctx, span, params, out)
	status := "success"
	if err != nil {
		status = string(CategorizeError(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	observability.WeatherAPICallsTotal.WithLabelValues(c.api, status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(c.api, status).Observe(time.Since(start).Seconds())
	return err
}

func (c *apiClient) do(ctx context.Context, span trace.Span, params url.Values, out any) error {
	req, err := c.buildRequest(ctx, params)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: http request failed: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if err := handleErrorResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: read response body: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: parse response: %w", ErrMalformedResponse, err)
	}
	return nil
}

func (c *apiClient) buildRequest(ctx context.Context, params url.Values) (*http.Request, error) {
	u := *c.baseURL
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("appid", c.apiKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if runID := observability.RunIDFromContext(ctx); runID != "" {
		req.Header.Set("X-Correlation-ID", runID)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
	return req, nil
}

// upstreamError is the error body OpenWeather sends with non-2xx responses.
type upstreamError struct {
	Message string `json:"message"`
}

func handleErrorResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	detail := fmt.Sprintf("HTTP %d", resp.StatusCode)
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var ue upstreamError
	if json.Unmarshal(body, &ue) == nil && ue.Message != "" {
		detail = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, ue.Message)
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrInvalidAPIKey, detail)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrLocationNotFound, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", ErrRateLimited, detail)
	}
	return fmt.Errorf("%w: %s", ErrUpstreamFailure, detail)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
