package datasource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"weather-dashboard/models"
)

var (
	// ErrMissingAPIKey is returned before any request when the provider has no API key
	ErrMissingAPIKey = errors.New("API key is missing")
	// ErrLocationNotFound is returned when the provider does not know the requested location
	ErrLocationNotFound = errors.New("location not found")
)

// APIError is a non-200 response from a provider
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}

// WeatherProvider is an interface for services that can fetch current weather data
type WeatherProvider interface {
	// GetWeather fetches current weather for a location
	GetWeather(ctx context.Context, location string) (models.WeatherData, error)

	// Name returns the provider's name
	Name() string
}

// ForecastSource is an interface for services that can fetch 3-hour forecast samples
type ForecastSource interface {
	// FetchForecast fetches days*8 forecast samples for a location, ascending by timestamp
	FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error)

	// Name returns the source's name
	Name() string
}

// Provider is implemented by clients that offer both current weather and forecasts
type Provider interface {
	WeatherProvider
	ForecastSource
}

// Config holds what a provider client needs. It is passed in at construction time.
type Config struct {
	APIKey  string
	BaseURL string        // overrides the provider's public endpoint
	Timeout time.Duration // per-request HTTP timeout
}

func (c Config) httpClient() *http.Client {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

func (c Config) baseURL(def string) string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return def
}

// checkStatus maps a non-200 status to ErrLocationNotFound or an *APIError
func checkStatus(provider string, status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%s: %w", provider, ErrLocationNotFound)
	default:
		return &APIError{Provider: provider, StatusCode: status, Body: string(body)}
	}
}
