package datasource

import (
	"context"
	"fmt"

	"weather-dashboard/models"

	"golang.org/x/time/rate"
)

// RateLimitedProvider wraps a Provider with separate limiters for current weather and forecasts
type RateLimitedProvider struct {
	provider        Provider
	weatherLimiter  *rate.Limiter
	forecastLimiter *rate.Limiter
	name            string
}

// NewRateLimitedProvider creates a rate limited provider.
// weatherRPS and forecastRPS are the maximum requests per second for each API, and may be fractional.
// burst is the maximum burst size allowed for both.
func NewRateLimitedProvider(provider Provider, weatherRPS, forecastRPS float64, burst int) *RateLimitedProvider {
	return &RateLimitedProvider{
		provider:        provider,
		weatherLimiter:  rate.NewLimiter(rate.Limit(weatherRPS), burst),
		forecastLimiter: rate.NewLimiter(rate.Limit(forecastRPS), burst),
		name:            fmt.Sprintf("%s [Rate Limited]", provider.Name()),
	}
}

// LimitsFor returns the free-tier limits used for a known provider name
func LimitsFor(name string) (rps float64, burst int) {
	switch name {
	case "WeatherAPI":
		// ~23 calls/minute
		return 0.4, 3
	default:
		// OpenWeatherMap free tier allows 60 calls/minute
		return 1.0, 5
	}
}

// GetWeather waits for the weather limiter, then forwards to the underlying provider
func (r *RateLimitedProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	if err := r.weatherLimiter.Wait(ctx); err != nil {
		return models.WeatherData{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.GetWeather(ctx, location)
}

// FetchForecast waits for the forecast limiter, then forwards to the underlying provider
func (r *RateLimitedProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	if err := r.forecastLimiter.Wait(ctx); err != nil {
		return models.ForecastSeries{}, fmt.Errorf("rate limit wait canceled: %w", err)
	}
	return r.provider.FetchForecast(ctx, location, days)
}

// Name returns the provider name
func (r *RateLimitedProvider) Name() string {
	return r.name
}

var _ Provider = (*RateLimitedProvider)(nil)
