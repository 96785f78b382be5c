package dashboard

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/models"
)

// ApproximateNote is attached to reports that include extrapolated days
const ApproximateNote = "Extended forecast beyond 7 days is approximate and for planning purposes only"

// Publisher receives every computed forecast report
type Publisher interface {
	PublishForecast(ctx context.Context, report models.ForecastReport) error
}

// Service turns provider data into the views the dashboard renders
type Service struct {
	provider     datasource.Provider
	publisher    Publisher
	location     *time.Location
	cityTimezone bool
	now          func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPublisher publishes each forecast report after it is computed
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithLocation sets the zone whose calendar days group the samples
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// WithCityTimezone groups samples by each city's own UTC offset instead of a fixed zone
func WithCityTimezone() Option {
	return func(s *Service) { s.cityTimezone = true }
}

// NewService creates a dashboard service backed by provider
func NewService(provider datasource.Provider, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns current conditions for city
func (s *Service) Current(ctx context.Context, city string) (models.WeatherData, error) {
	city = strings.TrimSpace(city)
	data, err := s.provider.GetWeather(ctx, city)
	if err != nil {
		return models.WeatherData{}, fmt.Errorf("current weather for %s: %w", city, err)
	}
	return data, nil
}

// Forecast fetches the native forecast for city, extends it when the horizon needs it,
// and collapses it into at most horizon.Days() daily summaries
func (s *Service) Forecast(ctx context.Context, city string, horizon forecast.Horizon) (models.ForecastReport, error) {
	city = strings.TrimSpace(city)
	series, err := s.provider.FetchForecast(ctx, city, forecast.NativeDays)
	if err != nil {
		return models.ForecastReport{}, fmt.Errorf("forecast for %s: %w", city, err)
	}

	samples := series.Samples
	if horizon.Extended() {
		// One extra day keeps horizon.Days() buckets when the first local day is partial
		samples = forecast.Extrapolate(samples, forecast.NativeDays, horizon.Days()+1)
	}

	report := models.ForecastReport{
		Location:    series.Location,
		Provider:    series.Provider,
		View:        horizon.String(),
		NativeDays:  forecast.NativeDays,
		Approximate: horizon.Extended(),
		Days:        forecast.Aggregate(samples, s.zoneFor(series), horizon.Days()),
		Generated:   s.now(),
	}
	if report.Location == "" {
		report.Location = city
	}
	if report.Approximate {
		report.Note = ApproximateNote
	}

	if s.publisher != nil {
		if err := s.publisher.PublishForecast(ctx, report); err != nil {
			log.Printf("Failed to publish %s forecast for %s: %v", report.View, report.Location, err)
		}
	}

	return report, nil
}

func (s *Service) zoneFor(series models.ForecastSeries) *time.Location {
	if !s.cityTimezone {
		return s.location
	}
	return CityZone(series.TimezoneOffset)
}

// CityZone returns a fixed zone named like "UTC+01:00" for an offset in seconds
func CityZone(offset int) *time.Location {
	if offset == 0 {
		return time.UTC
	}
	sign := "+"
	abs := offset
	if offset < 0 {
		sign = "-"
		abs = -offset
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, abs%3600/60)
	return time.FixedZone(name, offset)
}
