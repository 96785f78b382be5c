package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/models"
)

type stubProvider struct {
	series models.ForecastSeries
	err    error
	days   int
}

func (s *stubProvider) Name() string { return "Stub" }

func (s *stubProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	s.days = days
	return s.series, s.err
}

func (s *stubProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	if s.err != nil {
		return models.WeatherData{}, s.err
	}
	return models.WeatherData{Location: location, Temperature: 21}, nil
}

type stubPublisher struct {
	reports []models.ForecastReport
	err     error
}

func (p *stubPublisher) PublishForecast(ctx context.Context, report models.ForecastReport) error {
	p.reports = append(p.reports, report)
	return p.err
}

// nativeSeries returns 56 samples starting at 09:00 UTC, so the first UTC day is partial
func nativeSeries() models.ForecastSeries {
	base := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	series := models.ForecastSeries{Provider: "Stub", Location: "Lisbon,PT", TimezoneOffset: 0}
	for i := 0; i < forecast.NativeDays*models.SlotsPerDay; i++ {
		series.Samples = append(series.Samples, models.Sample{
			Timestamp:   base.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 20,
			Icon:        "01d",
			Description: "clear sky",
		})
	}
	return series
}

func TestForecastWeek(t *testing.T) {
	provider := &stubProvider{series: nativeSeries()}
	pub := &stubPublisher{}
	svc := NewService(provider, WithLocation(time.UTC), WithPublisher(pub))

	report, err := svc.Forecast(context.Background(), " Lisbon ", forecast.Week)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if provider.days != forecast.NativeDays {
		t.Errorf("requested %d days, want %d", provider.days, forecast.NativeDays)
	}
	if len(report.Days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(report.Days))
	}
	if report.Approximate || report.Note != "" || report.View != "week" {
		t.Errorf("week report flagged as approximate: %+v", report)
	}
	for _, d := range report.Days {
		if d.Temperature != 20 {
			t.Errorf("%s temperature = %d", d.Date, d.Temperature)
		}
	}
	if len(pub.reports) != 1 {
		t.Errorf("published %d reports", len(pub.reports))
	}
}

func TestForecastMonth(t *testing.T) {
	svc := NewService(&stubProvider{series: nativeSeries()}, WithLocation(time.UTC))

	report, err := svc.Forecast(context.Background(), "Lisbon", forecast.Month)
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if len(report.Days) != 30 {
		t.Fatalf("expected 30 days even with a partial first day, got %d", len(report.Days))
	}
	if !report.Approximate || report.Note != ApproximateNote || report.NativeDays != 7 {
		t.Errorf("month report not flagged: %+v", report)
	}
	if report.Days[0].Date != "2024-03-04" || report.Days[29].Date != "2024-04-02" {
		t.Errorf("range = %s .. %s", report.Days[0].Date, report.Days[29].Date)
	}
}

func TestForecastEmptySeries(t *testing.T) {
	svc := NewService(&stubProvider{series: models.ForecastSeries{Location: "Nowhere"}})

	for _, h := range []forecast.Horizon{forecast.Week, forecast.Month} {
		report, err := svc.Forecast(context.Background(), "Nowhere", h)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", h, err)
		}
		if len(report.Days) != 0 {
			t.Errorf("%s: expected no days, got %d", h, len(report.Days))
		}
	}
}

func TestForecastErrorIsReturned(t *testing.T) {
	svc := NewService(&stubProvider{err: datasource.ErrLocationNotFound})

	_, err := svc.Forecast(context.Background(), "Atlantis", forecast.Week)
	if !errors.Is(err, datasource.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}

	_, err = svc.Current(context.Background(), "Atlantis")
	if !errors.Is(err, datasource.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound from Current, got %v", err)
	}
}

func TestPublishFailureDoesNotFailForecast(t *testing.T) {
	pub := &stubPublisher{err: errors.New("kafka down")}
	svc := NewService(&stubProvider{series: nativeSeries()}, WithPublisher(pub))

	if _, err := svc.Forecast(context.Background(), "Lisbon", forecast.Week); err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
	if len(pub.reports) != 1 {
		t.Errorf("publisher not called")
	}
}

func TestForecastCityTimezone(t *testing.T) {
	series := nativeSeries()
	// +10:00 moves 21:00 UTC samples onto the next local day
	series.TimezoneOffset = 10 * 3600
	svc := NewService(&stubProvider{series: series}, WithLocation(time.UTC), WithCityTimezone())

	report, err := svc.Forecast(context.Background(), "Sydney", forecast.Week)
	if err != nil {
		t.Fatal(err)
	}
	if report.Days[0].Date != "2024-03-04" || report.Days[1].Date != "2024-03-05" {
		t.Errorf("dates = %s, %s", report.Days[0].Date, report.Days[1].Date)
	}
	// 09:00 UTC + 10h = 19:00 local, so only 19:00 and 22:00 fall on the first local day
	if report.Days[0].Samples != 2 {
		t.Errorf("first local day has %d samples, want 2", report.Days[0].Samples)
	}
}

func TestCityZone(t *testing.T) {
	tests := map[int]string{
		0:             "UTC",
		3600:          "UTC+01:00",
		-4 * 3600:     "UTC-04:00",
		5*3600 + 1800: "UTC+05:30",
	}
	for offset, want := range tests {
		if got := CityZone(offset).String(); got != want {
			t.Errorf("CityZone(%d) = %s, want %s", offset, got, want)
		}
	}
}
