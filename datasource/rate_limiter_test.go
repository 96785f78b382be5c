package datasource

import (
	"context"
	"testing"

	"weather-dashboard/models"
)

type countingProvider struct {
	forecasts int
	weather   int
}

func (c *countingProvider) Name() string { return "Counting" }

func (c *countingProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	c.weather++
	return models.WeatherData{Location: location}, nil
}

func (c *countingProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	c.forecasts++
	return models.ForecastSeries{Location: location}, nil
}

func TestRateLimitedProviderForwards(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, 100, 100, 5)

	if p.Name() != "Counting [Rate Limited]" {
		t.Errorf("name = %s", p.Name())
	}

	for i := 0; i < 3; i++ {
		if _, err := p.FetchForecast(context.Background(), "X", 7); err != nil {
			t.Fatalf("FetchForecast failed: %v", err)
		}
	}
	if _, err := p.GetWeather(context.Background(), "X"); err != nil {
		t.Fatalf("GetWeather failed: %v", err)
	}
	if inner.forecasts != 3 || inner.weather != 1 {
		t.Errorf("forwarded %d forecasts and %d weather calls", inner.forecasts, inner.weather)
	}
}

func TestRateLimitedProviderCanceled(t *testing.T) {
	inner := &countingProvider{}
	p := NewRateLimitedProvider(inner, 0.001, 0.001, 1)

	// burst of one is consumed by the first call
	if _, err := p.FetchForecast(context.Background(), "X", 7); err != nil {
		t.Fatalf("first call failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.FetchForecast(ctx, "X", 7); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if inner.forecasts != 1 {
		t.Errorf("canceled call reached provider")
	}
}
