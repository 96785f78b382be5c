package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type fakeProvider struct {
	forecastCalls int
	weatherCalls  int
	err           error
}

func (f *fakeProvider) Name() string { return "Fake" }

func (f *fakeProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	f.forecastCalls++
	if f.err != nil {
		return models.ForecastSeries{}, f.err
	}
	return models.ForecastSeries{
		Provider: "Fake",
		Location: location,
		Samples: []models.Sample{
			{Timestamp: time.Unix(1710000000, 0).UTC(), Temperature: 11.5, Icon: "01d", Description: "clear sky"},
		},
		Updated: time.Now(),
	}, nil
}

func (f *fakeProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	f.weatherCalls++
	if f.err != nil {
		return models.WeatherData{}, f.err
	}
	return models.WeatherData{Provider: "Fake", Location: location, Temperature: 9}, nil
}

func newTestCache(t *testing.T, source datasource.Provider) (*CachedProvider, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCachedProvider(source, "", client, time.Minute), mr
}

func TestCachedForecastHitAndMiss(t *testing.T) {
	src := &fakeProvider{}
	c, mr := newTestCache(t, src)
	ctx := context.Background()

	first, err := c.FetchForecast(ctx, " Lisbon,PT ", 7)
	if err != nil {
		t.Fatalf("first fetch failed: %v", err)
	}
	second, err := c.FetchForecast(ctx, "lisbon,pt", 7)
	if err != nil {
		t.Fatalf("second fetch failed: %v", err)
	}

	if src.forecastCalls != 1 {
		t.Errorf("source called %d times, want 1", src.forecastCalls)
	}
	if len(second.Samples) != 1 || !second.Samples[0].Timestamp.Equal(first.Samples[0].Timestamp) {
		t.Errorf("cached series differs: %+v", second)
	}
	if !mr.Exists("forecast:fake:lisbon,pt:7") {
		t.Errorf("expected cache key, have %v", mr.Keys())
	}
	if ttl := mr.TTL("forecast:fake:lisbon,pt:7"); ttl != time.Minute {
		t.Errorf("ttl = %v", ttl)
	}

	hits, misses := c.CacheStats()
	if hits != 1 || misses != 1 {
		t.Errorf("stats = %d hits, %d misses", hits, misses)
	}

	// a different horizon is a different key
	if _, err := c.FetchForecast(ctx, "Lisbon,PT", 5); err != nil {
		t.Fatal(err)
	}
	if src.forecastCalls != 2 {
		t.Errorf("source called %d times, want 2", src.forecastCalls)
	}
}

func TestCachedForecastExpires(t *testing.T) {
	src := &fakeProvider{}
	c, mr := newTestCache(t, src)
	ctx := context.Background()

	if _, err := c.FetchForecast(ctx, "Oslo", 7); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := c.FetchForecast(ctx, "Oslo", 7); err != nil {
		t.Fatal(err)
	}
	if src.forecastCalls != 2 {
		t.Errorf("source called %d times after expiry, want 2", src.forecastCalls)
	}
}

func TestCachedErrorsAreNotCached(t *testing.T) {
	src := &fakeProvider{err: datasource.ErrLocationNotFound}
	c, mr := newTestCache(t, src)

	_, err := c.FetchForecast(context.Background(), "Atlantis", 7)
	if !errors.Is(err, datasource.ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if len(mr.Keys()) != 0 {
		t.Errorf("error result was cached: %v", mr.Keys())
	}
}

func TestCachedWeather(t *testing.T) {
	src := &fakeProvider{}
	c, _ := newTestCache(t, src)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		data, err := c.GetWeather(ctx, "Oslo")
		if err != nil {
			t.Fatal(err)
		}
		if data.Temperature != 9 {
			t.Errorf("temperature = %v", data.Temperature)
		}
	}
	if src.weatherCalls != 1 {
		t.Errorf("source called %d times, want 1", src.weatherCalls)
	}
	if c.Name() != "Fake [Cached]" {
		t.Errorf("name = %s", c.Name())
	}
}

func TestCacheUnavailableFallsThrough(t *testing.T) {
	src := &fakeProvider{}
	c, mr := newTestCache(t, src)
	mr.Close()

	if _, err := c.FetchForecast(context.Background(), "Oslo", 7); err != nil {
		t.Fatalf("expected direct fetch when Redis is down, got %v", err)
	}
	if src.forecastCalls != 1 {
		t.Errorf("source called %d times", src.forecastCalls)
	}
}

func TestCacheKeysIgnoreProviderWrappers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	src := &fakeProvider{}
	limited := datasource.NewRateLimitedProvider(src, 100, 100, 5)
	c := NewCachedProvider(limited, "OpenWeatherMap", client, time.Minute)

	if _, err := c.FetchForecast(ctx, "London,UK", 7); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetWeather(ctx, "London,UK"); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"forecast:openweathermap:london,uk:7", "weather:openweathermap:london,uk"} {
		if !mr.Exists(key) {
			t.Errorf("missing key %s, have %v", key, mr.Keys())
		}
	}

	// the same keyspace without the rate limiter reads the same entries
	direct := NewCachedProvider(src, "openweathermap", client, time.Minute)
	if _, err := direct.FetchForecast(ctx, "london,uk", 7); err != nil {
		t.Fatal(err)
	}
	if src.forecastCalls != 1 {
		t.Errorf("source called %d times, want 1", src.forecastCalls)
	}
}
