package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/models"

	"github.com/redis/go-redis/v9"
)

// CachedProvider wraps a datasource.Provider and caches its raw responses in Redis
type CachedProvider struct {
	source   datasource.Provider
	keyspace string
	store    *store
}

// NewCachedProvider creates a new cached wrapper around a provider. Keys are prefixed with
// keyspace, which should identify the upstream provider regardless of any wrappers around it.
// An empty keyspace falls back to the source name.
func NewCachedProvider(source datasource.Provider, keyspace string, client *redis.Client, ttl time.Duration) *CachedProvider {
	keyspace = keyPart(keyspace)
	if keyspace == "" {
		keyspace = keyPart(source.Name())
	}
	return &CachedProvider{
		source:   source,
		keyspace: keyspace,
		store:    newStore(client, ttl),
	}
}

// Name returns the name of the underlying provider with [Cached] suffix
func (c *CachedProvider) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchForecast returns a cached series when present, otherwise fetches and caches it
func (c *CachedProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	key := fmt.Sprintf("forecast:%s:%s:%d", c.keyspace, keyPart(location), days)

	var series models.ForecastSeries
	if c.store.load(ctx, key, &series) {
		log.Printf("Forecast cache HIT for %s (days=%d) from %s (age: %s)",
			location, days, c.source.Name(), time.Since(series.Updated).Round(time.Second))
		return series, nil
	}

	series, err := c.source.FetchForecast(ctx, location, days)
	if err != nil {
		return models.ForecastSeries{}, err
	}

	c.store.save(ctx, key, series)
	return series, nil
}

// GetWeather returns cached current conditions when present, otherwise fetches and caches them
func (c *CachedProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	key := fmt.Sprintf("weather:%s:%s", c.keyspace, keyPart(location))

	var data models.WeatherData
	if c.store.load(ctx, key, &data) {
		log.Printf("Weather cache HIT for %s from %s", location, c.source.Name())
		return data, nil
	}

	data, err := c.source.GetWeather(ctx, location)
	if err != nil {
		return models.WeatherData{}, err
	}

	c.store.save(ctx, key, data)
	return data, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedProvider) CacheStats() (hits, misses int) {
	return c.store.stats()
}

// Ensure CachedProvider implements datasource.Provider
var _ datasource.Provider = (*CachedProvider)(nil)
