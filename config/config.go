package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"weather-dashboard/datasource"
)

// Provider names accepted in Config.Provider
const (
	ProviderOpenWeatherMap = datasource.OpenWeatherMap
	ProviderWeatherAPI     = datasource.WeatherAPI
)

// Config represents the application configuration
type Config struct {
	// Selected forecast provider, one of the Provider* constants
	Provider string `json:"provider"`

	// API provider configurations
	OpenWeatherMap struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseUrl"`
	} `json:"openWeatherMap"`

	WeatherAPI struct {
		APIKey  string `json:"apiKey"`
		BaseURL string `json:"baseUrl"`
	} `json:"weatherAPI"`

	Port int `json:"port"`

	// Timezone used for local calendar days: IANA name, "Local", or "city"
	Timezone string `json:"timezone"`

	RequestTimeout Duration `json:"requestTimeout"`

	// Optional Redis cache for raw provider responses
	RedisURL string   `json:"redisUrl"`
	CacheTTL Duration `json:"cacheTtl"`

	// Optional Kafka publishing of computed forecasts
	KafkaBrokers []string `json:"kafkaBrokers"`
	KafkaTopic   string   `json:"kafkaTopic"`

	// Locations to keep warm in the cache
	Locations        []string `json:"locations"`
	PrefetchInterval Duration `json:"prefetchInterval"`
}

// Duration is a time.Duration that reads "10m" style strings from JSON
type Duration time.Duration

// UnmarshalJSON accepts either a duration string or a number of nanoseconds
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}

	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*d = Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// DefaultConfig creates a default configuration
func DefaultConfig() *Config {
	config := &Config{}
	config.Provider = ProviderOpenWeatherMap
	config.Port = 8080
	config.Timezone = "Local"
	config.RequestTimeout = Duration(10 * time.Second)
	config.CacheTTL = Duration(10 * time.Minute)
	config.KafkaTopic = "forecast-reports"
	config.Locations = []string{"London,UK", "New York,US", "Tokyo,JP"}
	config.PrefetchInterval = Duration(15 * time.Minute)
	return config
}

// LoadConfig loads configuration from a JSON file on top of the defaults, then applies
// environment overrides. A missing file is not an error.
func LoadConfig(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		file, err := os.Open(filename)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			defer file.Close()
			if err := json.NewDecoder(file).Decode(config); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("WEATHER_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("OPENWEATHERMAP_API_KEY"); v != "" {
		c.OpenWeatherMap.APIKey = v
	}
	if v := os.Getenv("WEATHERAPI_KEY"); v != "" {
		c.WeatherAPI.APIKey = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("FORECAST_TIMEZONE"); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid CACHE_TTL %q: %w", v, err)
		}
		c.CacheTTL = Duration(ttl)
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.KafkaBrokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.KafkaTopic = v
	}

	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	return nil
}

// Validate checks the selected provider and its API key
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenWeatherMap, ProviderWeatherAPI:
	default:
		return fmt.Errorf("unknown provider %q", c.Provider)
	}
	if c.APIKey() == "" {
		return fmt.Errorf("%s is selected but no API key provided", c.Provider)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// APIKey returns the key of the selected provider
func (c *Config) APIKey() string {
	if c.Provider == ProviderWeatherAPI {
		return c.WeatherAPI.APIKey
	}
	return c.OpenWeatherMap.APIKey
}

// BaseURL returns the endpoint override of the selected provider
func (c *Config) BaseURL() string {
	if c.Provider == ProviderWeatherAPI {
		return c.WeatherAPI.BaseURL
	}
	return c.OpenWeatherMap.BaseURL
}

// CityTimezone reports whether local days follow each city's own UTC offset
func (c *Config) CityTimezone() bool {
	return strings.EqualFold(c.Timezone, "city")
}

// Location resolves Timezone. "city" has no fixed location and resolves to time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") || c.CityTimezone() {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
