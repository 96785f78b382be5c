package datasource

import (
	"fmt"
	"strings"
)

// Provider identifiers accepted by New
const (
	OpenWeatherMap = "openweathermap"
	WeatherAPI     = "weatherapi"
)

// New creates the provider client registered under name
func New(name string, cfg Config) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case OpenWeatherMap:
		return NewOpenWeatherMapProvider(cfg), nil
	case WeatherAPI:
		return NewWeatherAPIProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
