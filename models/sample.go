package models

import (
	"time"
)

// SlotsPerDay is the number of 3-hour samples in one day
const SlotsPerDay = 8

// Sample represents a single 3-hour forecast observation
type Sample struct {
	Timestamp   time.Time `json:"timestamp"`   // time this sample is for
	Temperature float64   `json:"temperature"` // in Celsius
	Icon        string    `json:"icon"`        // icon code, e.g. "01d"
	Description string    `json:"description"` // short text description
	Humidity    float64   `json:"humidity"`    // percentage
	Pressure    float64   `json:"pressure"`    // in hPa
	WindSpeed   float64   `json:"windSpeed"`   // in m/s
	WindDeg     int       `json:"windDeg"`     // wind direction in degrees
}

// ForecastSeries is an ordered list of samples for one location, as returned by a provider
type ForecastSeries struct {
	Provider       string    `json:"provider"`       // weather data provider name
	Location       string    `json:"location"`       // "City,CC"
	TimezoneOffset int       `json:"timezoneOffset"` // city offset from UTC in seconds
	Samples        []Sample  `json:"samples"`        // ascending by timestamp
	Updated        time.Time `json:"updated"`        // when this series was fetched
}
