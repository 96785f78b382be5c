package models

import "time"

// DailySummary aggregates all samples that fall on one local calendar date
type DailySummary struct {
	Date            string    `json:"date"` // YYYY-MM-DD in the aggregation zone
	Day             time.Time `json:"day"`  // local midnight of Date
	MeanTemperature float64   `json:"meanTemperature"`
	Temperature     int       `json:"temperature"` // MeanTemperature rounded half-up for display
	Icon            string    `json:"icon"`
	Description     string    `json:"description"`
	Samples         int       `json:"samples"`
}

// ForecastReport is the payload the dashboard renders for one forecast view
type ForecastReport struct {
	Location    string         `json:"location"`
	Provider    string         `json:"provider"`
	View        string         `json:"view"`
	NativeDays  int            `json:"nativeDays"`
	Approximate bool           `json:"approximate"`
	Note        string         `json:"note,omitempty"`
	Days        []DailySummary `json:"days"`
	Generated   time.Time      `json:"generated"`
}
