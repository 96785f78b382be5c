package forecast

import (
	"time"

	"weather-dashboard/models"
)

// CycleShift is how far each replay of the pattern moves forward in time.
// It stays at one week whatever the pattern length is.
const CycleShift = 7 * 24 * time.Hour

// Extrapolate pads source out to targetDays worth of 3-hour samples by replaying the first
// sourceDays of it, each replay shifted by CycleShift times its cycle number.
// The source samples are copied unchanged; a source already at or past the target is returned as is.
func Extrapolate(source []models.Sample, sourceDays, targetDays int) []models.Sample {
	out := make([]models.Sample, len(source), max(len(source), targetDays*models.SlotsPerDay))
	copy(out, source)

	patternLength := min(len(source), sourceDays*models.SlotsPerDay)
	if patternLength <= 0 {
		return out
	}
	pattern := source[:patternLength]

	target := targetDays * models.SlotsPerDay
	for len(out) < target {
		n := len(out)
		cycle := n / patternLength

		next := pattern[n%patternLength]
		next.Timestamp = next.Timestamp.Add(time.Duration(cycle) * CycleShift)
		out = append(out, next)
	}

	return out
}
