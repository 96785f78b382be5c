package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// NativeDays is how many days the upstream forecast covers without extrapolation
const NativeDays = 7

// ErrUnknownHorizon is returned by ParseHorizon for unsupported view names
var ErrUnknownHorizon = errors.New("unknown forecast view")

// Horizon selects how many days a forecast view shows
type Horizon int

const (
	// Week is the native 7-day view
	Week Horizon = iota
	// Month is the synthetic 30-day view
	Month
)

// ParseHorizon maps a view name to a Horizon. Empty selects Week.
func ParseHorizon(s string) (Horizon, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "week", "7":
		return Week, nil
	case "month", "30":
		return Month, nil
	}
	return Week, fmt.Errorf("%w: %q", ErrUnknownHorizon, s)
}

// Days returns the number of daily summaries shown for h
func (h Horizon) Days() int {
	if h == Month {
		return 30
	}
	return NativeDays
}

// Extended reports whether h needs more days than the provider returns
func (h Horizon) Extended() bool {
	return h.Days() > NativeDays
}

func (h Horizon) String() string {
	if h == Month {
		return "month"
	}
	return "week"
}
