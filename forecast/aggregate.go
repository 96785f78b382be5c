package forecast

import (
	"math"
	"time"

	"weather-dashboard/models"
)

const dateLayout = "2006-01-02"

// bucket collects the samples of one local calendar date
type bucket struct {
	day   time.Time
	date  string
	sum   float64
	count int
	icons tally
	descs tally
}

// Aggregate groups time-ordered samples into one summary per local calendar date in loc.
// Dates appear in the order they are first seen. limit <= 0 keeps every date.
func Aggregate(samples []models.Sample, loc *time.Location, limit int) []models.DailySummary {
	if loc == nil {
		loc = time.Local
	}

	var order []*bucket
	byDate := make(map[string]*bucket)

	for _, s := range samples {
		local := s.Timestamp.In(loc)
		date := local.Format(dateLayout)

		b, ok := byDate[date]
		if !ok {
			y, m, d := local.Date()
			b = &bucket{day: time.Date(y, m, d, 0, 0, 0, 0, loc), date: date}
			byDate[date] = b
			order = append(order, b)
		}

		b.sum += s.Temperature
		b.count++
		b.icons.add(s.Icon)
		b.descs.add(s.Description)
	}

	if limit > 0 && len(order) > limit {
		order = order[:limit]
	}

	summaries := make([]models.DailySummary, 0, len(order))
	for _, b := range order {
		summaries = append(summaries, b.summary())
	}
	return summaries
}

func (b *bucket) summary() models.DailySummary {
	var mean float64
	if b.count > 0 {
		mean = b.sum / float64(b.count)
	}
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		mean = 0
	}

	return models.DailySummary{
		Date:            b.date,
		Day:             b.day,
		MeanTemperature: mean,
		Temperature:     RoundHalfUp(mean),
		Icon:            b.icons.dominant(),
		Description:     b.descs.dominant(),
		Samples:         b.count,
	}
}

// RoundHalfUp rounds to the nearest integer, with halves going towards +Inf (-2.5 becomes -2)
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// tally counts string occurrences while remembering first-seen order
type tally struct {
	counts map[string]int
	seen   []string
}

func (t *tally) add(v string) {
	if t.counts == nil {
		t.counts = make(map[string]int)
	}
	if _, ok := t.counts[v]; !ok {
		t.seen = append(t.seen, v)
	}
	t.counts[v]++
}

// dominant returns the most frequent value. Ties go to the value seen first.
func (t *tally) dominant() string {
	best := ""
	bestCount := 0
	for _, v := range t.seen {
		if c := t.counts[v]; c > bestCount {
			best = v
			bestCount = c
		}
	}
	return best
}
