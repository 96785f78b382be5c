package collector

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"weather-dashboard/datasource"
)

// Prefetcher periodically fetches the native forecast for a set of locations so that
// dashboard requests find a warm cache
type Prefetcher struct {
	source       datasource.ForecastSource
	locations    []string
	days         int
	interval     time.Duration
	fetchTimeout time.Duration
	errorChan    chan error
}

// NewPrefetcher creates a prefetcher for locations, fetching days of forecast every interval
func NewPrefetcher(source datasource.ForecastSource, locations []string, days int, interval time.Duration) *Prefetcher {
	return &Prefetcher{
		source:       source,
		locations:    locations,
		days:         days,
		interval:     interval,
		fetchTimeout: 10 * time.Second, // Default timeout
		errorChan:    make(chan error, 100),
	}
}

// SetFetchTimeout changes the timeout for API requests
func (p *Prefetcher) SetFetchTimeout(timeout time.Duration) {
	p.fetchTimeout = timeout
}

// ErrorChannel returns the channel that emits fetch errors.
// It is closed once the prefetcher has stopped.
func (p *Prefetcher) ErrorChannel() <-chan error {
	return p.errorChan
}

// Start fetches every location once immediately and then on each tick, until ctx is done.
// The returned function stops the prefetcher and waits for it to finish.
func (p *Prefetcher) Start(ctx context.Context) func() {
	runCtx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(p.errorChan)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.fetchAll(runCtx)
		for {
			select {
			case <-ticker.C:
				p.fetchAll(runCtx)
			case <-runCtx.Done():
				return
			}
		}
	}()

	return func() {
		cancel()
		wg.Wait()
	}
}

// fetchAll fetches all locations concurrently and waits for them
func (p *Prefetcher) fetchAll(ctx context.Context) {
	var wg sync.WaitGroup
	for _, location := range p.locations {
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()
			p.fetchOnce(ctx, loc)
		}(location)
	}
	wg.Wait()
}

// fetchOnce performs a single fetch for one location
func (p *Prefetcher) fetchOnce(ctx context.Context, location string) {
	fetchCtx, cancel := context.WithTimeout(ctx, p.fetchTimeout)
	defer cancel()

	series, err := p.source.FetchForecast(fetchCtx, location, p.days)
	if err != nil {
		select {
		case p.errorChan <- fmt.Errorf("error prefetching %s from %s: %w", location, p.source.Name(), err):
		default:
			// Drop the error if nobody is draining the channel
		}
		return
	}
	log.Printf("Prefetched %d samples for %s from %s", len(series.Samples), location, p.source.Name())
}
