package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weather-dashboard/api"
	"weather-dashboard/cache"
	"weather-dashboard/collector"
	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/messaging"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	// Parse command line arguments
	port := flag.IntP("port", "p", 0, "Port to run the server on (overrides config)")
	configFile := flag.StringP("config", "c", "config.json", "Path to configuration file")
	enableRateLimiting := flag.Bool("rate-limit", true, "Enable API rate limiting")
	enablePrefetch := flag.Bool("prefetch", true, "Keep configured locations warm in the cache")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	provider, err := datasource.New(cfg.Provider, datasource.Config{
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.BaseURL(),
		Timeout: time.Duration(cfg.RequestTimeout),
	})
	if err != nil {
		log.Fatalf("Failed to create provider: %v", err)
	}
	log.Printf("Using %s provider", provider.Name())

	// Apply rate limiting if enabled
	if *enableRateLimiting {
		rps, burst := datasource.LimitsFor(provider.Name())
		provider = datasource.NewRateLimitedProvider(provider, rps, rps, burst)
		log.Printf("Applied rate limiting to %s (%.1f rps, burst %d)", provider.Name(), rps, burst)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional Redis cache in front of the provider
	var cached *cache.CachedProvider
	if cfg.RedisURL != "" {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err := cache.Connect(connectCtx, cfg.RedisURL)
		cancel()
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()

		cached = cache.NewCachedProvider(provider, cfg.Provider, client, time.Duration(cfg.CacheTTL))
		provider = cached
		log.Printf("Redis cache enabled (ttl %s)", time.Duration(cfg.CacheTTL))
	}

	opts := []dashboard.Option{}
	if cfg.CityTimezone() {
		opts = append(opts, dashboard.WithCityTimezone())
	} else {
		loc, err := cfg.Location()
		if err != nil {
			log.Fatalf("Invalid timezone: %v", err)
		}
		opts = append(opts, dashboard.WithLocation(loc))
	}

	// Optional Kafka publishing of computed reports
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := messaging.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Fatalf("Failed to create Kafka producer: %v", err)
		}
		defer producer.Close()
		opts = append(opts, dashboard.WithPublisher(producer))
	}

	service := dashboard.NewService(provider, opts...)
	server := api.NewServer(service, cfg.Port)

	// Warming only pays off when there is a cache to warm
	if *enablePrefetch && cached != nil && len(cfg.Locations) > 0 {
		prefetcher := collector.NewPrefetcher(provider, cfg.Locations, forecast.NativeDays, time.Duration(cfg.PrefetchInterval))
		prefetcher.SetFetchTimeout(time.Duration(cfg.RequestTimeout))
		stopPrefetch := prefetcher.Start(ctx)
		defer stopPrefetch()

		go func() {
			for err := range prefetcher.ErrorChannel() {
				log.Printf("Prefetch error: %v", err)
			}
		}()
	}

	// Start the API server in a goroutine
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if cached != nil {
		hits, misses := cached.CacheStats()
		log.Printf("Cache stats: %d hits, %d misses", hits, misses)
	}
	log.Println("Shutdown complete")
}
