package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/models"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
)

func main() {
	_ = godotenv.Load()

	configFile := flag.StringP("config", "c", "config.json", "Path to configuration file")
	city := flag.String("city", "London,UK", "City to forecast")
	view := flag.StringP("view", "v", "week", "Forecast view: week or month")
	asJSON := flag.Bool("json", false, "Print the report as JSON")
	current := flag.Bool("current", false, "Also print current conditions")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	horizon, err := forecast.ParseHorizon(*view)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(2)
	}

	provider, err := datasource.New(cfg.Provider, datasource.Config{
		APIKey:  cfg.APIKey(),
		BaseURL: cfg.BaseURL(),
		Timeout: time.Duration(cfg.RequestTimeout),
	})
	if err != nil {
		fmt.Printf("Error creating provider: %v\n", err)
		os.Exit(1)
	}

	var opts []dashboard.Option
	if cfg.CityTimezone() {
		opts = append(opts, dashboard.WithCityTimezone())
	} else {
		loc, err := cfg.Location()
		if err != nil {
			fmt.Printf("Invalid timezone: %v\n", err)
			os.Exit(1)
		}
		opts = append(opts, dashboard.WithLocation(loc))
	}
	service := dashboard.NewService(provider, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Duration(cfg.RequestTimeout))
	defer cancel()

	if *current {
		data, err := service.Current(ctx, *city)
		if err != nil {
			fmt.Printf("Error fetching current weather: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s now: %.1f°C (feels like %.1f°C), %s\n\n",
			data.Location, data.Temperature, data.FeelsLike, data.Description)
	}

	report, err := service.Forecast(ctx, *city, horizon)
	if err != nil {
		fmt.Printf("Error fetching forecast: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			fmt.Printf("Error encoding report: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}
	printReport(report)
}

func printReport(report models.ForecastReport) {
	fmt.Printf("%s forecast for %s (%s)\n", report.View, report.Location, report.Provider)
	if report.Note != "" {
		fmt.Printf("Note: %s\n", report.Note)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDAY\tTEMP\tICON\tCONDITIONS")
	for _, day := range report.Days {
		fmt.Fprintf(w, "%s\t%s\t%d°C\t%s\t%s\n",
			day.Date, day.Day.Format("Mon"), day.Temperature, day.Icon, day.Description)
	}
	w.Flush()
}
