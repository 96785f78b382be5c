package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"weather-dashboard/models"
)

// OpenWeatherMapProvider implements both WeatherProvider and ForecastSource interfaces
type OpenWeatherMapProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenWeatherMapProvider creates a new OpenWeatherMap provider
func NewOpenWeatherMapProvider(cfg Config) *OpenWeatherMapProvider {
	return &OpenWeatherMapProvider{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.baseURL("https://api.openweathermap.org/data/2.5"),
		httpClient: cfg.httpClient(),
	}
}

// Name returns the provider name
func (p *OpenWeatherMapProvider) Name() string {
	return "OpenWeatherMap"
}

// get performs a metric-unit GET against endpoint and returns the body of a 200 response
func (p *OpenWeatherMapProvider) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrMissingAPIKey)
	}

	params.Set("appid", p.apiKey)
	params.Set("units", "metric")

	// Create request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Execute request
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := checkStatus(p.Name(), resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// GetWeather fetches current weather for a location
func (p *OpenWeatherMapProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	params := url.Values{}
	params.Set("q", location)

	body, err := p.get(ctx, "/weather", params)
	if err != nil {
		return models.WeatherData{}, err
	}

	var response struct {
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
			Pressure  int     `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   int     `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
			Icon        string `json:"icon"`
		} `json:"weather"`
		Name string `json:"name"`
		Dt   int64  `json:"dt"`
		Sys  struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to parse response: %w", err)
	}

	description := ""
	icon := ""
	if len(response.Weather) > 0 {
		description = response.Weather[0].Description
		icon = response.Weather[0].Icon
	}

	timestamp := time.Now()
	if response.Dt > 0 {
		timestamp = time.Unix(response.Dt, 0)
	}

	return models.WeatherData{
		Provider:    p.Name(),
		Location:    formatLocation(response.Name, response.Sys.Country),
		Temperature: response.Main.Temp,
		FeelsLike:   response.Main.FeelsLike,
		Humidity:    float64(response.Main.Humidity),
		WindSpeed:   response.Wind.Speed,
		WindDeg:     response.Wind.Deg,
		Pressure:    float64(response.Main.Pressure),
		Description: description,
		Icon:        icon,
		Sunrise:     time.Unix(response.Sys.Sunrise, 0),
		Sunset:      time.Unix(response.Sys.Sunset, 0),
		Timestamp:   timestamp,
	}, nil
}

// FetchForecast fetches days*8 three-hour samples for a location
func (p *OpenWeatherMapProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	// The forecast endpoint returns data in 3-hour steps, cnt limits the number of steps
	params := url.Values{}
	params.Set("q", location)
	params.Set("cnt", strconv.Itoa(days*models.SlotsPerDay))

	body, err := p.get(ctx, "/forecast", params)
	if err != nil {
		return models.ForecastSeries{}, err
	}

	var response struct {
		City struct {
			Name     string `json:"name"`
			Country  string `json:"country"`
			Timezone int    `json:"timezone"`
		} `json:"city"`
		List []struct {
			Main struct {
				Temp     float64 `json:"temp"`
				Humidity int     `json:"humidity"`
				Pressure int     `json:"pressure"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
				Deg   int     `json:"deg"`
			} `json:"wind"`
			Weather []struct {
				Description string `json:"description"`
				Icon        string `json:"icon"`
			} `json:"weather"`
			Dt int64 `json:"dt"`
		} `json:"list"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return models.ForecastSeries{}, fmt.Errorf("failed to parse response: %w", err)
	}

	series := models.ForecastSeries{
		Provider:       p.Name(),
		Location:       formatLocation(response.City.Name, response.City.Country),
		TimezoneOffset: response.City.Timezone,
		Samples:        make([]models.Sample, 0, len(response.List)),
		Updated:        time.Now(),
	}

	for _, item := range response.List {
		// Entries without a condition carry no icon or description
		description := ""
		icon := ""
		if len(item.Weather) > 0 {
			description = item.Weather[0].Description
			icon = item.Weather[0].Icon
		}

		series.Samples = append(series.Samples, models.Sample{
			Timestamp:   time.Unix(item.Dt, 0).UTC(),
			Temperature: item.Main.Temp,
			Icon:        icon,
			Description: description,
			Humidity:    float64(item.Main.Humidity),
			Pressure:    float64(item.Main.Pressure),
			WindSpeed:   item.Wind.Speed,
			WindDeg:     item.Wind.Deg,
		})
	}

	sortSamples(series.Samples)
	return series, nil
}

func formatLocation(name, country string) string {
	if country == "" {
		return name
	}
	return fmt.Sprintf("%s,%s", name, country)
}

func sortSamples(samples []models.Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Timestamp.Before(samples[j].Timestamp)
	})
}

var _ Provider = (*OpenWeatherMapProvider)(nil)
