package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"weather-dashboard/models"
)

// WeatherAPIProvider implements both WeatherProvider and ForecastSource interfaces
type WeatherAPIProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewWeatherAPIProvider creates a new WeatherAPI provider
func NewWeatherAPIProvider(cfg Config) *WeatherAPIProvider {
	return &WeatherAPIProvider{
		apiKey:     cfg.APIKey,
		baseURL:    cfg.baseURL("https://api.weatherapi.com/v1"),
		httpClient: cfg.httpClient(),
	}
}

// Name returns the provider name
func (p *WeatherAPIProvider) Name() string {
	return "WeatherAPI"
}

type weatherAPICondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type weatherAPILocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	TzID    string `json:"tz_id"`
}

func (p *WeatherAPIProvider) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrMissingAPIKey)
	}
	params.Set("key", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// WeatherAPI reports unknown locations as 400 with error code 1006
	if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(body), `"code":1006`) {
		return nil, fmt.Errorf("%s: %w", p.Name(), ErrLocationNotFound)
	}

	if err := checkStatus(p.Name(), resp.StatusCode, body); err != nil {
		return nil, err
	}
	return body, nil
}

// GetWeather fetches current weather for a location
func (p *WeatherAPIProvider) GetWeather(ctx context.Context, location string) (models.WeatherData, error) {
	params := url.Values{}
	params.Set("q", location)

	body, err := p.get(ctx, "/current.json", params)
	if err != nil {
		return models.WeatherData{}, err
	}

	var response struct {
		Location weatherAPILocation `json:"location"`
		Current  struct {
			TempC       float64             `json:"temp_c"`
			FeelsLikeC  float64             `json:"feelslike_c"`
			Humidity    int                 `json:"humidity"`
			WindKph     float64             `json:"wind_kph"`
			WindDegree  int                 `json:"wind_degree"`
			PressureMb  float64             `json:"pressure_mb"`
			Condition   weatherAPICondition `json:"condition"`
			LastUpdated int64               `json:"last_updated_epoch"`
		} `json:"current"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return models.WeatherData{}, fmt.Errorf("failed to parse response: %w", err)
	}

	timestamp := time.Now()
	if response.Current.LastUpdated > 0 {
		timestamp = time.Unix(response.Current.LastUpdated, 0)
	}

	return models.WeatherData{
		Provider:    p.Name(),
		Location:    formatLocation(response.Location.Name, response.Location.Country),
		Temperature: response.Current.TempC,
		FeelsLike:   response.Current.FeelsLikeC,
		Humidity:    float64(response.Current.Humidity),
		WindSpeed:   response.Current.WindKph / 3.6, // Convert to m/s
		WindDeg:     response.Current.WindDegree,
		Pressure:    response.Current.PressureMb,
		Description: response.Current.Condition.Text,
		Icon:        response.Current.Condition.Icon,
		Timestamp:   timestamp,
	}, nil
}

// FetchForecast fetches the hourly forecast and keeps the 3-hour slots, giving 8 samples per day
func (p *WeatherAPIProvider) FetchForecast(ctx context.Context, location string, days int) (models.ForecastSeries, error) {
	params := url.Values{}
	params.Set("q", location)
	params.Set("days", strconv.Itoa(days))

	body, err := p.get(ctx, "/forecast.json", params)
	if err != nil {
		return models.ForecastSeries{}, err
	}

	var response struct {
		Location weatherAPILocation `json:"location"`
		Forecast struct {
			ForecastDay []struct {
				Hour []struct {
					TimeEpoch  int64               `json:"time_epoch"`
					Time       string              `json:"time"`
					TempC      float64             `json:"temp_c"`
					Humidity   int                 `json:"humidity"`
					WindKph    float64             `json:"wind_kph"`
					WindDegree int                 `json:"wind_degree"`
					PressureMb float64             `json:"pressure_mb"`
					Condition  weatherAPICondition `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := json.Unmarshal(body, &response); err != nil {
		return models.ForecastSeries{}, fmt.Errorf("failed to parse response: %w", err)
	}

	series := models.ForecastSeries{
		Provider:       p.Name(),
		Location:       formatLocation(response.Location.Name, response.Location.Country),
		TimezoneOffset: zoneOffset(response.Location.TzID),
		Samples:        []models.Sample{},
		Updated:        time.Now(),
	}

	limit := days * models.SlotsPerDay
	for _, day := range response.Forecast.ForecastDay {
		for _, hour := range day.Hour {
			if !onThreeHourSlot(hour.Time) {
				continue
			}
			series.Samples = append(series.Samples, models.Sample{
				Timestamp:   time.Unix(hour.TimeEpoch, 0).UTC(),
				Temperature: hour.TempC,
				Icon:        iconCode(hour.Condition.Icon),
				Description: strings.ToLower(strings.TrimSpace(hour.Condition.Text)),
				Humidity:    float64(hour.Humidity),
				Pressure:    hour.PressureMb,
				WindSpeed:   hour.WindKph / 3.6, // Convert to m/s
				WindDeg:     hour.WindDegree,
			})
		}
	}

	sortSamples(series.Samples)
	if len(series.Samples) > limit {
		series.Samples = series.Samples[:limit]
	}
	return series, nil
}

// onThreeHourSlot reports whether a local "2006-01-02 15:04" time falls on 00, 03, ... 21
func onThreeHourSlot(local string) bool {
	t, err := time.Parse("2006-01-02 15:04", local)
	if err != nil {
		return false
	}
	return t.Minute() == 0 && t.Hour()%3 == 0
}

// iconCode reduces "//cdn.weatherapi.com/weather/64x64/day/113.png" to "day/113"
func iconCode(icon string) string {
	icon = strings.TrimSuffix(icon, ".png")
	parts := strings.Split(icon, "/")
	if len(parts) < 2 {
		return icon
	}
	return parts[len(parts)-2] + "/" + parts[len(parts)-1]
}

// zoneOffset returns the current UTC offset in seconds of an IANA zone, or 0 if unknown
func zoneOffset(tzID string) int {
	if tzID == "" {
		return 0
	}
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return 0
	}
	_, offset := time.Now().In(loc).Zone()
	return offset
}

var _ Provider = (*WeatherAPIProvider)(nil)
