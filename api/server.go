package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"weather-dashboard/datasource"
	"weather-dashboard/forecast"
	"weather-dashboard/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ForecastService is what the HTTP layer needs from the dashboard
type ForecastService interface {
	Current(ctx context.Context, city string) (models.WeatherData, error)
	Forecast(ctx context.Context, city string, horizon forecast.Horizon) (models.ForecastReport, error)
}

// About is the footer metadata shown under every dashboard page
type About struct {
	Name        string `json:"name"`
	Copyright   string `json:"copyright"`
	Attribution string `json:"attribution"`
	Year        int    `json:"year"`
}

// Server represents the API server
type Server struct {
	service ForecastService
	router  chi.Router
	server  *http.Server
	now     func() time.Time
}

// NewServer creates a new API server
func NewServer(service ForecastService, port int) *Server {
	s := &Server{
		service: service,
		router:  chi.NewRouter(),
		now:     time.Now,
	}

	s.router.Use(RequestID)
	s.router.Use(RequestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/weather/{city}", s.handleGetWeather)
		r.Get("/forecast/{city}", s.handleGetForecast)
		r.Get("/about", s.handleAbout)
		r.Get("/health", s.handleHealthCheck)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the router, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins the API server. It returns nil after a clean Shutdown.
func (s *Server) Start() error {
	log.Printf("Starting API server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleGetWeather handles requests for current weather by city
func (s *Server) handleGetWeather(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	if city == "" {
		writeError(w, r, http.StatusBadRequest, "Location not specified")
		return
	}

	data, err := s.service.Current(r.Context(), city)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"location":  city,
		"data":      data,
		"timestamp": s.now(),
	})
}

// handleGetForecast handles requests for the daily forecast, ?view=week|month
func (s *Server) handleGetForecast(w http.ResponseWriter, r *http.Request) {
	city := cityParam(r)
	if city == "" {
		writeError(w, r, http.StatusBadRequest, "Location not specified")
		return
	}

	horizon, err := forecast.ParseHorizon(r.URL.Query().Get("view"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := s.service.Forecast(r.Context(), city, horizon)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleAbout returns the footer metadata
func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	year := s.now().Year()
	writeJSON(w, http.StatusOK, About{
		Name:        "Weather Dashboard",
		Copyright:   fmt.Sprintf("© %d Weather Dashboard. All rights reserved.", year),
		Attribution: "Powered by OpenWeather API",
		Year:        year,
	})
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": s.now().Format(time.RFC3339),
	})
}

// writeServiceError maps dashboard errors to a status code and logs the cause
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	log.Printf("Request %s %s failed (%d): %v", RequestIDFrom(r.Context()), r.URL.Path, status, err)

	message := "Failed to fetch weather data"
	switch status {
	case http.StatusNotFound:
		message = "Location not found"
	case http.StatusServiceUnavailable:
		message = "Weather provider is not configured"
	case http.StatusGatewayTimeout:
		message = "Weather provider timed out"
	}
	writeError(w, r, status, message)
}

// StatusFor returns the HTTP status used for an error from the dashboard service
func StatusFor(err error) int {
	var apiErr *datasource.APIError
	switch {
	case errors.Is(err, forecast.ErrUnknownHorizon):
		return http.StatusBadRequest
	case errors.Is(err, datasource.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, datasource.ErrMissingAPIKey):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden):
		// the provider rejected our key
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func cityParam(r *http.Request) string {
	city := chi.URLParam(r, "city")
	if decoded, err := url.PathUnescape(city); err == nil {
		city = decoded
	}
	return strings.TrimSpace(city)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error":     message,
		"requestId": RequestIDFrom(r.Context()),
	})
}
