package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/vzahanych/city-weather/internal/config"
	"go.uber.org/zap"
)

var validate = validator.New()

// OpenMeteoService talks to the Open-Meteo geocoding and forecast APIs.
type OpenMeteoService struct {
	geocodingURL string
	forecastURL  string
	language     string
	count        int
	client       *http.Client
	logger       *zap.Logger
}

type geocodingResponse struct {
	Results []geocodingResult `json:"results" validate:"dive"`
}

type geocodingResult struct {
	Name      *string  `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

type forecastResponse struct {
	CurrentWeather *currentWeather `json:"current_weather" validate:"required"`
}

type currentWeather struct {
	Temperature *float64 `json:"temperature" validate:"required"`
	Windspeed   *float64 `json:"windspeed" validate:"required"`
	Weathercode *int     `json:"weathercode" validate:"required"`
	Time        *string  `json:"time" validate:"required"`
}

func NewOpenMeteoServiceWithConfig(cfg config.WeatherConfig, client *http.Client, logger *zap.Logger) *OpenMeteoService {
	count := cfg.ResultCount
	if count <= 0 {
		count = 1
	}
	return &OpenMeteoService{
		geocodingURL: cfg.GeocodingURL,
		forecastURL:  cfg.ForecastURL,
		language:     cfg.Language,
		count:        count,
		client:       client,
		logger:       logger,
	}
}

func (s *OpenMeteoService) Name() string {
	return "open-meteo"
}

func (s *OpenMeteoService) Search(ctx context.Context, name string) ([]Place, error) {
	q := url.Values{}
	q.Set("name", name)
	q.Set("count", strconv.Itoa(s.count))
	q.Set("language", s.language)
	q.Set("format", "json")

	var resp geocodingResponse
	if err := s.getJSON(ctx, s.geocodingURL, q, &resp); err != nil {
		return nil, fmt.Errorf("geocoding request: %w", err)
	}

	places := make([]Place, 0, len(resp.Results))
	for _, r := range resp.Results {
		places = append(places, Place{
			Name:      *r.Name,
			Latitude:  *r.Latitude,
			Longitude: *r.Longitude,
		})
	}

	s.logger.Debug("Geocoding completed",
		zap.String("name", name),
		zap.Int("results", len(places)))

	return places, nil
}

func (s *OpenMeteoService) CurrentWeather(ctx context.Context, lat, lon float64) (CurrentWeather, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("current_weather", "true")

	var resp forecastResponse
	if err := s.getJSON(ctx, s.forecastURL, q, &resp); err != nil {
		return CurrentWeather{}, fmt.Errorf("forecast request: %w", err)
	}

	cw := resp.CurrentWeather
	return CurrentWeather{
		Temperature: *cw.Temperature,
		Windspeed:   *cw.Windspeed,
		Weathercode: *cw.Weathercode,
		Time:        *cw.Time,
	}, nil
}

// getJSON issues a GET to baseURL with q, then decodes and validates the body into out.
func (s *OpenMeteoService) getJSON(ctx context.Context, baseURL string, q url.Values, out any) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return err
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API request failed with status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}

	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("unexpected response shape: %w", err)
	}

	return nil
}
