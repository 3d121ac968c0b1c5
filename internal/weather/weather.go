// Package weather resolves a city to coordinates and fetches its current
// conditions.
package weather

import (
	"context"
	"errors"
	"fmt"

	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/internal/storage"
	"go.uber.org/zap"
)

var (
	// ErrCityNotFound is returned when geocoding yields no match.
	ErrCityNotFound = errors.New("city not found")
	// ErrUpstream wraps any geocoding or forecast failure.
	ErrUpstream = errors.New("upstream request failed")
)

// Report is the combined location and current conditions for a city.
type Report struct {
	City        string  `json:"city"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	Weathercode int     `json:"weathercode"`
	Time        string  `json:"time"`
}

type Service struct {
	locations  storage.LocationCache
	geocoder   service.Geocoder
	forecaster service.Forecaster
	logger     *zap.Logger
}

func NewService(locations storage.LocationCache, geocoder service.Geocoder, forecaster service.Forecaster, logger *zap.Logger) *Service {
	return &Service{
		locations:  locations,
		geocoder:   geocoder,
		forecaster: forecaster,
		logger:     logger,
	}
}

// Lookup returns the current weather for city. Concurrent lookups of the same
// uncached city may each geocode it; the last write to the cache wins.
func (s *Service) Lookup(ctx context.Context, city string) (Report, error) {
	loc, err := s.resolve(ctx, city)
	if err != nil {
		return Report{}, err
	}

	current, err := s.forecaster.CurrentWeather(ctx, loc.Latitude, loc.Longitude)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	return Report{
		City:        loc.Name,
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		Temperature: current.Temperature,
		Windspeed:   current.Windspeed,
		Weathercode: current.Weathercode,
		Time:        current.Time,
	}, nil
}

func (s *Service) resolve(ctx context.Context, city string) (storage.Location, error) {
	loc, found, err := s.locations.Get(ctx, city)
	if err != nil {
		return storage.Location{}, fmt.Errorf("location cache lookup: %w", err)
	}
	if found {
		s.logger.Debug("Location cache hit", zap.String("city", city))
		return loc, nil
	}

	s.logger.Debug("Location cache miss, geocoding", zap.String("city", city))

	places, err := s.geocoder.Search(ctx, city)
	if err != nil {
		return storage.Location{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	if len(places) == 0 {
		return storage.Location{}, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	}

	first := places[0]
	loc = storage.Location{
		Name:      first.Name,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
	}

	if err := s.locations.Set(ctx, city, loc); err != nil {
		return storage.Location{}, fmt.Errorf("location cache store: %w", err)
	}

	s.logger.Info("Location resolved and cached",
		zap.String("city", city),
		zap.String("name", loc.Name),
		zap.Float64("lat", loc.Latitude),
		zap.Float64("lon", loc.Longitude))

	return loc, nil
}
