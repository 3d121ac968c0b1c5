// Package storage holds the persistent key-value caches used by the service:
// resolved city locations and the append-only weather observation log.
package storage

import (
	"context"
	"strings"
)

// Location is a geocoded city.
type Location struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Observation is a recorded set of current conditions.
type Observation struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	Weathercode int     `json:"weathercode"`
}

// LocationCache maps a city name to its resolved location. Keys are case
// insensitive and Set overwrites any previous entry.
type LocationCache interface {
	Get(ctx context.Context, city string) (Location, bool, error)
	Set(ctx context.Context, city string, loc Location) error
	Close() error
}

// WeatherHistory stores observations keyed by (city, timestamp). Set never
// overwrites an existing entry.
type WeatherHistory interface {
	Get(ctx context.Context, city, timestamp string) (Observation, bool, error)
	Set(ctx context.Context, city, timestamp string, obs Observation) error
	Close() error
}

// Key returns the normalised cache key for a city.
func Key(city string) string {
	return strings.ToLower(city)
}
