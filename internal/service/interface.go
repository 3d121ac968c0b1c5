package service

import "context"

// Place is a single geocoding match.
type Place struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CurrentWeather is the current-conditions block of a forecast.
type CurrentWeather struct {
	Temperature float64
	Windspeed   float64
	Weathercode int
	Time        string
}

type Geocoder interface {
	// Search returns the matches for a city name; no matches is not an error.
	Search(ctx context.Context, name string) ([]Place, error)
}

type Forecaster interface {
	CurrentWeather(ctx context.Context, lat, lon float64) (CurrentWeather, error)
}
