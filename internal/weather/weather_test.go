package weather

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vzahanych/city-weather/internal/service"
	"github.com/vzahanych/city-weather/internal/storage"
	"go.uber.org/zap/zaptest"
)

type fakeGeocoder struct {
	calls  int
	places []service.Place
	err    error
	names  []string
}

func (f *fakeGeocoder) Search(_ context.Context, name string) ([]service.Place, error) {
	f.calls++
	f.names = append(f.names, name)
	return f.places, f.err
}

type fakeForecaster struct {
	calls   int
	current service.CurrentWeather
	err     error
	lat     float64
	lon     float64
}

func (f *fakeForecaster) CurrentWeather(_ context.Context, lat, lon float64) (service.CurrentWeather, error) {
	f.calls++
	f.lat, f.lon = lat, lon
	return f.current, f.err
}

type failingCache struct{ err error }

func (c failingCache) Get(context.Context, string) (storage.Location, bool, error) {
	return storage.Location{}, false, c.err
}
func (c failingCache) Set(context.Context, string, storage.Location) error { return c.err }
func (c failingCache) Close() error { return nil }

var parisPlace = service.Place{Name: "Paris", Latitude: 48.85341, Longitude: 2.3488}

func newTestService(t *testing.T, cache storage.LocationCache, geo *fakeGeocoder, fc *fakeForecaster) *Service {
	return NewService(cache, geo, fc, zaptest.NewLogger(t))
}

func TestLookup_CacheMissThenHit(t *testing.T) {
	cache := storage.NewMemoryLocationCache()
	geo := &fakeGeocoder{places: []service.Place{parisPlace}}
	fc := &fakeForecaster{current: service.CurrentWeather{Temperature: 17.4, Windspeed: 9.1, Weathercode: 2, Time: "2024-05-01T12:00"}}
	svc := newTestService(t, cache, geo, fc)

	report, err := svc.Lookup(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, Report{
		City:        "Paris",
		Latitude:    48.85341,
		Longitude:   2.3488,
		Temperature: 17.4,
		Windspeed:   9.1,
		Weathercode: 2,
		Time:        "2024-05-01T12:00",
	}, report)
	assert.Equal(t, 48.85341, fc.lat)
	assert.Equal(t, 2.3488, fc.lon)

	cached, found, err := cache.Get(context.Background(), "paris")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Paris", cached.Name)

	_, err = svc.Lookup(context.Background(), "PARIS")
	require.NoError(t, err)

	assert.Equal(t, 1, geo.calls, "second lookup should be served from the cache")
	assert.Equal(t, 2, fc.calls)
}

func TestLookup_GeocodesRawCityName(t *testing.T) {
	geo := &fakeGeocoder{places: []service.Place{parisPlace}}
	svc := newTestService(t, storage.NewMemoryLocationCache(), geo, &fakeForecaster{})

	_, err := svc.Lookup(context.Background(), "PaRiS")
	require.NoError(t, err)
	assert.Equal(t, []string{"PaRiS"}, geo.names)
}

func TestLookup_UsesFirstResult(t *testing.T) {
	geo := &fakeGeocoder{places: []service.Place{
		parisPlace,
		{Name: "Paris", Latitude: 33.66094, Longitude: -95.55551},
	}}
	svc := newTestService(t, storage.NewMemoryLocationCache(), geo, &fakeForecaster{})

	report, err := svc.Lookup(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Equal(t, 48.85341, report.Latitude)
}

func TestLookup_CityNotFound(t *testing.T) {
	cache := storage.NewMemoryLocationCache()
	fc := &fakeForecaster{}
	svc := newTestService(t, cache, &fakeGeocoder{}, fc)

	_, err := svc.Lookup(context.Background(), "Nowhereistan")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCityNotFound)
	assert.NotErrorIs(t, err, ErrUpstream)
	assert.Equal(t, 0, fc.calls)

	_, found, err := cache.Get(context.Background(), "nowhereistan")
	require.NoError(t, err)
	assert.False(t, found, "misses must not be cached")
}

func TestLookup_GeocodingFailure(t *testing.T) {
	svc := newTestService(t, storage.NewMemoryLocationCache(),
		&fakeGeocoder{err: errors.New("connection reset")}, &fakeForecaster{})

	_, err := svc.Lookup(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrUpstream)
	assert.NotErrorIs(t, err, ErrCityNotFound)
}

func TestLookup_ForecastFailure(t *testing.T) {
	cache := storage.NewMemoryLocationCache()
	svc := newTestService(t, cache,
		&fakeGeocoder{places: []service.Place{parisPlace}},
		&fakeForecaster{err: errors.New("invalid JSON response")})

	_, err := svc.Lookup(context.Background(), "Paris")
	assert.ErrorIs(t, err, ErrUpstream)

	_, found, err := cache.Get(context.Background(), "paris")
	require.NoError(t, err)
	assert.True(t, found, "geocoding result is kept even when the forecast fails")
}

func TestLookup_CacheFailure(t *testing.T) {
	boom := errors.New("disk full")
	geo := &fakeGeocoder{}
	svc := newTestService(t, failingCache{err: boom}, geo, &fakeForecaster{})

	_, err := svc.Lookup(context.Background(), "Paris")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrCityNotFound)
	assert.Equal(t, 0, geo.calls)
}
