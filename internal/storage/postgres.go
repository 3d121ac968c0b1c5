package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS locations (
		city      TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		latitude  DOUBLE PRECISION NOT NULL,
		longitude DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS weather_history (
		city        TEXT NOT NULL,
		time        TEXT NOT NULL,
		temperature DOUBLE PRECISION NOT NULL,
		windspeed   DOUBLE PRECISION NOT NULL,
		weathercode INTEGER NOT NULL,
		PRIMARY KEY (city, time)
	);
`

const (
	getLocationPostgres = `SELECT name, latitude, longitude FROM locations WHERE city = $1`
	setLocationPostgres = `
		INSERT INTO locations (city, name, latitude, longitude)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (city) DO UPDATE
		SET name = EXCLUDED.name, latitude = EXCLUDED.latitude, longitude = EXCLUDED.longitude`

	getHistoryPostgres = `
		SELECT temperature, windspeed, weathercode
		FROM weather_history
		WHERE city = $1 AND time = $2`
	setHistoryPostgres = `
		INSERT INTO weather_history (city, time, temperature, windspeed, weathercode)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (city, time) DO NOTHING`
)

// PostgresStore backs both caches with one pgx pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the schema exists.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Locations returns the location cache view of the store.
func (s *PostgresStore) Locations() *PostgresLocationCache {
	return &PostgresLocationCache{pool: s.pool}
}

// History returns the weather history view of the store.
func (s *PostgresStore) History() *PostgresWeatherHistory {
	return &PostgresWeatherHistory{pool: s.pool}
}

type PostgresLocationCache struct {
	pool *pgxpool.Pool
}

func (c *PostgresLocationCache) Get(ctx context.Context, city string) (Location, bool, error) {
	var loc Location
	err := c.pool.QueryRow(ctx, getLocationPostgres, Key(city)).Scan(&loc.Name, &loc.Latitude, &loc.Longitude)
	if errors.Is(err, pgx.ErrNoRows) {
		return Location{}, false, nil
	}
	if err != nil {
		return Location{}, false, fmt.Errorf("location lookup failed: %w", err)
	}
	return loc, true, nil
}

func (c *PostgresLocationCache) Set(ctx context.Context, city string, loc Location) error {
	if _, err := c.pool.Exec(ctx, setLocationPostgres, Key(city), loc.Name, loc.Latitude, loc.Longitude); err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}

// Close is a no-op; the owning PostgresStore releases the pool.
func (c *PostgresLocationCache) Close() error { return nil }

type PostgresWeatherHistory struct {
	pool *pgxpool.Pool
}

func (h *PostgresWeatherHistory) Get(ctx context.Context, city, timestamp string) (Observation, bool, error) {
	var obs Observation
	err := h.pool.QueryRow(ctx, getHistoryPostgres, Key(city), timestamp).Scan(&obs.Temperature, &obs.Windspeed, &obs.Weathercode)
	if errors.Is(err, pgx.ErrNoRows) {
		return Observation{}, false, nil
	}
	if err != nil {
		return Observation{}, false, fmt.Errorf("history lookup failed: %w", err)
	}
	return obs, true, nil
}

func (h *PostgresWeatherHistory) Set(ctx context.Context, city, timestamp string, obs Observation) error {
	if _, err := h.pool.Exec(ctx, setHistoryPostgres, Key(city), timestamp, obs.Temperature, obs.Windspeed, obs.Weathercode); err != nil {
		return fmt.Errorf("failed to store observation: %w", err)
	}
	return nil
}

func (h *PostgresWeatherHistory) Close() error { return nil }
