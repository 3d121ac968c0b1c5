package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	createLocationsSQLite = `
		CREATE TABLE IF NOT EXISTS locations (
			city        TEXT PRIMARY KEY,
			name        TEXT NOT NULL,
			coordinates TEXT NOT NULL
		)`
	getLocationSQLite = `SELECT name, coordinates FROM locations WHERE city = ?`
	setLocationSQLite = `INSERT OR REPLACE INTO locations (city, name, coordinates) VALUES (?, ?, ?)`

	createHistorySQLite = `
		CREATE TABLE IF NOT EXISTS weather_history (
			city TEXT NOT NULL,
			time TEXT NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (city, time)
		)`
	getHistorySQLite = `SELECT data FROM weather_history WHERE city = ? AND time = ?`
	setHistorySQLite = `INSERT OR IGNORE INTO weather_history (city, time, data) VALUES (?, ?, ?)`
)

// openSQLite opens (creating if needed) the database at path and ensures the
// given schema exists.
func openSQLite(ctx context.Context, path, schema string, logger *zap.Logger) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.ExecContext(ctx, pragma); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	logger.Debug("Opened sqlite database", zap.String("path", path))
	return conn, nil
}

type coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type SQLiteLocationCache struct {
	db *sql.DB
}

func NewSQLiteLocationCache(ctx context.Context, path string, logger *zap.Logger) (*SQLiteLocationCache, error) {
	db, err := openSQLite(ctx, path, createLocationsSQLite, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteLocationCache{db: db}, nil
}

func (c *SQLiteLocationCache) Get(ctx context.Context, city string) (Location, bool, error) {
	var name, coordsJSON string
	err := c.db.QueryRowContext(ctx, getLocationSQLite, Key(city)).Scan(&name, &coordsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Location{}, false, nil
	}
	if err != nil {
		return Location{}, false, fmt.Errorf("location lookup failed: %w", err)
	}

	var coords coordinates
	if err := json.Unmarshal([]byte(coordsJSON), &coords); err != nil {
		return Location{}, false, fmt.Errorf("invalid stored coordinates: %w", err)
	}

	return Location{Name: name, Latitude: coords.Latitude, Longitude: coords.Longitude}, true, nil
}

func (c *SQLiteLocationCache) Set(ctx context.Context, city string, loc Location) error {
	coordsJSON, err := json.Marshal(coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude})
	if err != nil {
		return err
	}

	if _, err := c.db.ExecContext(ctx, setLocationSQLite, Key(city), loc.Name, string(coordsJSON)); err != nil {
		return fmt.Errorf("failed to store location: %w", err)
	}
	return nil
}

func (c *SQLiteLocationCache) Close() error {
	return c.db.Close()
}

type SQLiteWeatherHistory struct {
	db *sql.DB
}

func NewSQLiteWeatherHistory(ctx context.Context, path string, logger *zap.Logger) (*SQLiteWeatherHistory, error) {
	db, err := openSQLite(ctx, path, createHistorySQLite, logger)
	if err != nil {
		return nil, err
	}
	return &SQLiteWeatherHistory{db: db}, nil
}

func (h *SQLiteWeatherHistory) Get(ctx context.Context, city, timestamp string) (Observation, bool, error) {
	var data string
	err := h.db.QueryRowContext(ctx, getHistorySQLite, Key(city), timestamp).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return Observation{}, false, nil
	}
	if err != nil {
		return Observation{}, false, fmt.Errorf("history lookup failed: %w", err)
	}

	var obs Observation
	if err := json.Unmarshal([]byte(data), &obs); err != nil {
		return Observation{}, false, fmt.Errorf("invalid stored observation: %w", err)
	}
	return obs, true, nil
}

func (h *SQLiteWeatherHistory) Set(ctx context.Context, city, timestamp string, obs Observation) error {
	data, err := json.Marshal(obs)
	if err != nil {
		return err
	}

	if _, err := h.db.ExecContext(ctx, setHistorySQLite, Key(city), timestamp, string(data)); err != nil {
		return fmt.Errorf("failed to store observation: %w", err)
	}
	return nil
}

func (h *SQLiteWeatherHistory) Close() error {
	return h.db.Close()
}
