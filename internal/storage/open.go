package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/vzahanych/city-weather/internal/config"
	"go.uber.org/zap"
)

// Stores bundles the caches built for one storage backend.
type Stores struct {
	Locations LocationCache
	History   WeatherHistory

	closers []func() error
}

func (s *Stores) Close() error {
	var errs []error
	for _, closeFn := range s.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open builds both caches for cfg.Backend.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*Stores, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &Stores{
			Locations: NewMemoryLocationCache(),
			History:   NewMemoryWeatherHistory(),
		}, nil

	case config.BackendFile:
		history, err := NewSQLiteWeatherHistory(ctx, cfg.HistoryDB, logger)
		if err != nil {
			return nil, fmt.Errorf("open weather history: %w", err)
		}
		return &Stores{
			Locations: NewFileLocationCache(afero.NewOsFs(), cfg.LocationFile),
			History:   history,
			closers:   []func() error{history.Close},
		}, nil

	case config.BackendSQLite:
		locations, err := NewSQLiteLocationCache(ctx, cfg.LocationDB, logger)
		if err != nil {
			return nil, fmt.Errorf("open location cache: %w", err)
		}
		history, err := NewSQLiteWeatherHistory(ctx, cfg.HistoryDB, logger)
		if err != nil {
			locations.Close()
			return nil, fmt.Errorf("open weather history: %w", err)
		}
		return &Stores{
			Locations: locations,
			History:   history,
			closers:   []func() error{locations.Close, history.Close},
		}, nil

	case config.BackendPostgres:
		pg, err := NewPostgresStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres store: %w", err)
		}
		return &Stores{
			Locations: pg.Locations(),
			History:   pg.History(),
			closers: []func() error{func() error {
				pg.Close()
				return nil
			}},
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %q", cfg.Backend)
	}
}
