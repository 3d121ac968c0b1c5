package config

import (
	"fmt"
	"net"
	"strconv"
	"sync/atomic"
)

var configValue atomic.Value

func GetConfig() *Config {
	return configValue.Load().(*Config)
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string        `mapstructure:"version"`
	Environment string        `mapstructure:"environment"`
	Server      ServerConfig  `mapstructure:"server"`
	Weather     WeatherConfig `mapstructure:"weather"`
	Storage     StorageConfig `mapstructure:"storage"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// ServerConfig timeouts are in seconds; zero disables the timeout.
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	IdleTimeout     int    `mapstructure:"idle_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type WeatherConfig struct {
	GeocodingURL string `mapstructure:"geocoding_url"`
	ForecastURL  string `mapstructure:"forecast_url"`
	Language     string `mapstructure:"language"`
	ResultCount  int    `mapstructure:"result_count"`
	Timeout      int    `mapstructure:"timeout"`
	ForceIPv4    bool   `mapstructure:"force_ipv4"`
}

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type StorageConfig struct {
	Backend      string `mapstructure:"backend"`
	LocationFile string `mapstructure:"location_file"`
	LocationDB   string `mapstructure:"location_db"`
	HistoryDB    string `mapstructure:"history_db"`
	PostgresURL  string `mapstructure:"postgres_url"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port: 3000,
			// Empty host listens on every interface, IPv4 and IPv6.
			Host: "",
		},
		Weather: WeatherConfig{
			GeocodingURL: "https://geocoding-api.open-meteo.com/v1/search",
			ForecastURL:  "https://api.open-meteo.com/v1/forecast",
			Language:     "en",
			ResultCount:  1,
			Timeout:      0,
			// IPv6 routes to open-meteo hang on some hosts.
			ForceIPv4: true,
		},
		Storage: StorageConfig{
			Backend:      BackendSQLite,
			LocationFile: "location.json",
			LocationDB:   "location.db",
			HistoryDB:    "store.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
	}
}

// Validate reports settings that would make the service unusable.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Weather.GeocodingURL == "" || c.Weather.ForecastURL == "" {
		return fmt.Errorf("weather upstream URLs must be set")
	}
	switch c.Storage.Backend {
	case BackendMemory, BackendFile, BackendSQLite:
	case BackendPostgres:
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("storage.postgres_url is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}
	return nil
}
