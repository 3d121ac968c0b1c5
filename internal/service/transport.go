package service

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/vzahanych/city-weather/internal/config"
)

// NewHTTPClient builds the outbound client for the Open-Meteo APIs. With
// ForceIPv4 every connection is dialed over tcp4.
func NewHTTPClient(cfg config.WeatherConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ForceIPv4 {
		dialer := &net.Dialer{KeepAlive: 30 * time.Second}
		transport.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		}
	}

	return &http.Client{
		Transport: transport,
		Timeout:   time.Duration(cfg.Timeout) * time.Second,
	}
}
