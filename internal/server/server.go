package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/city-weather/internal/config"
	"github.com/vzahanych/city-weather/internal/server/handlers"
	"github.com/vzahanych/city-weather/internal/server/middlewares"
	"go.uber.org/zap"
)

const notFoundBody = "Not Found"

type Server struct {
	engine *gin.Engine
	server *http.Server
	logger *zap.Logger
}

func NewServer(cfg config.ServerConfig, lookup handlers.WeatherLookup, logger *zap.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// Paths match exactly: no /hello/ -> /hello redirects.
	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	engine.Use(middlewares.RequestIDMiddleware())
	engine.Use(middlewares.LoggingMiddleware(logger))
	engine.Use(middlewares.RecoveryMiddleware(logger, true))

	s := &Server{
		engine: engine,
		logger: logger,
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      engine,
			ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
		},
	}

	s.setupRoutes(lookup)

	return s
}

// setupRoutes registers every method on each path; handlers answer 405 themselves.
// Methods gin has no tree for (PROPFIND, PURGE, ...) land in NoRoute, which
// hands the two known paths back to their handlers.
func (s *Server) setupRoutes(lookup handlers.WeatherLookup) {
	hello := handlers.NewHelloHandler().Hello
	weather := handlers.NewWeatherHandler(lookup, s.logger).GetWeather

	s.engine.Any("/hello", hello)
	s.engine.Any("/weather", weather)

	s.engine.NoRoute(func(c *gin.Context) {
		switch c.Request.URL.Path {
		case "/hello":
			hello(c)
		case "/weather":
			weather(c)
		default:
			c.String(http.StatusNotFound, notFoundBody)
		}
	})
}

// Start listens on the configured address. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("Starting server", zap.String("addr", ln.Addr().String()))
	return s.server.Serve(ln)
}

// Shutdown stops accepting connections and waits for in-flight requests until
// ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// ServeHTTP delegates to the router, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}
