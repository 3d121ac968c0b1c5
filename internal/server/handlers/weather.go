package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vzahanych/city-weather/internal/server/utils"
	"github.com/vzahanych/city-weather/internal/weather"
	"go.uber.org/zap"
)

// WeatherLookup resolves the current weather for a city.
type WeatherLookup interface {
	Lookup(ctx context.Context, city string) (weather.Report, error)
}

type WeatherHandler struct {
	lookup WeatherLookup
	logger *zap.Logger
}

func NewWeatherHandler(lookup WeatherLookup, logger *zap.Logger) *WeatherHandler {
	return &WeatherHandler{
		lookup: lookup,
		logger: logger,
	}
}

func (h *WeatherHandler) GetWeather(c *gin.Context) {
	if c.Request.Method != http.MethodGet {
		c.JSON(http.StatusMethodNotAllowed, ErrorResponse{Error: methodNotAllowedBody})
		return
	}

	reqLogger := utils.RequestLogger(c, h.logger)

	req := WeatherRequest{City: c.Query("city")}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		reqLogger.Warn("Invalid request parameters", zap.Any("errors", errs))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: errs[0].Message})
		return
	}

	reqLogger.Info("Processing weather request", zap.String("city", req.City))

	report, err := h.lookup.Lookup(c.Request.Context(), req.City)
	switch {
	case errors.Is(err, weather.ErrCityNotFound):
		reqLogger.Info("City not found", zap.String("city", req.City))
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "City not found: " + req.City})
		return
	case err != nil:
		reqLogger.Error("Failed to get weather data", zap.String("city", req.City), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: weatherFailedMessage})
		return
	}

	reqLogger.Info("Weather request completed successfully",
		zap.String("city", report.City),
		zap.String("time", report.Time))

	c.JSON(http.StatusOK, report)
}
