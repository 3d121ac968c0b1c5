package utils

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const RequestIDKey = "request_id"

// GetRequestIDFromGinContext extracts request ID from Gin context
func GetRequestIDFromGinContext(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// RequestLogger returns logger annotated with the request ID, if any.
func RequestLogger(c *gin.Context, logger *zap.Logger) *zap.Logger {
	if requestID := GetRequestIDFromGinContext(c); requestID != "" {
		return logger.With(zap.String("request_id", requestID))
	}
	return logger
}
