package middleware

import (
	"time"

	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogger logs one line per request with the request-scoped logger
func RequestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		if err := next(c); err != nil {
			c.Error(err)
		}

		status := c.Response().Status
		fields := []zap.Field{
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", status),
			zap.Float64("duration_s", time.Since(start).Seconds()),
			zap.String("ip", c.RealIP()),
		}

		log := logger.FromContext(c)
		if status >= 500 {
			log.Error("HTTP Request", fields...)
		} else {
			log.Info("HTTP Request", fields...)
		}
		return nil
	}
}
