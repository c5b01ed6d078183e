package handler

import (
	"net/http"
	"time"

	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// HealthCheck handles the health check endpoint, including a database ping
func (h *Handler) HealthCheck(c echo.Context) error {
	log := logger.FromContext(c)

	response := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		log.Error("Database connection error", zap.Error(err))
		response["status"] = "error"
		response["db_status"] = "error"
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := sqlDB.PingContext(c.Request().Context()); err != nil {
		log.Error("Database ping error", zap.Error(err))
		response["status"] = "error"
		response["db_status"] = "error"
		return c.JSON(http.StatusServiceUnavailable, response)
	}

	response["db_status"] = "ok"
	return c.JSON(http.StatusOK, response)
}
