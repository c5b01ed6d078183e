package handler

import (
	"net/http"

	"inventory-service/internal/report"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Report runs the filtered product report. Filters come from the query
// string or the form body: repeated category and supplier ids, min_price
// and max_price. A GET without any of them is the initial load and returns
// an empty report; a POST always runs the query.
func (h *Handler) Report(c echo.Context) error {
	log := logger.FromContext(c)

	form, err := formParams(c)
	if err != nil {
		return respondError(c, err, "Report", "")
	}
	filter, err := report.ParseFilter(form)
	if err != nil {
		return respondError(c, err, "Report", "")
	}
	if c.Request().Method == http.MethodPost {
		filter.Submitted = true
	}

	result, err := h.reports.Run(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err, "Report", "Failed to run report")
	}

	log.Info("Report generated",
		zap.Bool("submitted", filter.Submitted),
		zap.Bool("filtered", filter.Active()),
		zap.Int64("count", result.Stats.Count))
	return c.JSON(http.StatusOK, result)
}
