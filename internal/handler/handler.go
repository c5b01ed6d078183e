package handler

import (
	"errors"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"inventory-service/internal/inventory"
	"inventory-service/internal/report"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler serves the inventory HTTP API.
type Handler struct {
	inventory *inventory.Service
	reports   *report.Runner
	db        *gorm.DB
}

// New creates a Handler. db is only used by the health check.
func New(svc *inventory.Service, reports *report.Runner, db *gorm.DB) *Handler {
	return &Handler{inventory: svc, reports: reports, db: db}
}

// Register mounts every route of the API on e.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/", h.Home)
	e.GET("/health", h.HealthCheck)

	api := e.Group("/api")

	products := api.Group("/products")
	products.GET("", h.ListProducts)
	products.POST("", h.CreateProduct)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.POST("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
	products.GET("/:id/logs", h.ListStockLogs)

	categories := api.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.POST("", h.CreateCategory)
	categories.GET("/:id", h.GetCategory)

	suppliers := api.Group("/suppliers")
	suppliers.GET("", h.ListSuppliers)
	suppliers.POST("", h.CreateSupplier)
	suppliers.GET("/:id", h.GetSupplier)

	api.GET("/report", h.Report)
	api.POST("/report", h.Report)
}

// Home redirects to the product list.
func (h *Handler) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, "/api/products")
}

// respondError maps a service error to its HTTP status. Storage failures are
// logged and answered with failMsg only.
func respondError(c echo.Context, err error, entity, failMsg string) error {
	log := logger.FromContext(c)

	var verr *inventory.ValidationError
	switch {
	case errors.As(err, &verr):
		log.Warn("Invalid request data",
			zap.String("field", verr.Field),
			zap.String("reason", verr.Message))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": verr.Error(),
			"field": verr.Field,
		})
	case errors.Is(err, inventory.ErrNotFound):
		log.Info(entity+" not found", zap.String("id", c.Param("id")))
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": entity + " not found",
		})
	default:
		log.Error(failMsg, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": failMsg,
		})
	}
}

func parseID(c echo.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || id == 0 {
		return 0, &inventory.ValidationError{Field: "id", Message: "invalid id " + strconv.Quote(raw)}
	}
	return uint(id), nil
}

func formParams(c echo.Context) (url.Values, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, &inventory.ValidationError{Message: "malformed form data"}
	}
	return form, nil
}

func present(form url.Values, key string) bool {
	_, ok := form[key]
	return ok
}

// optionalString returns nil for a blank value.
func optionalString(form url.Values, key string) *string {
	v := strings.TrimSpace(form.Get(key))
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(form url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, &inventory.ValidationError{Field: key, Message: "must be a whole number"}
	}
	return &v, nil
}

func optionalFloat(form url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, &inventory.ValidationError{Field: key, Message: "must be a number"}
	}
	return &v, nil
}

func optionalID(form url.Values, key string) (*uint, error) {
	raw := strings.TrimSpace(form.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 0)
	if err != nil || v == 0 {
		return nil, &inventory.ValidationError{Field: key, Message: "invalid id " + strconv.Quote(raw)}
	}
	id := uint(v)
	return &id, nil
}
