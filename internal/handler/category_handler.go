package handler

import (
	"net/http"

	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListCategories retrieves all product categories
func (h *Handler) ListCategories(c echo.Context) error {
	categories, err := h.inventory.ListCategories(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Category", "Failed to retrieve categories")
	}

	logger.FromContext(c).Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a specific category by ID
func (h *Handler) GetCategory(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Category", "")
	}

	category, err := h.inventory.GetCategory(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Category", "Failed to retrieve category")
	}
	return c.JSON(http.StatusOK, category)
}

// CreateCategory creates a new category
func (h *Handler) CreateCategory(c echo.Context) error {
	category, err := h.inventory.CreateCategory(c.Request().Context(), c.FormValue("name"))
	if err != nil {
		return respondError(c, err, "Category", "Failed to create category")
	}

	logger.FromContext(c).Info("Category created successfully",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name))
	return c.JSON(http.StatusCreated, category)
}
