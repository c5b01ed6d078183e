package handler

import (
	"net/http"

	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListSuppliers handles listing all suppliers
func (h *Handler) ListSuppliers(c echo.Context) error {
	suppliers, err := h.inventory.ListSuppliers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Supplier", "Failed to retrieve suppliers")
	}

	logger.FromContext(c).Info("Suppliers retrieved successfully", zap.Int("count", len(suppliers)))
	return c.JSON(http.StatusOK, suppliers)
}

// GetSupplier handles retrieving a supplier by ID
func (h *Handler) GetSupplier(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Supplier", "")
	}

	supplier, err := h.inventory.GetSupplier(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Supplier", "Failed to retrieve supplier")
	}
	return c.JSON(http.StatusOK, supplier)
}

// CreateSupplier handles supplier creation
func (h *Handler) CreateSupplier(c echo.Context) error {
	supplier, err := h.inventory.CreateSupplier(c.Request().Context(), c.FormValue("name"), c.FormValue("contact_info"))
	if err != nil {
		return respondError(c, err, "Supplier", "Failed to create supplier")
	}

	logger.FromContext(c).Info("Supplier created successfully",
		zap.Uint("supplier_id", supplier.ID),
		zap.String("name", supplier.Name))
	return c.JSON(http.StatusCreated, supplier)
}
