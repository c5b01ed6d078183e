package handler

import (
	"net/http"

	"inventory-service/internal/inventory"
	"inventory-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ListProducts handles retrieving all products with their category and supplier names
func (h *Handler) ListProducts(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Listing products")

	products, err := h.inventory.ListProducts(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Product", "Failed to retrieve products")
	}

	log.Info("Products retrieved successfully", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles retrieving a single product by ID
func (h *Handler) GetProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Product", "")
	}
	log.Info("Getting product by ID", zap.Uint("product_id", id))

	product, err := h.inventory.GetProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Product", "Failed to retrieve product")
	}
	return c.JSON(http.StatusOK, product)
}

// CreateProduct handles the add flow. A new category or supplier may be
// created inline with new_category, new_supplier and new_supplier_contact.
func (h *Handler) CreateProduct(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating new product")

	form, err := formParams(c)
	if err != nil {
		return respondError(c, err, "Product", "")
	}

	in := inventory.NewProduct{
		Name:        form.Get("name"),
		Description: optionalString(form, "description"),
		Category:    inventory.CategoryRef{NewName: form.Get("new_category")},
		Supplier: inventory.SupplierRef{
			NewName:    form.Get("new_supplier"),
			NewContact: form.Get("new_supplier_contact"),
		},
	}

	quantity, err := optionalInt(form, "quantity")
	if err != nil {
		return respondError(c, err, "Product", "")
	}
	if quantity != nil {
		in.Quantity = *quantity
	}
	if in.Price, err = optionalFloat(form, "price"); err != nil {
		return respondError(c, err, "Product", "")
	}
	if in.Category.ID, err = optionalID(form, "category"); err != nil {
		return respondError(c, err, "Product", "")
	}
	if in.Supplier.ID, err = optionalID(form, "supplier"); err != nil {
		return respondError(c, err, "Product", "")
	}

	product, err := h.inventory.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err, "Product", "Failed to create product")
	}

	log.Info("Product created successfully",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles editing a product. Only fields present in the form
// are changed; a blank nullable field clears it.
func (h *Handler) UpdateProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Product", "")
	}
	log.Info("Updating product", zap.Uint("product_id", id))

	form, err := formParams(c)
	if err != nil {
		return respondError(c, err, "Product", "")
	}

	var u inventory.ProductUpdate
	if present(form, "name") {
		name := form.Get("name")
		u.Name = &name
	}
	if present(form, "description") {
		u.Description = inventory.Nullable[string]{Set: true, Value: optionalString(form, "description")}
	}
	if present(form, "quantity") {
		if u.Quantity, err = optionalInt(form, "quantity"); err != nil {
			return respondError(c, err, "Product", "")
		}
		if u.Quantity == nil {
			return respondError(c, &inventory.ValidationError{Field: "quantity", Message: "must not be blank"}, "Product", "")
		}
	}
	if present(form, "price") {
		price, err := optionalFloat(form, "price")
		if err != nil {
			return respondError(c, err, "Product", "")
		}
		u.Price = inventory.Nullable[float64]{Set: true, Value: price}
	}
	if present(form, "category") {
		categoryID, err := optionalID(form, "category")
		if err != nil {
			return respondError(c, err, "Product", "")
		}
		u.CategoryID = inventory.Nullable[uint]{Set: true, Value: categoryID}
	}
	if present(form, "supplier") {
		supplierID, err := optionalID(form, "supplier")
		if err != nil {
			return respondError(c, err, "Product", "")
		}
		u.SupplierID = inventory.Nullable[uint]{Set: true, Value: supplierID}
	}

	product, err := h.inventory.UpdateProduct(c.Request().Context(), id, u)
	if err != nil {
		return respondError(c, err, "Product", "Failed to update product")
	}

	log.Info("Product updated successfully", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles removing a product and its stock log. Deleting an
// unknown id succeeds with deleted=false.
func (h *Handler) DeleteProduct(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Product", "")
	}
	log.Info("Deleting product", zap.Uint("product_id", id))

	deleted, err := h.inventory.DeleteProduct(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Product", "Failed to delete product")
	}

	log.Info("Product delete handled", zap.Uint("product_id", id), zap.Bool("deleted", deleted))
	return c.JSON(http.StatusOK, echo.Map{"deleted": deleted})
}

// ListStockLogs handles retrieving the stock log of a product
func (h *Handler) ListStockLogs(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err, "Product", "")
	}

	logs, err := h.inventory.ListStockLogs(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "Product", "Failed to retrieve stock logs")
	}
	return c.JSON(http.StatusOK, logs)
}
