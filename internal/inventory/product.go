package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"inventory-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Nullable is an optional update of a nullable column. Set without a Value
// clears the column.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Null clears a nullable column.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// Value sets a nullable column to v.
func Value[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// NewProduct is the input of the add flow.
type NewProduct struct {
	Name        string
	Description *string
	Quantity    int
	Price       *float64
	Category    CategoryRef
	Supplier    SupplierRef
}

// ProductUpdate lists the fields of an edit. Nil pointers and unset
// Nullables leave the stored value untouched.
type ProductUpdate struct {
	Name        *string
	Description Nullable[string]
	CategoryID  Nullable[uint]
	SupplierID  Nullable[uint]
	Quantity    *int
	Price       Nullable[float64]
}

// ProductRow is a product joined with the names of its category and supplier.
type ProductRow struct {
	ID          uint     `json:"id" gorm:"column:id"`
	Name        string   `json:"name" gorm:"column:name"`
	Description *string  `json:"description" gorm:"column:description"`
	CategoryID  *uint    `json:"category_id" gorm:"column:category_id"`
	Category    *string  `json:"category" gorm:"column:category"`
	SupplierID  *uint    `json:"supplier_id" gorm:"column:supplier_id"`
	Supplier    *string  `json:"supplier" gorm:"column:supplier"`
	Quantity    int      `json:"quantity" gorm:"column:quantity"`
	Price       *float64 `json:"price" gorm:"column:price"`
}

// CreateProduct runs the add flow: optional inline category and supplier,
// the product row and its "Initial Stock" log entry, all in one transaction.
func (s *Service) CreateProduct(ctx context.Context, in NewProduct) (*model.Product, error) {
	defer s.metrics.TrackDBOperation("insert")(time.Now())

	name := strings.TrimSpace(in.Name)
	if err := validateProduct(name, in.Quantity, in.Price); err != nil {
		return nil, err
	}

	product := model.Product{
		Name:        name,
		Description: emptyToNil(in.Description),
		Quantity:    in.Quantity,
		Price:       in.Price,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categoryID, err := resolveCategory(tx, in.Category)
		if err != nil {
			return err
		}
		supplierID, err := resolveSupplier(tx, in.Supplier)
		if err != nil {
			return err
		}
		product.CategoryID = categoryID
		product.SupplierID = supplierID

		if err := tx.Create(&product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		entry := model.StockLog{
			ProductID: product.ID,
			Change:    product.Quantity,
			Reason:    model.ReasonInitialStock,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("create stock log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordOperation("product", "create")
	s.metrics.UpdateProductInventory(product.ID, product.Name, product.Quantity)
	s.log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name),
		zap.Int("quantity", product.Quantity))

	return s.GetProduct(ctx, product.ID)
}

// UpdateProduct applies the set fields of u to a product. Edits never write
// to the stock log.
func (s *Service) UpdateProduct(ctx context.Context, id uint, u ProductUpdate) (*model.Product, error) {
	defer s.metrics.TrackDBOperation("update")(time.Now())

	db := s.db.WithContext(ctx)

	var product model.Product
	if err := db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	oldName := product.Name

	if u.Name != nil {
		product.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description.Set {
		product.Description = emptyToNil(u.Description.Value)
	}
	if u.Quantity != nil {
		product.Quantity = *u.Quantity
	}
	if u.Price.Set {
		product.Price = u.Price.Value
	}
	if err := validateProduct(product.Name, product.Quantity, product.Price); err != nil {
		return nil, err
	}

	if u.CategoryID.Set {
		if u.CategoryID.Value != nil {
			if err := mustExist(db, &model.Category{}, "category", *u.CategoryID.Value); err != nil {
				return nil, err
			}
		}
		product.CategoryID = u.CategoryID.Value
	}
	if u.SupplierID.Set {
		if u.SupplierID.Value != nil {
			if err := mustExist(db, &model.Supplier{}, "supplier", *u.SupplierID.Value); err != nil {
				return nil, err
			}
		}
		product.SupplierID = u.SupplierID.Value
	}

	if err := db.Save(&product).Error; err != nil {
		return nil, fmt.Errorf("update product %d: %w", id, err)
	}

	s.metrics.RecordOperation("product", "update")
	if oldName != product.Name {
		s.metrics.ForgetProduct(product.ID)
	}
	s.metrics.UpdateProductInventory(product.ID, product.Name, product.Quantity)
	s.log.Info("Product updated", zap.Uint("product_id", product.ID), zap.String("name", product.Name))

	return s.GetProduct(ctx, product.ID)
}

// DeleteProduct removes a product and its stock log. It reports false without
// error when the product does not exist.
func (s *Service) DeleteProduct(ctx context.Context, id uint) (bool, error) {
	defer s.metrics.TrackDBOperation("delete")(time.Now())

	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.StockLog{}).Error; err != nil {
			return fmt.Errorf("delete stock logs of product %d: %w", id, err)
		}
		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete product %d: %w", id, res.Error)
		}
		deleted = res.RowsAffected > 0
		return nil
	})
	if err != nil {
		return false, err
	}

	if !deleted {
		s.log.Debug("Delete of missing product ignored", zap.Uint("product_id", id))
		return false, nil
	}

	s.metrics.RecordOperation("product", "delete")
	s.metrics.ForgetProduct(id)
	s.log.Info("Product deleted", zap.Uint("product_id", id))
	return true, nil
}

// GetProduct returns a product with its category and supplier, or ErrNotFound.
func (s *Service) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	var product model.Product
	err := s.db.WithContext(ctx).Preload("Category").Preload("Supplier").First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return &product, nil
}

// ListProducts returns every product ordered by id. Products without a
// category or supplier are included with null names.
func (s *Service) ListProducts(ctx context.Context) ([]ProductRow, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	rows := []ProductRow{}
	err := s.db.WithContext(ctx).
		Table("products AS p").
		Select("p.id, p.name, p.description, p.category_id, c.name AS category, " +
			"p.supplier_id, s.name AS supplier, p.quantity, p.price").
		Joins("LEFT JOIN categories AS c ON c.id = p.category_id").
		Joins("LEFT JOIN suppliers AS s ON s.id = p.supplier_id").
		Order("p.id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	s.metrics.RecordOperation("product", "list")
	return rows, nil
}

// RefreshInventoryMetrics sets the stock gauge of every stored product. It
// covers products written before the process started, such as seeded data.
func (s *Service) RefreshInventoryMetrics(ctx context.Context) (int, error) {
	rows, err := s.ListProducts(ctx)
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		s.metrics.UpdateProductInventory(row.ID, row.Name, row.Quantity)
	}
	return len(rows), nil
}

// ListStockLogs returns the stock log of a product, newest first.
func (s *Service) ListStockLogs(ctx context.Context, productID uint) ([]model.StockLog, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&model.Product{}).Where("id = ?", productID).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check product %d: %w", productID, err)
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	logs := []model.StockLog{}
	if err := db.Where("product_id = ?", productID).Order("date desc, id desc").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list stock logs of product %d: %w", productID, err)
	}
	return logs, nil
}

func validateProduct(name string, quantity int, price *float64) error {
	if name == "" {
		return invalid("name", "product name is required")
	}
	if quantity < 0 {
		return invalid("quantity", "must not be negative")
	}
	if price != nil {
		if math.IsNaN(*price) || math.IsInf(*price, 0) {
			return invalid("price", "must be a finite number")
		}
		if *price < 0 {
			return invalid("price", "must not be negative")
		}
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
