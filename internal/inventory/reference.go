package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"inventory-service/internal/model"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CategoryRef selects the category of a new product: an existing id, a new
// name, or neither for no category.
type CategoryRef struct {
	ID      *uint
	NewName string
}

// SupplierRef selects the supplier of a new product the same way as CategoryRef.
type SupplierRef struct {
	ID         *uint
	NewName    string
	NewContact string
}

// CreateCategory adds a category.
func (s *Service) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	defer s.metrics.TrackDBOperation("insert")(time.Now())

	category, err := createCategory(s.db.WithContext(ctx), name)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOperation("category", "create")
	s.log.Info("Category created", zap.Uint("category_id", category.ID), zap.String("name", category.Name))
	return category, nil
}

// ListCategories returns all categories ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	categories := []model.Category{}
	if err := s.db.WithContext(ctx).Order("name asc, id asc").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	s.metrics.RecordOperation("category", "list")
	return categories, nil
}

// GetCategory returns a category or ErrNotFound.
func (s *Service) GetCategory(ctx context.Context, id uint) (*model.Category, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	var category model.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	return &category, nil
}

// CreateSupplier adds a supplier. An empty contact is stored as null.
func (s *Service) CreateSupplier(ctx context.Context, name, contact string) (*model.Supplier, error) {
	defer s.metrics.TrackDBOperation("insert")(time.Now())

	supplier, err := createSupplier(s.db.WithContext(ctx), name, contact)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordOperation("supplier", "create")
	s.log.Info("Supplier created", zap.Uint("supplier_id", supplier.ID), zap.String("name", supplier.Name))
	return supplier, nil
}

// ListSuppliers returns all suppliers ordered by name.
func (s *Service) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	suppliers := []model.Supplier{}
	if err := s.db.WithContext(ctx).Order("name asc, id asc").Find(&suppliers).Error; err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	s.metrics.RecordOperation("supplier", "list")
	return suppliers, nil
}

// GetSupplier returns a supplier or ErrNotFound.
func (s *Service) GetSupplier(ctx context.Context, id uint) (*model.Supplier, error) {
	defer s.metrics.TrackDBOperation("query")(time.Now())

	var supplier model.Supplier
	if err := s.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get supplier %d: %w", id, err)
	}
	return &supplier, nil
}

func createCategory(db *gorm.DB, name string) (*model.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "category name is required")
	}
	category := model.Category{Name: name}
	if err := db.Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

func createSupplier(db *gorm.DB, name, contact string) (*model.Supplier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "supplier name is required")
	}
	supplier := model.Supplier{Name: name}
	if contact = strings.TrimSpace(contact); contact != "" {
		supplier.ContactInfo = &contact
	}
	if err := db.Create(&supplier).Error; err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return &supplier, nil
}

// resolveCategory turns a CategoryRef into the foreign key of a new product,
// creating the category first when a new name is given.
func resolveCategory(tx *gorm.DB, ref CategoryRef) (*uint, error) {
	name := strings.TrimSpace(ref.NewName)
	switch {
	case ref.ID != nil && name != "":
		return nil, invalid("category", "choose an existing category or enter a new one, not both")
	case name != "":
		category, err := createCategory(tx, name)
		if err != nil {
			return nil, err
		}
		return &category.ID, nil
	case ref.ID != nil:
		if err := mustExist(tx, &model.Category{}, "category", *ref.ID); err != nil {
			return nil, err
		}
		return ref.ID, nil
	}
	return nil, nil
}

func resolveSupplier(tx *gorm.DB, ref SupplierRef) (*uint, error) {
	name := strings.TrimSpace(ref.NewName)
	switch {
	case ref.ID != nil && name != "":
		return nil, invalid("supplier", "choose an existing supplier or enter a new one, not both")
	case name != "":
		supplier, err := createSupplier(tx, name, ref.NewContact)
		if err != nil {
			return nil, err
		}
		return &supplier.ID, nil
	case ref.ID != nil:
		if err := mustExist(tx, &model.Supplier{}, "supplier", *ref.ID); err != nil {
			return nil, err
		}
		return ref.ID, nil
	}
	return nil, nil
}

// mustExist turns a dangling reference into a ValidationError on field.
func mustExist(tx *gorm.DB, m any, field string, id uint) error {
	var count int64
	if err := tx.Model(m).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check %s %d: %w", field, id, err)
	}
	if count == 0 {
		return invalid(field, "%s %d does not exist", field, id)
	}
	return nil
}
