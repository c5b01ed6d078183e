package database

import (
	"fmt"

	"inventory-service/internal/model"

	"gorm.io/gorm"
)

type seedProduct struct {
	name, description string
	quantity          int
	price             float64
}

var (
	seedCategories = []string{
		"Electronics", "Stationery", "Groceries", "Clothing", "Toys",
		"Books", "Furniture", "Sports", "Beauty", "Automotive",
	}

	seedSuppliers = [][2]string{
		{"Acme Inc.", "acme@example.com"},
		{"PaperWorld", "paper@example.com"},
		{"GroceryCo", "groceries@example.com"},
		{"FashionHub", "fashion@example.com"},
		{"ToyLand", "toys@example.com"},
		{"ReadMore", "books@example.com"},
		{"FurnishIt", "furnish@example.com"},
		{"FitLife", "sports@example.com"},
		{"GlowUp", "beauty@example.com"},
		{"AutoGear", "auto@example.com"},
	}

	// The i-th product belongs to the i-th category and supplier.
	seedProducts = []seedProduct{
		{"USB Cable", "Type-C to USB", 50, 9.99},
		{"Notebook", "200 pages ruled", 120, 3.49},
		{"Rice Bag", "5kg long grain rice", 25, 12.00},
		{"T-Shirt", "Cotton, Medium size", 40, 15.99},
		{"Teddy Bear", "Soft plush toy", 30, 18.50},
		{"Science Book", "High school level", 60, 8.75},
		{"Office Chair", "Ergonomic with wheels", 10, 89.99},
		{"Yoga Mat", "Non-slip surface", 35, 19.95},
		{"Face Cream", "Moisturizing cream", 80, 14.30},
		{"Car Wiper", "Universal fit", 20, 11.49},
	}

	seedLogs = []struct {
		change int
		reason string
	}{
		{20, "Restock"},
		{-10, "Sold"},
		{-5, "Damaged"},
		{15, "Restock"},
		{-3, "Sold"},
		{25, model.ReasonInitialStock},
		{-2, "Sample Unit"},
		{10, "Restock"},
		{-5, "Returned"},
		{5, "Restock"},
	}
)

// Seed loads the demo catalogue when the products table is empty.
// It reports whether any rows were written.
func Seed(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		for i, name := range seedCategories {
			category := model.Category{Name: name}
			if err := tx.Create(&category).Error; err != nil {
				return fmt.Errorf("seed category %q: %w", name, err)
			}

			contact := seedSuppliers[i][1]
			supplier := model.Supplier{Name: seedSuppliers[i][0], ContactInfo: &contact}
			if err := tx.Create(&supplier).Error; err != nil {
				return fmt.Errorf("seed supplier %q: %w", supplier.Name, err)
			}

			sp := seedProducts[i]
			description, price := sp.description, sp.price
			product := model.Product{
				Name:        sp.name,
				Description: &description,
				CategoryID:  &category.ID,
				SupplierID:  &supplier.ID,
				Quantity:    sp.quantity,
				Price:       &price,
			}
			if err := tx.Create(&product).Error; err != nil {
				return fmt.Errorf("seed product %q: %w", sp.name, err)
			}

			entry := model.StockLog{ProductID: product.ID, Change: seedLogs[i].change, Reason: seedLogs[i].reason}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("seed stock log for %q: %w", sp.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
