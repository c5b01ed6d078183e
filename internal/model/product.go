package model

import (
	"time"
)

// Product is an inventory item. Category and supplier are optional.
type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(255);not null"`
	Description *string   `json:"description" gorm:"type:text"`
	CategoryID  *uint     `json:"category_id" gorm:"index:idx_products_category_supplier,priority:1"`
	Category    *Category `json:"category,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	SupplierID  *uint     `json:"supplier_id" gorm:"index:idx_products_category_supplier,priority:2"`
	Supplier    *Supplier `json:"supplier,omitempty" gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	Quantity    int       `json:"quantity" gorm:"not null;default:0"`
	Price       *float64  `json:"price" gorm:"index:idx_products_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	StockLogs []StockLog `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}
