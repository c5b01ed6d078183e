package model

import "time"

// Supplier is where products are sourced from. Suppliers are never deleted.
type Supplier struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	ContactInfo *string   `json:"contact_info" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}
