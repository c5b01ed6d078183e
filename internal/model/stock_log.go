package model

import (
	"time"

	"gorm.io/gorm"
)

// ReasonInitialStock is written once for every product created through the add flow.
const ReasonInitialStock = "Initial Stock"

// StockLog is an append-only record of a quantity change.
type StockLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"not null;index"`
	Change    int       `json:"change" gorm:"not null"`
	Reason    string    `json:"reason" gorm:"type:text;not null"`
	Date      time.Time `json:"date" gorm:"not null"`
}

// BeforeCreate stamps the log with the current date when none is given.
func (l *StockLog) BeforeCreate(tx *gorm.DB) error {
	if l.Date.IsZero() {
		l.Date = Today()
	}
	return nil
}

// Today returns midnight UTC of the current day.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
