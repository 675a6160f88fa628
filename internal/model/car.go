package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Car represents a vehicle of the rental fleet.
type Car struct {
	ID          uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Model       string          `json:"model" gorm:"size:255;index"`
	Brand       string          `json:"brand" gorm:"size:255;index"`
	Year        int             `json:"year"`
	PricePerDay decimal.Decimal `json:"pricePerDay" gorm:"type:decimal(20,2);not null"`
	Available   bool            `json:"available" gorm:"not null"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (c *Car) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
