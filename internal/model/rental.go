package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// prices go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// RentalStatus represents the lifecycle state of a rental.
type RentalStatus string

const (
	RentalStatusOngoing   RentalStatus = "ongoing"
	RentalStatusCompleted RentalStatus = "completed"
	RentalStatusCancelled RentalStatus = "cancelled"
)

// ParseRentalStatus normalizes s into a RentalStatus.
// The dashboard spells cancelled with a single l, both are accepted.
func ParseRentalStatus(s string) (RentalStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ongoing":
		return RentalStatusOngoing, true
	case "completed":
		return RentalStatusCompleted, true
	case "cancelled", "canceled":
		return RentalStatusCancelled, true
	}
	return "", false
}

// Terminal reports whether no further transition is allowed out of s.
func (s RentalStatus) Terminal() bool {
	return s == RentalStatusCompleted || s == RentalStatusCancelled
}

// UserSummary is the expansion of Rental.UserID in responses.
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TableName maps the summary onto the users table.
func (UserSummary) TableName() string { return "users" }

// CarSummary is the expansion of Rental.CarID in responses.
type CarSummary struct {
	ID          uuid.UUID       `json:"id"`
	Model       string          `json:"model"`
	Brand       string          `json:"brand"`
	PricePerDay decimal.Decimal `json:"pricePerDay"`
}

// TableName maps the summary onto the cars table.
func (CarSummary) TableName() string { return "cars" }

// Rental represents one car rented by one user over a date range.
type Rental struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID     uuid.UUID       `json:"userId" gorm:"type:char(36);not null;index"`
	CarID      uuid.UUID       `json:"carId" gorm:"type:char(36);not null;index"`
	StartDate  time.Time       `json:"startDate" gorm:"not null"`
	EndDate    time.Time       `json:"endDate" gorm:"not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(20,2);not null"`
	Status     RentalStatus    `json:"status" gorm:"type:varchar(20);not null;default:'ongoing';index"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`

	// Relations, populated on reads only
	User *UserSummary `json:"user" gorm:"foreignKey:UserID"`
	Car  *CarSummary  `json:"car" gorm:"foreignKey:CarID"`
}

// BeforeCreate sets UUID and the initial status before creating the record.
func (r *Rental) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = RentalStatusOngoing
	}
	return nil
}
