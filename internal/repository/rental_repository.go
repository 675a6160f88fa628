package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"carrental/internal/model"
)

// RentalRepository defines rental persistence operations.
// Reads expand the renter and the car.
type RentalRepository interface {
	Create(ctx context.Context, rental *model.Rental) error
	Update(ctx context.Context, rental *model.Rental) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	List(ctx context.Context) ([]model.Rental, error)
}

type rentalRepository struct {
	db *gorm.DB
}

// NewRentalRepository creates a new rental repository.
func NewRentalRepository(db *gorm.DB) RentalRepository {
	return &rentalRepository{db: db}
}

func (r *rentalRepository) expanded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Car", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "model", "brand", "price_per_day")
		})
}

// Create creates a new rental record without touching users or cars.
func (r *rentalRepository) Create(ctx context.Context, rental *model.Rental) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(rental).Error
}

// Update saves all rental columns without touching users or cars.
func (r *rentalRepository) Update(ctx context.Context, rental *model.Rental) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(rental).Error
}

// Delete removes a rental, returning gorm.ErrRecordNotFound when nothing matched.
func (r *rentalRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Rental{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a rental by ID with user and car expanded.
func (r *rentalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	var rental model.Rental
	if err := r.expanded(ctx).Where("id = ?", id).First(&rental).Error; err != nil {
		return nil, err
	}
	return &rental, nil
}

// List lists all rentals with user and car expanded.
func (r *rentalRepository) List(ctx context.Context) ([]model.Rental, error) {
	var rentals []model.Rental
	if err := r.expanded(ctx).Order("created_at").Find(&rentals).Error; err != nil {
		return nil, err
	}
	return rentals, nil
}
