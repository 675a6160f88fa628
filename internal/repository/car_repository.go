package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"carrental/internal/model"
)

// CarRepository defines car persistence operations.
type CarRepository interface {
	Create(ctx context.Context, car *model.Car) error
	Update(ctx context.Context, car *model.Car) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Car, error)
	FindByBrandModelYear(ctx context.Context, brand, carModel string, year int) (*model.Car, error)
	List(ctx context.Context) ([]model.Car, error)
}

type carRepository struct {
	db *gorm.DB
}

// NewCarRepository creates a new car repository.
func NewCarRepository(db *gorm.DB) CarRepository {
	return &carRepository{db: db}
}

// Create creates a new car.
func (r *carRepository) Create(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Create(car).Error
}

// Update updates an existing car.
func (r *carRepository) Update(ctx context.Context, car *model.Car) error {
	return r.db.WithContext(ctx).Save(car).Error
}

// Delete removes a car, returning gorm.ErrRecordNotFound when nothing matched.
// Rentals referencing the car are kept and expand to a null car afterwards.
func (r *carRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Car{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FindByID finds a car by ID.
func (r *carRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// FindByBrandModelYear finds a car by its catalogue identity.
func (r *carRepository) FindByBrandModelYear(ctx context.Context, brand, carModel string, year int) (*model.Car, error) {
	var car model.Car
	if err := r.db.WithContext(ctx).
		Where("brand = ? AND model = ? AND year = ?", brand, carModel, year).
		First(&car).Error; err != nil {
		return nil, err
	}
	return &car, nil
}

// List lists all cars.
func (r *carRepository) List(ctx context.Context) ([]model.Car, error) {
	var cars []model.Car
	if err := r.db.WithContext(ctx).Order("created_at").Find(&cars).Error; err != nil {
		return nil, err
	}
	return cars, nil
}
