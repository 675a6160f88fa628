package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"carrental/internal/cache"
	apperrors "carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/repository"
)

const carCacheTTL = 5 * time.Minute

// CarInput carries the fields of a new car. Available defaults to true.
type CarInput struct {
	Model       string
	Brand       string
	Year        int
	PricePerDay decimal.Decimal
	Available   *bool
}

// CarPatch carries the fields of a car update. Nil fields are left untouched.
type CarPatch struct {
	Model       *string
	Brand       *string
	Year        *int
	PricePerDay *decimal.Decimal
	Available   *bool
}

// CarService handles car operations.
type CarService interface {
	CreateCar(ctx context.Context, in CarInput) (*model.Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (*model.Car, error)
	ListCars(ctx context.Context) ([]model.Car, error)
	UpdateCar(ctx context.Context, id uuid.UUID, patch CarPatch) (*model.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error
}

type carService struct {
	repo  repository.CarRepository
	cache *cache.Client
}

// NewCarService creates a new car service.
func NewCarService(repo repository.CarRepository, cache *cache.Client) CarService {
	return &carService{
		repo:  repo,
		cache: cache,
	}
}

func (s *carService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("car:%s", id.String())
}

// CreateCar stores a new car.
func (s *carService) CreateCar(ctx context.Context, in CarInput) (*model.Car, error) {
	if !in.PricePerDay.IsPositive() {
		return nil, apperrors.ErrInvalidPrice
	}

	car := &model.Car{
		Model:       strings.TrimSpace(in.Model),
		Brand:       strings.TrimSpace(in.Brand),
		Year:        in.Year,
		PricePerDay: in.PricePerDay,
		Available:   true,
	}
	if in.Available != nil {
		car.Available = *in.Available
	}

	if err := s.repo.Create(ctx, car); err != nil {
		return nil, pkgerrors.Wrap(err, "create car")
	}
	return car, nil
}

// GetCar retrieves a car by ID with caching.
func (s *carService) GetCar(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	var cached model.Car
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	car, err := s.findCar(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), car, carCacheTTL)
	return car, nil
}

func (s *carService) ListCars(ctx context.Context) ([]model.Car, error) {
	cars, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list cars")
	}
	return cars, nil
}

// UpdateCar applies the supplied fields. Existing rentals keep their price.
func (s *carService) UpdateCar(ctx context.Context, id uuid.UUID, patch CarPatch) (*model.Car, error) {
	car, err := s.findCar(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Model != nil {
		car.Model = strings.TrimSpace(*patch.Model)
	}
	if patch.Brand != nil {
		car.Brand = strings.TrimSpace(*patch.Brand)
	}
	if patch.Year != nil {
		car.Year = *patch.Year
	}
	if patch.PricePerDay != nil {
		if !patch.PricePerDay.IsPositive() {
			return nil, apperrors.ErrInvalidPrice
		}
		car.PricePerDay = *patch.PricePerDay
	}
	if patch.Available != nil {
		car.Available = *patch.Available
	}

	if err := s.repo.Update(ctx, car); err != nil {
		return nil, pkgerrors.Wrap(err, "update car")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return car, nil
}

func (s *carService) DeleteCar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCarNotFound
		}
		return pkgerrors.Wrap(err, "delete car")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *carService) findCar(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	car, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCarNotFound
		}
		return nil, pkgerrors.Wrap(err, "find car")
	}
	return car, nil
}
