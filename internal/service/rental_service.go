package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	apperrors "carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/repository"
)

// CreateRentalInput carries a rental request. A nil UserID rents for the principal.
type CreateRentalInput struct {
	UserID    *uuid.UUID
	CarID     uuid.UUID
	StartDate time.Time
	EndDate   time.Time
}

// UpdateRentalInput carries an admin rental update. Nil fields are left untouched.
// TotalPriceSet records that the caller tried to overwrite the derived price.
type UpdateRentalInput struct {
	UserID        *uuid.UUID
	CarID         *uuid.UUID
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *model.RentalStatus
	TotalPriceSet bool
}

// RentalService handles the rental lifecycle.
type RentalService interface {
	CreateRental(ctx context.Context, principal *model.User, in CreateRentalInput) (*model.Rental, error)
	GetRental(ctx context.Context, id uuid.UUID) (*model.Rental, error)
	ListRentals(ctx context.Context) ([]model.Rental, error)
	UpdateRentalStatus(ctx context.Context, id uuid.UUID, status model.RentalStatus) (*model.Rental, error)
	UpdateRental(ctx context.Context, id uuid.UUID, in UpdateRentalInput) (*model.Rental, error)
	DeleteRental(ctx context.Context, id uuid.UUID) error
}

type rentalService struct {
	rentalRepo repository.RentalRepository
	carRepo    repository.CarRepository
	userRepo   repository.UserRepository
}

// NewRentalService creates a new rental service.
func NewRentalService(
	rentalRepo repository.RentalRepository,
	carRepo repository.CarRepository,
	userRepo repository.UserRepository,
) RentalService {
	return &rentalService{
		rentalRepo: rentalRepo,
		carRepo:    carRepo,
		userRepo:   userRepo,
	}
}

// CreateRental prices and stores a new ongoing rental.
// The car is checked before the renter so a missing car always reports ErrCarNotFound.
func (s *rentalService) CreateRental(ctx context.Context, principal *model.User, in CreateRentalInput) (*model.Rental, error) {
	if principal == nil {
		return nil, apperrors.ErrNotAuthorized
	}

	userID := principal.ID
	if in.UserID != nil && *in.UserID != uuid.Nil {
		userID = *in.UserID
	}
	if userID != principal.ID && !principal.IsAdmin() {
		return nil, apperrors.ErrForbidden
	}

	car, err := s.findCar(ctx, in.CarID)
	if err != nil {
		return nil, err
	}
	if _, err := s.findUser(ctx, userID); err != nil {
		return nil, err
	}

	totalPrice, err := RentalPrice(in.StartDate, in.EndDate, car.PricePerDay)
	if err != nil {
		return nil, err
	}

	rental := &model.Rental{
		UserID:     userID,
		CarID:      car.ID,
		StartDate:  in.StartDate,
		EndDate:    in.EndDate,
		TotalPrice: totalPrice,
		Status:     model.RentalStatusOngoing,
	}
	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		return nil, pkgerrors.Wrap(err, "create rental")
	}

	return s.GetRental(ctx, rental.ID)
}

func (s *rentalService) GetRental(ctx context.Context, id uuid.UUID) (*model.Rental, error) {
	rental, err := s.rentalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRentalNotFound
		}
		return nil, pkgerrors.Wrap(err, "find rental")
	}
	return rental, nil
}

func (s *rentalService) ListRentals(ctx context.Context) ([]model.Rental, error) {
	rentals, err := s.rentalRepo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list rentals")
	}
	return rentals, nil
}

// UpdateRentalStatus moves the rental through TransitionStatus and stores the result.
func (s *rentalService) UpdateRentalStatus(ctx context.Context, id uuid.UUID, status model.RentalStatus) (*model.Rental, error) {
	rental, err := s.GetRental(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := TransitionStatus(rental.Status, status)
	if err != nil {
		return nil, err
	}
	if next == rental.Status {
		return rental, nil
	}

	rental.Status = next
	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, pkgerrors.Wrap(err, "update rental status")
	}
	return rental, nil
}

// UpdateRental applies an admin update. The price is never taken from the caller:
// it is recomputed from the car's current rate whenever the dates or the car change.
func (s *rentalService) UpdateRental(ctx context.Context, id uuid.UUID, in UpdateRentalInput) (*model.Rental, error) {
	if in.TotalPriceSet {
		return nil, apperrors.ErrDerivedField
	}

	rental, err := s.GetRental(ctx, id)
	if err != nil {
		return nil, err
	}

	reprice := false
	if in.CarID != nil && *in.CarID != rental.CarID {
		rental.CarID = *in.CarID
		rental.Car = nil
		reprice = true
	}
	if in.UserID != nil && *in.UserID != rental.UserID {
		if _, err := s.findUser(ctx, *in.UserID); err != nil {
			return nil, err
		}
		rental.UserID = *in.UserID
		rental.User = nil
	}
	if in.StartDate != nil && !in.StartDate.Equal(rental.StartDate) {
		rental.StartDate = *in.StartDate
		reprice = true
	}
	if in.EndDate != nil && !in.EndDate.Equal(rental.EndDate) {
		rental.EndDate = *in.EndDate
		reprice = true
	}

	if reprice {
		car, err := s.findCar(ctx, rental.CarID)
		if err != nil {
			return nil, err
		}
		totalPrice, err := RentalPrice(rental.StartDate, rental.EndDate, car.PricePerDay)
		if err != nil {
			return nil, err
		}
		rental.TotalPrice = totalPrice
	}

	if in.Status != nil {
		next, err := TransitionStatus(rental.Status, *in.Status)
		if err != nil {
			return nil, err
		}
		rental.Status = next
	}

	if err := s.rentalRepo.Update(ctx, rental); err != nil {
		return nil, pkgerrors.Wrap(err, "update rental")
	}
	return s.GetRental(ctx, rental.ID)
}

func (s *rentalService) DeleteRental(ctx context.Context, id uuid.UUID) error {
	if err := s.rentalRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRentalNotFound
		}
		return pkgerrors.Wrap(err, "delete rental")
	}
	return nil
}

func (s *rentalService) findCar(ctx context.Context, id uuid.UUID) (*model.Car, error) {
	car, err := s.carRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCarNotFound
		}
		return nil, pkgerrors.Wrap(err, "find car")
	}
	return car, nil
}

func (s *rentalService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "find user")
	}
	return user, nil
}
