package service

import (
	"time"

	"github.com/shopspring/decimal"

	apperrors "carrental/internal/errors"
	"carrental/internal/model"
)

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// RentalDays returns the number of billable days between start and end.
// Partial days are rounded up; end must be strictly after start.
func RentalDays(start, end time.Time) (int64, error) {
	diff := end.Sub(start).Milliseconds()
	if diff <= 0 {
		return 0, apperrors.ErrInvalidRentalDates
	}
	return (diff + millisPerDay - 1) / millisPerDay, nil
}

// RentalPrice returns RentalDays(start, end) times the daily rate.
func RentalPrice(start, end time.Time, pricePerDay decimal.Decimal) (decimal.Decimal, error) {
	days, err := RentalDays(start, end)
	if err != nil {
		return decimal.Zero, err
	}
	return pricePerDay.Mul(decimal.NewFromInt(days)), nil
}

// TransitionStatus validates a status change and returns the resulting status.
// Repeating the current status is accepted; otherwise only ongoing may move,
// and only to completed or cancelled.
func TransitionStatus(current, requested model.RentalStatus) (model.RentalStatus, error) {
	next, ok := model.ParseRentalStatus(string(requested))
	if !ok {
		return current, apperrors.ErrInvalidStatus
	}
	if next == current {
		return current, nil
	}
	if current == model.RentalStatusOngoing && next.Terminal() {
		return next, nil
	}
	return current, apperrors.ErrInvalidTransition
}
