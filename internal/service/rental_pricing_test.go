package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carrental/internal/errors"
	"carrental/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name          string
		start, end    string
		expectedDays  int64
		expectedError error
	}{
		{name: "whole days", start: "2024-01-01T00:00:00Z", end: "2024-01-04T00:00:00Z", expectedDays: 3},
		{name: "one millisecond rounds up", start: "2024-01-01T00:00:00Z", end: "2024-01-01T00:00:00.001Z", expectedDays: 1},
		{name: "partial day rounds up", start: "2024-01-01T00:00:00Z", end: "2024-01-02T06:00:00Z", expectedDays: 2},
		{name: "across a month boundary", start: "2024-01-30T10:00:00Z", end: "2024-02-02T10:00:00Z", expectedDays: 3},
		{name: "equal dates", start: "2024-01-01T00:00:00Z", end: "2024-01-01T00:00:00Z", expectedError: apperrors.ErrInvalidRentalDates},
		{name: "end before start", start: "2024-01-04T00:00:00Z", end: "2024-01-01T00:00:00Z", expectedError: apperrors.ErrInvalidRentalDates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := RentalDays(date(tt.start), date(tt.end))
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedDays, days)
		})
	}
}

func TestRentalPrice(t *testing.T) {
	price, err := RentalPrice(date("2024-01-01T00:00:00Z"), date("2024-01-04T00:00:00Z"), decimal.NewFromInt(50))
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.NewFromInt(150)), "got %s", price)

	price, err = RentalPrice(date("2024-01-01T00:00:00Z"), date("2024-01-02T01:00:00Z"), decimal.RequireFromString("19.99"))
	require.NoError(t, err)
	assert.True(t, price.Equal(decimal.RequireFromString("39.98")), "got %s", price)

	_, err = RentalPrice(date("2024-01-01T00:00:00Z"), date("2024-01-01T00:00:00Z"), decimal.NewFromInt(50))
	assert.ErrorIs(t, err, apperrors.ErrInvalidRentalDates)
}

func TestTransitionStatus(t *testing.T) {
	tests := []struct {
		name          string
		current       model.RentalStatus
		requested     model.RentalStatus
		expected      model.RentalStatus
		expectedError error
	}{
		{name: "ongoing to completed", current: model.RentalStatusOngoing, requested: model.RentalStatusCompleted, expected: model.RentalStatusCompleted},
		{name: "ongoing to cancelled", current: model.RentalStatusOngoing, requested: model.RentalStatusCancelled, expected: model.RentalStatusCancelled},
		{name: "american spelling", current: model.RentalStatusOngoing, requested: "canceled", expected: model.RentalStatusCancelled},
		{name: "repeat is a no-op", current: model.RentalStatusCompleted, requested: model.RentalStatusCompleted, expected: model.RentalStatusCompleted},
		{name: "repeat alias is a no-op", current: model.RentalStatusCancelled, requested: "canceled", expected: model.RentalStatusCancelled},
		{name: "completed back to ongoing", current: model.RentalStatusCompleted, requested: model.RentalStatusOngoing, expected: model.RentalStatusCompleted, expectedError: apperrors.ErrInvalidTransition},
		{name: "cancelled to completed", current: model.RentalStatusCancelled, requested: model.RentalStatusCompleted, expected: model.RentalStatusCancelled, expectedError: apperrors.ErrInvalidTransition},
		{name: "unknown status", current: model.RentalStatusOngoing, requested: "returned", expected: model.RentalStatusOngoing, expectedError: apperrors.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := TransitionStatus(tt.current, tt.requested)
			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expected, next)
		})
	}
}
