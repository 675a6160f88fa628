package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/service"
)

// RentalHandler handles rental endpoints.
type RentalHandler struct {
	rentalService service.RentalService
}

// NewRentalHandler creates a new rental handler.
func NewRentalHandler(rentalService service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rentalService}
}

// CreateRentalRequest represents a rental request.
// User defaults to the caller; only admins may rent on behalf of someone else.
type CreateRentalRequest struct {
	User      string `json:"user" validate:"omitempty,uuid"`
	Car       string `json:"car" validate:"required,uuid"`
	StartDate string `json:"startDate" validate:"required" example:"2024-01-01"`
	EndDate   string `json:"endDate" validate:"required" example:"2024-01-04"`
}

// UpdateRentalRequest represents an admin rental update.
// totalPrice is accepted only to be rejected, the price is always derived.
type UpdateRentalRequest struct {
	User       *string          `json:"user" validate:"omitempty,uuid"`
	Car        *string          `json:"car" validate:"omitempty,uuid"`
	StartDate  *string          `json:"startDate"`
	EndDate    *string          `json:"endDate"`
	Status     *string          `json:"status"`
	TotalPrice *json.RawMessage `json:"totalPrice" swaggerignore:"true"`
}

// UpdateRentalStatusRequest carries the requested status.
type UpdateRentalStatusRequest struct {
	Status string `json:"status" validate:"required" enums:"ongoing,completed,cancelled"`
}

// RentalResponse wraps a rental with an acknowledgement.
type RentalResponse struct {
	Message string        `json:"message"`
	Rental  *model.Rental `json:"rental"`
}

// CreateRental godoc
// @Summary Create a rental
// @Description Prices the rental as ceil(days) x car.pricePerDay and stores it as ongoing.
// @Tags rentals
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateRentalRequest true "Rental data"
// @Success 201 {object} RentalResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rentals/createRental [post]
func (h *RentalHandler) CreateRental(c echo.Context) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var req CreateRentalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	carID, err := uuid.Parse(req.Car)
	if err != nil {
		return respondError(errors.ErrInvalidID)
	}
	in := service.CreateRentalInput{CarID: carID}
	if req.User != "" {
		userID, err := uuid.Parse(req.User)
		if err != nil {
			return respondError(errors.ErrInvalidID)
		}
		in.UserID = &userID
	}
	if in.StartDate, err = parseDate(req.StartDate); err != nil {
		return respondError(err)
	}
	if in.EndDate, err = parseDate(req.EndDate); err != nil {
		return respondError(err)
	}

	rental, err := h.rentalService.CreateRental(c.Request().Context(), user, in)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, RentalResponse{
		Message: "rental created successfully",
		Rental:  rental,
	})
}

// ListRentals godoc
// @Summary List rentals
// @Description Every rental with user (name, email) and car (model, brand, pricePerDay) expanded.
// @Tags rentals
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.Rental
// @Failure 401 {object} errors.ErrorResponse
// @Router /rentals/getAllRentals [get]
func (h *RentalHandler) ListRentals(c echo.Context) error {
	rentals, err := h.rentalService.ListRentals(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, rentals)
}

// GetRental godoc
// @Summary Get rental by id
// @Tags rentals
// @Produce json
// @Security CookieAuth
// @Param id path string true "Rental ID"
// @Success 200 {object} model.Rental
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rentals/getRentalById/{id} [get]
func (h *RentalHandler) GetRental(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	rental, err := h.rentalService.GetRental(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, rental)
}

// UpdateRentalStatus godoc
// @Summary Change rental status
// @Description ongoing may move to completed or cancelled; repeating the current status is a no-op.
// @Tags rentals
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Rental ID"
// @Param request body UpdateRentalStatusRequest true "New status"
// @Success 200 {object} model.Rental
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rentals/getRentalStatus/{id}/status [patch]
func (h *RentalHandler) UpdateRentalStatus(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateRentalStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	status, ok := model.ParseRentalStatus(req.Status)
	if !ok {
		return respondError(errors.ErrInvalidStatus)
	}

	rental, err := h.rentalService.UpdateRentalStatus(c.Request().Context(), id, status)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, rental)
}

// UpdateRental godoc
// @Summary Update a rental
// @Description Dates or car changes recompute totalPrice; status changes follow the status rules.
// @Tags rentals
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Rental ID"
// @Param request body UpdateRentalRequest true "Fields to change"
// @Success 200 {object} RentalResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rentals/updateRental/{id} [patch]
func (h *RentalHandler) UpdateRental(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateRentalRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.UpdateRentalInput{TotalPriceSet: req.TotalPrice != nil}
	if in.UserID, err = parseOptionalID(req.User); err != nil {
		return respondError(err)
	}
	if in.CarID, err = parseOptionalID(req.Car); err != nil {
		return respondError(err)
	}
	if in.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		return respondError(err)
	}
	if in.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		return respondError(err)
	}
	if req.Status != nil {
		status, ok := model.ParseRentalStatus(*req.Status)
		if !ok {
			return respondError(errors.ErrInvalidStatus)
		}
		in.Status = &status
	}

	rental, err := h.rentalService.UpdateRental(c.Request().Context(), id, in)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, RentalResponse{
		Message: "rental updated successfully",
		Rental:  rental,
	})
}

// DeleteRental godoc
// @Summary Delete a rental
// @Tags rentals
// @Produce json
// @Security CookieAuth
// @Param id path string true "Rental ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /rentals/deleteRental/{id} [delete]
func (h *RentalHandler) DeleteRental(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.rentalService.DeleteRental(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "rental deleted"})
}
