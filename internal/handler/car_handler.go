package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"carrental/internal/service"
)

// CarHandler handles car endpoints.
type CarHandler struct {
	carService service.CarService
}

// NewCarHandler creates a new car handler.
func NewCarHandler(carService service.CarService) *CarHandler {
	return &CarHandler{carService: carService}
}

// CreateCarRequest represents a new car. Available defaults to true.
type CreateCarRequest struct {
	Model       string          `json:"model" validate:"required"`
	Brand       string          `json:"brand" validate:"required"`
	Year        int             `json:"year" validate:"required,min=1886,max=2100"`
	PricePerDay decimal.Decimal `json:"pricePerDay" swaggertype:"number"`
	Available   *bool           `json:"available"`
}

// UpdateCarRequest represents a partial car update.
type UpdateCarRequest struct {
	Model       *string          `json:"model" validate:"omitempty,min=1"`
	Brand       *string          `json:"brand" validate:"omitempty,min=1"`
	Year        *int             `json:"year" validate:"omitempty,min=1886,max=2100"`
	PricePerDay *decimal.Decimal `json:"pricePerDay" swaggertype:"number"`
	Available   *bool            `json:"available"`
}

// ListCars godoc
// @Summary List cars
// @Tags cars
// @Produce json
// @Success 200 {array} model.Car
// @Router /cars/getAllCars [get]
func (h *CarHandler) ListCars(c echo.Context) error {
	cars, err := h.carService.ListCars(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, cars)
}

// GetCar godoc
// @Summary Get car by id
// @Tags cars
// @Produce json
// @Param id path string true "Car ID"
// @Success 200 {object} model.Car
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/getCarById/{id} [get]
func (h *CarHandler) GetCar(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	car, err := h.carService.GetCar(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, car)
}

// AddCar godoc
// @Summary Add a car
// @Tags cars
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body CreateCarRequest true "Car data"
// @Success 201 {object} model.Car
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /cars/addCar [post]
func (h *CarHandler) AddCar(c echo.Context) error {
	var req CreateCarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	car, err := h.carService.CreateCar(c.Request().Context(), service.CarInput{
		Model:       req.Model,
		Brand:       req.Brand,
		Year:        req.Year,
		PricePerDay: req.PricePerDay,
		Available:   req.Available,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, car)
}

// UpdateCar godoc
// @Summary Update a car
// @Tags cars
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "Car ID"
// @Param request body UpdateCarRequest true "Fields to change"
// @Success 200 {object} model.Car
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/updateCar/{id} [put]
func (h *CarHandler) UpdateCar(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateCarRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	car, err := h.carService.UpdateCar(c.Request().Context(), id, service.CarPatch{
		Model:       req.Model,
		Brand:       req.Brand,
		Year:        req.Year,
		PricePerDay: req.PricePerDay,
		Available:   req.Available,
	})
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, car)
}

// DeleteCar godoc
// @Summary Delete a car
// @Tags cars
// @Produce json
// @Security CookieAuth
// @Param id path string true "Car ID"
// @Success 200 {object} MessageResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cars/deleteCar/{id} [delete]
func (h *CarHandler) DeleteCar(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.carService.DeleteCar(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "car deleted"})
}
