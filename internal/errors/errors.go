package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user id does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrCarNotFound is returned when a car id does not resolve.
	ErrCarNotFound = errors.New("car not found")
	// ErrRentalNotFound is returned when a rental id does not resolve.
	ErrRentalNotFound = errors.New("rental not found")

	// ErrEmailTaken is returned when registering or renaming to an email that is already used.
	ErrEmailTaken = errors.New("email already exists")

	// ErrInvalidCredentials is returned for unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrNotAuthorized is returned when a protected route is called without a session token.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrInvalidToken is returned when a session token fails signature, expiry or revocation checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrForbidden is returned when the principal lacks the required role.
	ErrForbidden = errors.New("admin access only")

	// ErrInvalidID is returned when a path id is not a valid identifier.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidRentalDates is returned when endDate is not strictly after startDate.
	ErrInvalidRentalDates = errors.New("invalid rental dates")
	// ErrInvalidStatus is returned for status values outside ongoing, completed and cancelled.
	ErrInvalidStatus = errors.New("invalid rental status")
	// ErrInvalidTransition is returned when a rental status change is not allowed.
	ErrInvalidTransition = errors.New("rental status transition not allowed")
	// ErrDerivedField is returned when a caller tries to overwrite totalPrice.
	ErrDerivedField = errors.New("totalPrice is derived and cannot be set")
	// ErrInvalidTheme is returned when the theme flag is missing or not a boolean.
	ErrInvalidTheme = errors.New("invalid or missing 'DarkMode' value")
	// ErrInvalidPrice is returned when a car's daily price is not positive.
	ErrInvalidPrice = errors.New("pricePerDay must be greater than zero")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Message: e.Message,
		Code:    e.Code,
	}
}

var mappings = []struct {
	err    error
	status int
	code   string
}{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrCarNotFound, http.StatusNotFound, "CAR_NOT_FOUND"},
	{ErrRentalNotFound, http.StatusNotFound, "RENTAL_NOT_FOUND"},
	{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrNotAuthorized, http.StatusUnauthorized, "NOT_AUTHORIZED"},
	{ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrInvalidID, http.StatusBadRequest, "INVALID_ID"},
	{ErrInvalidRentalDates, http.StatusBadRequest, "INVALID_RENTAL_DATES"},
	{ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
	{ErrInvalidTransition, http.StatusBadRequest, "INVALID_TRANSITION"},
	{ErrDerivedField, http.StatusBadRequest, "DERIVED_FIELD"},
	{ErrInvalidTheme, http.StatusBadRequest, "INVALID_THEME"},
	{ErrInvalidPrice, http.StatusBadRequest, "INVALID_PRICE"},
}

// MapErrorToHTTP maps domain errors, wrapped or not, to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			return NewHTTPError(m.status, m.err.Error(), m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}

// IsDomain reports whether err maps to a non-500 status.
func IsDomain(err error) bool {
	return MapErrorToHTTP(err).StatusCode != http.StatusInternalServerError
}
