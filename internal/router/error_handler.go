package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"carrental/internal/config"
	apperrors "carrental/internal/errors"
)

// NewErrorHandler renders every error as {message, code, stack?}.
// The stack is only attached to 5xx responses outside production.
func NewErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	withStack := !cfg.IsProduction()

	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body, cause := resolveError(err)
		if status >= http.StatusInternalServerError {
			c.Logger().Errorf("request %s %s failed: %+v", c.Request().Method, c.Path(), cause)
			if withStack {
				body.Stack = fmt.Sprintf("%+v", cause)
			}
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			c.Logger().Error(err)
		}
	}
}

// resolveError returns the status, the response body and the innermost cause worth logging.
func resolveError(err error) (int, apperrors.ErrorResponse, error) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		cause := err
		if he.Internal != nil {
			cause = he.Internal
		}
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			return he.Code, msg, cause
		case string:
			return he.Code, apperrors.ErrorResponse{Message: msg}, cause
		case error:
			return he.Code, apperrors.ErrorResponse{Message: msg.Error()}, cause
		default:
			return he.Code, apperrors.ErrorResponse{Message: http.StatusText(he.Code)}, cause
		}
	}

	httpErr := apperrors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse(), err
}
