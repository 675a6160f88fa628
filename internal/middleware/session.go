package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	apperrors "carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/service"
)

const (
	// SessionCookieName is the cookie carrying the session token.
	SessionCookieName = "token"

	principalKey = "principal"
)

// sessionLookupError marks failures that happened while resolving a valid-looking
// token, such as an unreachable database. They surface as 500s, not 401s.
type sessionLookupError struct {
	err error
}

func (e *sessionLookupError) Error() string { return e.err.Error() }
func (e *sessionLookupError) Unwrap() error { return e.err }

// Session resolves the session token from the token cookie or a bearer header
// and stores the user as the request principal.
func Session(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "cookie:" + SessionCookieName + ",header:" + echo.HeaderAuthorization + ":Bearer ",
		ContextKey:  principalKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			user, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				if errors.Is(err, apperrors.ErrInvalidToken) {
					return nil, err
				}
				return nil, &sessionLookupError{err: err}
			}
			return user, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			var lookupErr *sessionLookupError
			switch {
			case errors.As(err, &lookupErr):
				return lookupErr.err
			case errors.Is(err, apperrors.ErrInvalidToken):
				return apperrors.ErrInvalidToken
			default:
				// no token in the cookie nor in the header
				return apperrors.ErrNotAuthorized
			}
		},
	})
}

// RequireAdmin rejects principals without the admin role.
// It must be chained after Session.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			if principal == nil {
				return apperrors.ErrNotAuthorized
			}
			if !principal.IsAdmin() {
				return apperrors.ErrForbidden
			}
			return next(c)
		}
	}
}

// PrincipalFrom returns the authenticated user of the request, or nil.
func PrincipalFrom(c echo.Context) *model.User {
	user, _ := c.Get(principalKey).(*model.User)
	return user
}

// WithPrincipal attaches a principal to the request context.
func WithPrincipal(c echo.Context, user *model.User) {
	c.Set(principalKey, user)
}
