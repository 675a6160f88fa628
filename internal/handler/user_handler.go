package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// UpdateThemeRequest carries the dark mode flag. The dashboard sends it as DarkMode.
type UpdateThemeRequest struct {
	DarkMode *bool `json:"darkMode"`
}

// ThemeResponse echoes the stored dark mode flag.
type ThemeResponse struct {
	Message  string `json:"message"`
	DarkMode bool   `json:"darkMode"`
}

// UpdateUserRequest represents an admin user update. Omitted fields are kept.
type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=6"`
	Role     *string `json:"role" validate:"omitempty,oneof=user admin"`
	DarkMode *bool   `json:"darkMode"`
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users/getAllUsers [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/getUserById/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateTheme godoc
// @Summary Set the caller's dark mode preference
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param request body UpdateThemeRequest true "Theme flag"
// @Success 200 {object} ThemeResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/updateTheme [put]
func (h *UserHandler) UpdateTheme(c echo.Context) error {
	user, err := principal(c)
	if err != nil {
		return err
	}

	var req UpdateThemeRequest
	if err := c.Bind(&req); err != nil || req.DarkMode == nil {
		return respondError(errors.ErrInvalidTheme)
	}

	darkMode, err := h.svc.UpdateTheme(c.Request().Context(), user.ID, *req.DarkMode)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, ThemeResponse{
		Message:  "theme updated successfully",
		DarkMode: darkMode,
	})
}

// UpdateUser godoc
// @Summary Update any user field
// @Tags users
// @Accept json
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Param request body UpdateUserRequest true "Fields to change"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users/updateUser/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		DarkMode: req.DarkMode,
	}
	if req.Role != nil {
		role := model.Role(*req.Role)
		in.Role = &role
	}

	user, err := h.svc.UpdateUser(c.Request().Context(), id, in)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete user
// @Tags users
// @Produce json
// @Security CookieAuth
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/deleteUser/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}

// GetUserCount godoc
// @Summary Count all users
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} CountResponse
// @Router /users/getUserCount [get]
func (h *UserHandler) GetUserCount(c echo.Context) error {
	count, err := h.svc.CountUsers(c.Request().Context())
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CountResponse{Count: count})
}

// GetAdminCount godoc
// @Summary Count admins
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} CountResponse
// @Router /users/getAdminCount [get]
func (h *UserHandler) GetAdminCount(c echo.Context) error {
	return h.countByRole(c, model.RoleAdmin)
}

// GetRegularUserCount godoc
// @Summary Count regular users
// @Tags users
// @Produce json
// @Security CookieAuth
// @Success 200 {object} CountResponse
// @Router /users/getRegularUserCount [get]
func (h *UserHandler) GetRegularUserCount(c echo.Context) error {
	return h.countByRole(c, model.RoleUser)
}

func (h *UserHandler) countByRole(c echo.Context, role model.Role) error {
	count, err := h.svc.CountUsersByRole(c.Request().Context(), role)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, CountResponse{Count: count})
}
