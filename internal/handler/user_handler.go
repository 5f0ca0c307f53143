package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/service"
)

// UserHandler exposes user management endpoints.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler constructs a handler instance.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// List returns all users.
func (h *UserHandler) List(c echo.Context) error {
	records, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list users")
	}
	return Success(c, http.StatusOK, "users retrieved", records)
}

// ListActive returns the users that can sign in.
func (h *UserHandler) ListActive(c echo.Context) error {
	records, err := h.users.ListActiveUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list users")
	}
	return Success(c, http.StatusOK, "active users retrieved", records)
}

// ListByRole returns the users holding the role in the path.
func (h *UserHandler) ListByRole(c echo.Context) error {
	roleID, ok := pathID(c, "roleId")
	if !ok {
		return invalidID(c, "role id")
	}
	records, err := h.users.ListByRole(c.Request().Context(), roleID)
	if err != nil {
		return respondError(c, err, "failed to list users")
	}
	return Success(c, http.StatusOK, "users retrieved", records)
}

// Get returns one user.
func (h *UserHandler) Get(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "user id")
	}
	user, err := h.users.GetUser(c.Request().Context(), a, id)
	if err != nil {
		return respondError(c, err, "failed to load user")
	}
	return Success(c, http.StatusOK, "user retrieved", user)
}

// GetByEmail returns one user by address.
func (h *UserHandler) GetByEmail(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	user, err := h.users.GetUserByEmail(c.Request().Context(), a, c.Param("email"))
	if err != nil {
		return respondError(c, err, "failed to load user")
	}
	return Success(c, http.StatusOK, "user retrieved", user)
}

// Create provisions a new user.
func (h *UserHandler) Create(c echo.Context) error {
	var req dto.CreateUserRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.users.CreateUser(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to create user")
	}
	return Success(c, http.StatusCreated, "user created", user)
}

// Update modifies an existing user.
func (h *UserHandler) Update(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "user id")
	}
	var req dto.UpdateUserRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.users.UpdateUser(c.Request().Context(), a, id, req)
	if err != nil {
		return respondError(c, err, "failed to update user")
	}
	return Success(c, http.StatusOK, "user updated", user)
}

// Activate re-enables an account.
func (h *UserHandler) Activate(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "user id")
	}
	user, err := h.users.ActivateUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to activate user")
	}
	return Success(c, http.StatusOK, "user activated", user)
}

// Deactivate disables an account.
func (h *UserHandler) Deactivate(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "user id")
	}
	user, err := h.users.DeactivateUser(c.Request().Context(), a, id)
	if err != nil {
		return respondError(c, err, "failed to deactivate user")
	}
	return Success(c, http.StatusOK, "user deactivated", user)
}

// Delete removes a user.
func (h *UserHandler) Delete(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "user id")
	}
	if err := h.users.DeleteUser(c.Request().Context(), a, id); err != nil {
		return respondError(c, err, "failed to delete user")
	}
	return Success(c, http.StatusOK, "user deleted", nil)
}

// ChangePassword replaces a user's password.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "user id")
	}
	var req dto.ChangePasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.users.ChangePassword(c.Request().Context(), a, id, req); err != nil {
		return respondError(c, err, "failed to change password")
	}
	return Success(c, http.StatusOK, "password changed", nil)
}

// Statistics summarises accounts.
func (h *UserHandler) Statistics(c echo.Context) error {
	stats, err := h.users.Statistics(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to compute user statistics")
	}
	return Success(c, http.StatusOK, "user statistics retrieved", stats)
}
