package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/service"
)

// RoleHandler exposes role administration endpoints.
type RoleHandler struct {
	roles *service.RoleService
}

// NewRoleHandler constructs a RoleHandler.
func NewRoleHandler(roles *service.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) List(c echo.Context) error {
	roles, err := h.roles.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list roles")
	}
	return Success(c, http.StatusOK, "roles retrieved", roles)
}

func (h *RoleHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "role id")
	}
	role, err := h.roles.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to load role")
	}
	return Success(c, http.StatusOK, "role retrieved", role)
}

func (h *RoleHandler) GetByName(c echo.Context) error {
	role, err := h.roles.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondError(c, err, "failed to load role")
	}
	return Success(c, http.StatusOK, "role retrieved", role)
}

func (h *RoleHandler) Create(c echo.Context) error {
	var req dto.RoleRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	role, err := h.roles.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to create role")
	}
	return Success(c, http.StatusCreated, "role created", role)
}

func (h *RoleHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "role id")
	}
	var req dto.RoleRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	role, err := h.roles.Update(c.Request().Context(), id, req)
	if err != nil {
		return respondError(c, err, "failed to update role")
	}
	return Success(c, http.StatusOK, "role updated", role)
}

func (h *RoleHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "role id")
	}
	if err := h.roles.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "failed to delete role")
	}
	return Success(c, http.StatusOK, "role deleted", nil)
}

// CountUsers handles GET /api/roles/:id/users/count.
func (h *RoleHandler) CountUsers(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return invalidID(c, "role id")
	}
	n, err := h.roles.CountUsers(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to count users")
	}
	return Success(c, http.StatusOK, "user count retrieved", dto.CountResponse{Count: n})
}

func (h *RoleHandler) Statistics(c echo.Context) error {
	stats, err := h.roles.Statistics(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to compute role statistics")
	}
	return Success(c, http.StatusOK, "role statistics retrieved", stats)
}

func (h *RoleHandler) Names(c echo.Context) error {
	names, err := h.roles.Names(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list role names")
	}
	return Success(c, http.StatusOK, "role names retrieved", names)
}

// InitDefaults creates the missing system roles.
func (h *RoleHandler) InitDefaults(c echo.Context) error {
	created, err := h.roles.InitDefaults(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to create default roles")
	}
	return Success(c, http.StatusOK, fmt.Sprintf("created %d default roles", created), dto.CountResponse{Count: int64(created)})
}

func (h *RoleHandler) Validate(c echo.Context) error {
	result, err := h.roles.Validate(c.Request().Context(), c.Param("name"))
	if err != nil {
		return respondError(c, err, "failed to validate role")
	}
	return Success(c, http.StatusOK, "role validated", result)
}
