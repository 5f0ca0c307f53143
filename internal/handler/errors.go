package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/mailer"
	"github.com/helha/gdpr-app/internal/middleware"
	"github.com/helha/gdpr-app/internal/repository"
	"github.com/helha/gdpr-app/internal/service"
)

// respondError maps service and repository errors to HTTP responses.
// Unknown errors become a 500 carrying fallback.
func respondError(c echo.Context, err error, fallback string) error {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		return Error(c, http.StatusBadRequest, verr.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return Error(c, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrInvalidToken):
		return Error(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrAccountDisabled):
		return Error(c, http.StatusForbidden, "account is disabled")
	case errors.Is(err, service.ErrForbidden):
		return Error(c, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrRoleProtected):
		return Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRequestNotPending),
		errors.Is(err, repository.ErrRoleInUse):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrRoleNotFound),
		errors.Is(err, repository.ErrCompanyNotFound),
		errors.Is(err, repository.ErrRequestNotFound):
		return Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrEmailDuplicate),
		errors.Is(err, repository.ErrRoleDuplicate),
		errors.Is(err, repository.ErrCompanyNameDuplicate),
		errors.Is(err, repository.ErrCompanyEmailDuplicate):
		return Error(c, http.StatusConflict, err.Error())
	case errors.Is(err, mailer.ErrUnknownTemplate),
		errors.Is(err, mailer.ErrMissingVariable),
		errors.Is(err, mailer.ErrInvalidRecipient),
		errors.Is(err, mailer.ErrHeaderInjection):
		return Error(c, http.StatusBadRequest, err.Error())
	default:
		middleware.LoggerFromContext(c).Error().Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg(fallback)
		return Error(c, http.StatusInternalServerError, fallback)
	}
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context, name string) error {
	return Error(c, http.StatusBadRequest, "invalid "+name)
}

// actor builds the service caller from the JWT middleware context values.
func actor(c echo.Context) (service.Actor, bool) {
	id, ok := middleware.UserIDFromContext(c)
	if !ok {
		return service.Actor{}, false
	}
	email, _ := c.Get(middleware.ContextKeyUserEmail).(string)
	role, _ := c.Get(middleware.ContextKeyUserRole).(string)
	return service.Actor{UserID: id, Email: email, Role: role}, true
}

func unauthenticated(c echo.Context) error {
	return Error(c, http.StatusUnauthorized, "authentication required")
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
