package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/service"
)

// EmailsHandler exposes the administrative mail endpoints.
type EmailsHandler struct {
	emails *service.EmailService
}

// NewEmailsHandler constructs an EmailsHandler.
func NewEmailsHandler(emails *service.EmailService) *EmailsHandler {
	return &EmailsHandler{emails: emails}
}

func (h *EmailsHandler) Test(c echo.Context) error {
	var req dto.TestEmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if err := h.emails.SendTest(c.Request().Context(), req.To); err != nil {
		return respondError(c, err, "failed to send test email")
	}
	return Success(c, http.StatusOK, "test email sent", nil)
}

func (h *EmailsHandler) Simple(c echo.Context) error {
	var req dto.SimpleEmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if err := h.emails.SendSimple(c.Request().Context(), req); err != nil {
		return respondError(c, err, "failed to send email")
	}
	return Success(c, http.StatusOK, "email sent", nil)
}

func (h *EmailsHandler) Custom(c echo.Context) error {
	var req dto.CustomEmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if err := h.emails.SendCustom(c.Request().Context(), req); err != nil {
		return respondError(c, err, "failed to send email")
	}
	return Success(c, http.StatusOK, "email sent", nil)
}

// Bulk sends one message per recipient and reports failures without aborting.
func (h *EmailsHandler) Bulk(c echo.Context) error {
	var req dto.BulkEmailRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	result, err := h.emails.SendBulk(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "failed to send bulk email")
	}
	return Success(c, http.StatusOK, "bulk email processed", result)
}

func (h *EmailsHandler) AdminNotification(c echo.Context) error {
	var req dto.AdminNotificationRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if err := h.emails.NotifyAdmins(c.Request().Context(), req); err != nil {
		return respondError(c, err, "failed to notify administrators")
	}
	return Success(c, http.StatusOK, "administrators notified", nil)
}

func (h *EmailsHandler) Statistics(c echo.Context) error {
	stats, err := h.emails.Statistics(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to load email statistics")
	}
	return Success(c, http.StatusOK, "email statistics retrieved", stats)
}

// Templates lists the templates accepted by the custom and bulk endpoints.
func (h *EmailsHandler) Templates(c echo.Context) error {
	return Success(c, http.StatusOK, "email templates retrieved", h.emails.Templates())
}

func (h *EmailsHandler) ResendWelcome(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return invalidID(c, "user id")
	}
	if err := h.emails.ResendWelcome(c.Request().Context(), userID); err != nil {
		return respondError(c, err, "failed to resend welcome email")
	}
	return Success(c, http.StatusOK, "welcome email sent", nil)
}
