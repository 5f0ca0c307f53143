package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/dto"
	"github.com/helha/gdpr-app/internal/middleware"
	"github.com/helha/gdpr-app/internal/service"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(c echo.Context) error {
	var req dto.RegisterRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.authService.Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "unable to register user")
	}

	return Success(c, http.StatusCreated, "registration successful", user)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	resp, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return respondError(c, err, "unable to authenticate")
	}

	return Success(c, http.StatusOK, "login successful", resp)
}

// Refresh handles POST /api/auth/refresh requests.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req dto.TokenRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Refresh(c.Request().Context(), strings.TrimSpace(req.Token))
	if err != nil {
		return respondError(c, err, "unable to refresh token")
	}
	return Success(c, http.StatusOK, "token refreshed", resp)
}

// Validate handles POST /api/auth/validate requests.
func (h *AuthHandler) Validate(c echo.Context) error {
	var req dto.TokenRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.authService.Validate(c.Request().Context(), strings.TrimSpace(req.Token))
	if err != nil {
		return respondError(c, err, "unable to validate token")
	}
	return Success(c, http.StatusOK, "token is valid", user)
}

// ForgotPassword handles POST /api/auth/forgot-password. The answer is the same whether or not the account exists.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req dto.ForgotPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.authService.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return respondError(c, err, "unable to process request")
	}
	return Success(c, http.StatusOK, "if the account exists, a password reset email has been sent", nil)
}

// ResetPassword handles POST /api/auth/reset-password requests.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req dto.ResetPasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.authService.ResetPassword(c.Request().Context(), strings.TrimSpace(req.Token), req.NewPassword); err != nil {
		return respondError(c, err, "unable to reset password")
	}
	return Success(c, http.StatusOK, "password has been reset", nil)
}

// Logout revokes the bearer token of the current request.
func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}
	if err := h.authService.Logout(c.Request().Context(), claims); err != nil {
		return respondError(c, err, "unable to log out")
	}
	return Success(c, http.StatusOK, "logged out", nil)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	user, err := h.authService.Profile(c.Request().Context(), a)
	if err != nil {
		return respondError(c, err, "unable to load profile")
	}
	return Success(c, http.StatusOK, "profile retrieved", user)
}

// UpdateMe changes the caller's names and email.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	var req dto.UpdateProfileRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	user, err := h.authService.UpdateProfile(c.Request().Context(), a, req)
	if err != nil {
		return respondError(c, err, "unable to update profile")
	}
	return Success(c, http.StatusOK, "profile updated", user)
}

// ChangePassword replaces the caller's password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	a, ok := actor(c)
	if !ok {
		return unauthenticated(c)
	}
	var req dto.ChangePasswordRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	if err := h.authService.ChangePassword(c.Request().Context(), a, req); err != nil {
		return respondError(c, err, "unable to change password")
	}
	return Success(c, http.StatusOK, "password changed", nil)
}
