package dto

// LoginRequest captures credential input.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=50"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the issued tokens and a summary of the authenticated user.
type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
	Type         string `json:"type"`
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Role         string `json:"role"`
}

// RegisterRequest captures self-service registration payloads.
type RegisterRequest struct {
	Firstname string `json:"firstname" validate:"required,max=50"`
	Lastname  string `json:"lastname" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,max=50"`
	Password  string `json:"password" validate:"required,max=128"`
	RoleID    *int64 `json:"role_id,omitempty"`
}

// TokenRequest carries a bare token for refresh and validation.
type TokenRequest struct {
	Token string `json:"token" validate:"required"`
}

// RefreshResponse holds a newly minted access token.
type RefreshResponse struct {
	Token string `json:"token"`
	Type  string `json:"type"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,max=50"`
}

// ResetPasswordRequest completes a password reset with the emailed token.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,max=128"`
}

// ChangePasswordRequest is used by users changing their own password or by admins.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password" validate:"required,max=128"`
}

// UpdateProfileRequest captures self-service profile edits.
type UpdateProfileRequest struct {
	Firstname *string `json:"firstname,omitempty" validate:"omitempty,max=50"`
	Lastname  *string `json:"lastname,omitempty" validate:"omitempty,max=50"`
	Email     *string `json:"email,omitempty" validate:"omitempty,max=50"`
}
