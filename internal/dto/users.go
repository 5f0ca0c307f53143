package dto

import "time"

// CreateUserRequest is used by administrators to create new users.
// An empty password makes the service generate one and mail it to the user.
type CreateUserRequest struct {
	Firstname string `json:"firstname" validate:"required,max=50"`
	Lastname  string `json:"lastname" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,max=50"`
	Password  string `json:"password,omitempty" validate:"max=128"`
	RoleID    *int64 `json:"role_id,omitempty"`
	CompanyID *int64 `json:"company_id,omitempty"`
	Active    *bool  `json:"active,omitempty"`
}

// UpdateUserRequest captures partial updates.
type UpdateUserRequest struct {
	Firstname *string `json:"firstname,omitempty" validate:"omitempty,max=50"`
	Lastname  *string `json:"lastname,omitempty" validate:"omitempty,max=50"`
	Email     *string `json:"email,omitempty" validate:"omitempty,max=50"`
	RoleID    *int64  `json:"role_id,omitempty"`
	CompanyID *int64  `json:"company_id,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

// UserResponse represents user data returned to clients.
type UserResponse struct {
	ID        int64     `json:"id"`
	Firstname string    `json:"firstname"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	RoleID    int64     `json:"role_id"`
	Role      string    `json:"role"`
	CompanyID *int64    `json:"company_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserStatistics summarises accounts by activity and role.
type UserStatistics struct {
	TotalUsers         int64            `json:"total_users"`
	ActiveUsers        int64            `json:"active_users"`
	InactiveUsers      int64            `json:"inactive_users"`
	ActivePercentage   float64          `json:"active_percentage"`
	InactivePercentage float64          `json:"inactive_percentage"`
	UsersByRole        map[string]int64 `json:"users_by_role"`
}
