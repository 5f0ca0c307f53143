package dto

// RoleRequest is the payload for creating or renaming a role.
type RoleRequest struct {
	Role string `json:"role" validate:"required,max=10"`
}

// RoleStatistics reports how users spread across roles.
type RoleStatistics struct {
	TotalRoles     int64            `json:"total_roles"`
	TotalUsers     int64            `json:"total_users"`
	RoleUserCounts map[string]int64 `json:"role_user_counts"`
}

// RoleValidation answers whether a role name is acceptable and already taken.
type RoleValidation struct {
	Role   string `json:"role"`
	Valid  bool   `json:"valid"`
	Exists bool   `json:"exists"`
}

// CountResponse wraps a single count.
type CountResponse struct {
	Count int64 `json:"count"`
}
