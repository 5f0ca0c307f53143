package entity

// Role names seeded at startup. They gate endpoint access and cannot be deleted.
const (
	RoleAdmin  = "ADMIN"
	RoleClient = "CLIENT"
	RoleGerant = "GERANT"
)

// DefaultRoles lists the roles every deployment must carry.
var DefaultRoles = []string{RoleAdmin, RoleClient, RoleGerant}

// Role is an authorization tag attached to users.
type Role struct {
	ID   int64  `json:"id_role"`
	Name string `json:"role"`
}

// IsSystemRole reports whether name is one of the seeded roles.
func IsSystemRole(name string) bool {
	for _, r := range DefaultRoles {
		if r == name {
			return true
		}
	}
	return false
}
