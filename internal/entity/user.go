package entity

import "time"

// User is an account able to authenticate against the API.
type User struct {
	ID           int64     `json:"id_user"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	RoleID       int64     `json:"id_role"`
	Role         string    `json:"role"`
	CompanyID    *int64    `json:"id_company,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FullName joins first and last name for greetings.
func (u User) FullName() string {
	switch {
	case u.Firstname == "":
		return u.Lastname
	case u.Lastname == "":
		return u.Firstname
	default:
		return u.Firstname + " " + u.Lastname
	}
}
