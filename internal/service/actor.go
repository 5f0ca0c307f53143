package service

import "github.com/helha/gdpr-app/internal/entity"

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	UserID int64
	Email  string
	Role   string
}

func (a Actor) IsAdmin() bool  { return a.Role == entity.RoleAdmin }
func (a Actor) IsGerant() bool { return a.Role == entity.RoleGerant }

// CanAccessUser reports whether the actor may read or edit the given account.
func (a Actor) CanAccessUser(userID int64) bool {
	return a.IsAdmin() || a.UserID == userID
}
