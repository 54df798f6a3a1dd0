package domain

import (
	"time"

	"github.com/mygroup/apphub/internal/roles"
)

// User is the stored account behind a session.
type User struct {
	ID           string
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         roles.Role
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasAdminAccess reports whether the user carries the admin flag or the admin role.
func (u *User) HasAdminAccess() bool {
	return u != nil && (u.IsAdmin || u.Role == roles.Admin)
}
