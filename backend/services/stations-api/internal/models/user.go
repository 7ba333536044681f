package models

import "time"

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an account able to sign in to the dashboard.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Permissions are the role-derived capability flags exposed to clients.
type Permissions struct {
	CanViewStations   bool `json:"can_view_stations"`
	CanManageStations bool `json:"can_manage_stations"`
	IsAdmin           bool `json:"is_admin"`
}

// PermissionsFor derives flags from the user's role.
func PermissionsFor(u *User) Permissions {
	return Permissions{
		CanViewStations:   u != nil,
		CanManageStations: u.IsAdmin(),
		IsAdmin:           u.IsAdmin(),
	}
}
