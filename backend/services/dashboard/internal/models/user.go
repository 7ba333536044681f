package models

// Roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the account returned by the auth endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Permissions are the capability flags returned by /auth/permissions.
type Permissions struct {
	CanViewStations   bool `json:"can_view_stations"`
	CanManageStations bool `json:"can_manage_stations"`
	IsAdmin           bool `json:"is_admin"`
}

// PermissionsResponse is the /auth/permissions body.
type PermissionsResponse struct {
	Permissions Permissions `json:"permissions"`
	Role        string      `json:"role"`
}

// LoginResponse is the /auth/login body.
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}
