// internal/domain/auth/entity.go
package auth

import "fmt"

// Role is the closed set of console roles.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleAgent Role = "AGENT"
)

const (
	LoginPath          = "/login"
	ChangePasswordPath = "/change-password"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleAgent:
		return true
	default:
		return false
	}
}

// Home is the landing route for the role.
func (r Role) Home() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleAgent:
		return "/agent"
	default:
		panic(fmt.Sprintf("auth: unknown role %q", string(r)))
	}
}

// Label is the header badge text for the role.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleAgent:
		return "Đại lý"
	default:
		return string(r)
	}
}

// Identity is the authenticated user as reported by the API.
type Identity struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Role         Role   `json:"role"`
	IsFirstLogin bool   `json:"isFirstLogin"`
}

// LandingPath is where the identity goes after login: the password change
// page on first login, the role home otherwise.
func (i *Identity) LandingPath() string {
	if i.IsFirstLogin {
		return ChangePasswordPath
	}
	return i.Role.Home()
}

// IsAdmin is nil-safe so templates can call it without a guard.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
