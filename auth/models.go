package auth

import "time"

// Role is the closed set of account roles. Keeping it closed (rather than a
// free-form string read from storage) means every gate can switch
// exhaustively and an unknown value can never reach a handler.
type Role string

const (
	// RoleNone is the resolution result for anonymous or failed lookups.
	// It is never stored.
	RoleNone  Role = "none"
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the storable values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the domain representation of an account row. It mirrors the users
// table and should not include JSON annotations so it can be reused by
// different presentation layers.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	Phone        *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignUpRequest contains account registration data supplied by callers.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignInRequest contains login credentials.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Claims is the verified content of a bearer token.
type Claims struct {
	UserID    string
	Email     string
	Role      Role
	SessionID string
}
