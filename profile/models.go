package profile

import (
	"time"

	"homeflow/auth"
)

// Profile is the public-facing slice of a user row. It never carries the
// password hash.
type Profile struct {
	ID        string
	Email     string
	Name      string
	Phone     *string
	Role      auth.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UpdateParams carries the self-editable profile fields. Nil means leave
// the field unchanged.
type UpdateParams struct {
	Name  *string
	Phone *string
}
