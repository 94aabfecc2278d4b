package favorite

import "time"

// Favorite is the join row between a user and a property. At most one row
// exists per (user_id, property_id) pair, enforced by a unique constraint in
// the store.
type Favorite struct {
	ID         string
	UserID     string
	PropertyID string
	CreatedAt  time.Time
}
