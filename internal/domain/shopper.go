package domain

import "time"

// Roles recognised by the access-control layer.
const (
	RoleClient  = "client"
	RoleManager = "manager"
	RoleAdmin   = "admin"
)

// Shopper represents a registered principal: a regular client, a store
// manager, or an admin.
type Shopper struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName,omitempty"`
	LastName     string    `json:"lastName,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Principal is the resolved identity attached to a request.
type Principal struct {
	ShopperID string
	Role      string
}

// Privileged reports whether the principal may read and mutate any order.
func (p Principal) Privileged() bool {
	return p.Role == RoleAdmin
}
