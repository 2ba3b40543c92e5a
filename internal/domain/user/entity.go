package user

import (
	"time"

	"github.com/google/uuid"
)

// Role represents user role in the system
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents a user account. Credits are tonnes of CO2e the user may
// still emit; WalletBalance is currency used on the marketplace. Both are
// mutated only through the engine repositories, never written directly by
// handlers.
type User struct {
	ID            uuid.UUID `db:"id"`
	Username      string    `db:"username"`
	PasswordHash  string    `db:"password_hash"`
	Role          Role      `db:"role"`
	Credits       float64   `db:"credits"`
	WalletBalance float64   `db:"wallet_balance"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
