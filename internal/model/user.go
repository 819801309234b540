package model

import "time"

// Role values stored in the users.role column.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an application user record as stored in the `users`
// table. The password column holds a bcrypt hash, never the plaintext.
// Users are only ever soft-deleted: the Deleted flag marks a row as
// logically removed while it stays in storage. Handlers define separate
// response types so the hash never reaches a JSON body.
type User struct {
	ID        uint64    // users.id
	Name      string    // users.name
	Email     string    // users.email (unique)
	Password  string    // users.password (bcrypt hash)
	Role      string    // users.role (USER or ADMIN)
	Deleted   bool      // users.deleted (soft-delete flag)
	CreatedAt time.Time // users.created_at
	UpdatedAt time.Time // users.updated_at
}

// IsAdmin reports whether the user carries the ADMIN role.
func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
