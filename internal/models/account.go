package models

import "time"

// Role determines which routes an account may access. Checks are
// exact-match: admin does not implicitly pass a student-only gate.
type Role string

const (
	RoleStudent  Role = "student"
	RoleLecturer Role = "lecturer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleLecturer, RoleAdmin:
		return true
	}
	return false
}

// Account is a stored login identity. The hash never leaves the server.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Identity is the verified {id, role} pair attached to a request
// after the bearer token checks out.
type Identity struct {
	ID   int64
	Role Role
}
