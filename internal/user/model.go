package user

import "time"

// Role is the closed set of admin roles a user can hold.
type Role string

const (
	RoleSuperAdmin   Role = "SuperAdmin"
	RoleStaffAdmin   Role = "StaffAdmin"
	RoleManagerAdmin Role = "ManagerAdmin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleStaffAdmin, RoleManagerAdmin:
		return true
	}
	return false
}

// Status is the lifecycle state of a user account. Only Active users can
// authenticate; Inactive and Banned users are rejected even with a valid
// unexpired token.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
	StatusBanned   Status = "Banned"
)

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusBanned:
		return true
	}
	return false
}

// User represents a row in the users table. PasswordHash is a bcrypt digest;
// the plaintext is never stored or serialized.
type User struct {
	ID           int64
	Name         string
	EmailAddress string
	PasswordHash string
	Role         Role
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
