package user

import (
	"context"
	"errors"
)

// ErrUserNotFound is returned when a user record is not found.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when an insert or update would violate the
// unique email address constraint.
var ErrDuplicateEmail = errors.New("email address already in use")

// ListFilter narrows and orders a user listing. At most one of Role and
// Status is set; OrderBy is "asc" or "desc" by id (anything else falls back
// to "desc").
type ListFilter struct {
	Role    *Role
	Status  *Status
	OrderBy string
	Offset  int
	Limit   int
}

// Repository provides operations on the users table.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmailAddress(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, f ListFilter) ([]User, error)
	Update(ctx context.Context, id int64, name, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateRole(ctx context.Context, id int64, role Role) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}
