package application

import (
	"context"
	"errors"
)

// ErrApplicationNotFound is returned when an application record is not found.
var ErrApplicationNotFound = errors.New("application not found")

// ListFilter orders and paginates an application listing. OrderBy is "asc"
// or "desc" by id (anything else falls back to "desc").
type ListFilter struct {
	OrderBy string
	Offset  int
	Limit   int
}

// Repository provides operations on the applications table.
type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByID(ctx context.Context, id int64) (*Application, error)
	GetByClientID(ctx context.Context, clientID string) (*Application, error)
	List(ctx context.Context, f ListFilter) ([]Application, error)
	Update(ctx context.Context, id int64, name, homepage, description string) error
	UpdateCredentials(ctx context.Context, id int64, creds Credentials) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
}
