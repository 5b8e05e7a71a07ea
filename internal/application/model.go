package application

import "time"

// Status is the lifecycle state of a client application. Only Active
// applications can exchange credentials for tokens or authenticate.
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

// Application represents a registered OAuth client. ClientSecret is only
// disclosed in the create and credential-rotation responses; every other
// serialization omits it.
type Application struct {
	ID                         int64
	Name                       string
	Homepage                   string
	Description                string
	ClientID                   string
	ClientSecret               string
	ClientCredentialsUpdatedAt time.Time
	Status                     Status
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}
