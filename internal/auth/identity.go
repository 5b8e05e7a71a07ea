package auth

import (
	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/user"
)

// Identity is the resolved subject of an authenticated request. Exactly one
// of User and Application is non-nil.
type Identity struct {
	User        *user.User
	Application *application.Application
}

// IsUser reports whether the identity is a human user.
func (i *Identity) IsUser() bool { return i.User != nil }

// IsApplication reports whether the identity is a machine client.
func (i *Identity) IsApplication() bool { return i.Application != nil }
