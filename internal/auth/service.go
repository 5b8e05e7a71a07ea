// Package auth resolves bearer tokens to identities and owns the sign-up and
// sign-in flows that mint user tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/token"
	"github.com/portcullis-auth/portcullis/internal/user"
)

// ErrUnauthenticated is returned for every token that does not resolve to an
// Active subject. Callers must not learn which check failed.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrInvalidCredentials is returned when a sign-in email/password pair does
// not match an account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates requests and issues user access tokens.
type Service struct {
	users        user.Repository
	apps         application.Repository
	codec        *token.Codec
	userTokenTTL time.Duration
	bcryptCost   int
}

// NewService creates an auth Service.
func NewService(users user.Repository, apps application.Repository, codec *token.Codec, userTokenTTL time.Duration, bcryptCost int) *Service {
	return &Service{
		users:        users,
		apps:         apps,
		codec:        codec,
		userTokenTTL: userTokenTTL,
		bcryptCost:   bcryptCost,
	}
}

// HashPassword hashes a plaintext password with the configured cost.
func (s *Service) HashPassword(plain string) (string, error) {
	return HashPassword(plain, s.bcryptCost)
}

// SignUp creates an Active SuperAdmin account and returns it together with a
// fresh access token.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*user.User, string, error) {
	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &user.User{
		Name:         name,
		EmailAddress: email,
		PasswordHash: hash,
		Role:         user.RoleSuperAdmin,
		Status:       user.StatusActive,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	raw, err := s.codec.IssueUserToken(u.ID, u.Name, s.userTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issuing access token: %w", err)
	}

	return u, raw, nil
}

// SignIn verifies an email/password pair and returns the account with a
// fresh access token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := s.users.GetByEmailAddress(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if !ComparePassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	raw, err := s.codec.IssueUserToken(u.ID, u.Name, s.userTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("issuing access token: %w", err)
	}

	return u, raw, nil
}

// Authenticate resolves a raw bearer token to an Identity. A structurally
// valid signature is not enough: the subject must exist and be Active.
// Exactly one of the user/application branches is taken, keyed by which
// identity claim the token carries.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*Identity, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		slog.Debug("token verification failed")
		return nil, ErrUnauthenticated
	}

	switch {
	case claims.UserID != nil:
		u, err := s.users.GetByID(ctx, *claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				slog.Debug("token subject not found", "userId", *claims.UserID)
				return nil, ErrUnauthenticated
			}
			return nil, fmt.Errorf("looking up token subject: %w", err)
		}
		if u.Status != user.StatusActive {
			slog.Debug("token subject not active", "userId", u.ID, "status", u.Status)
			return nil, ErrUnauthenticated
		}
		return &Identity{User: u}, nil

	case claims.ClientID != "":
		a, err := s.apps.GetByClientID(ctx, claims.ClientID)
		if err != nil {
			if errors.Is(err, application.ErrApplicationNotFound) {
				slog.Debug("token subject not found", "clientId", claims.ClientID)
				return nil, ErrUnauthenticated
			}
			return nil, fmt.Errorf("looking up token subject: %w", err)
		}
		if a.Status != application.StatusActive {
			slog.Debug("token subject not active", "clientId", a.ClientID, "status", a.Status)
			return nil, ErrUnauthenticated
		}
		return &Identity{Application: a}, nil
	}

	slog.Debug("token carries no identity claim")
	return nil, ErrUnauthenticated
}
