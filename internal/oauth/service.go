// Package oauth implements the client_credentials grant: an application
// exchanges its client id/secret pair for a bearer access token.
package oauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/token"
)

// GrantTypeClientCredentials is the only supported grant type.
const GrantTypeClientCredentials = "client_credentials"

// TokenTypeBearer is the fixed token_type literal of success responses.
const TokenTypeBearer = "Bearer"

// OAuth2-style error codes surfaced to clients.
const (
	ErrCodeInvalidRequest       = "invalid_request"
	ErrCodeUnsupportedGrantType = "unsupported_grant_type"
	ErrCodeInvalidClient        = "invalid_client"
	ErrCodeServerError          = "ERROR"
)

// TokenRequest is the decoded body of an access token request.
type TokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

// TokenResponse is the success body of an access token request.
type TokenResponse struct {
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	AccessToken string `json:"access_token"`
}

// Error is a protocol-level rejection carrying an OAuth2 error code. It
// distinguishes request-shape problems from credential problems without
// exposing anything else.
type Error struct {
	Code        string `json:"error"`
	Description string `json:"error_description"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Service performs the client-credentials exchange.
type Service struct {
	apps     application.Repository
	codec    *token.Codec
	tokenTTL time.Duration
}

// NewService creates an oauth Service issuing tokens with the given TTL.
func NewService(apps application.Repository, codec *token.Codec, tokenTTL time.Duration) *Service {
	return &Service{apps: apps, codec: codec, tokenTTL: tokenTTL}
}

// Exchange validates the request and issues an access token whose identity
// claim is the application's client id. Protocol failures are returned as
// *Error; anything else is an internal error.
func (s *Service) Exchange(ctx context.Context, req TokenRequest) (*TokenResponse, error) {
	if req.GrantType == "" || req.ClientID == "" || req.ClientSecret == "" {
		return nil, &Error{
			Code:        ErrCodeInvalidRequest,
			Description: "Invalid credentials provided. Please provide grant_type, client_id and client_secret",
		}
	}

	if req.GrantType != GrantTypeClientCredentials {
		return nil, &Error{
			Code:        ErrCodeUnsupportedGrantType,
			Description: "Invalid grant type. Please use client_credentials as grant_type",
		}
	}

	app, err := s.apps.GetByClientID(ctx, req.ClientID)
	if err != nil {
		if errors.Is(err, application.ErrApplicationNotFound) {
			return nil, invalidClient("Invalid client. The client has been deleted, disabled or banned")
		}
		return nil, fmt.Errorf("looking up client: %w", err)
	}
	if app.Status != application.StatusActive {
		return nil, invalidClient("Invalid client. The client has been deleted, disabled or banned")
	}

	if subtle.ConstantTimeCompare([]byte(app.ClientSecret), []byte(req.ClientSecret)) != 1 {
		return nil, invalidClient("Failed to match the client secret")
	}

	raw, err := s.codec.IssueApplicationToken(app.ClientID, app.Name, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issuing access token: %w", err)
	}

	return &TokenResponse{
		TokenType:   TokenTypeBearer,
		ExpiresIn:   int64(s.tokenTTL / time.Second),
		AccessToken: raw,
	}, nil
}

func invalidClient(description string) *Error {
	return &Error{Code: ErrCodeInvalidClient, Description: description}
}
