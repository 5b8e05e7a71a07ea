// Package token issues and verifies the signed bearer tokens that carry a
// subject identity claim. Tokens are stateless and self-verifying; there is
// no revocation list, so invalidation happens only through expiry or by
// rotating the signing key pair.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that fails verification:
// malformed, expired, bad signature or wrong signing algorithm. Callers must
// treat it as "unauthenticated" without learning which check failed.
var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload embedded in every access token. Exactly one of
// UserID and ClientID is set.
type Claims struct {
	UserID   *int64 `json:"userId,omitempty"`
	ClientID string `json:"clientId,omitempty"`
	jwt.RegisteredClaims
}

// Codec signs and verifies access tokens with a fixed RS256 key pair. The
// key pair is constructed explicitly at process start and never reloaded.
type Codec struct {
	keys   KeyPair
	issuer string
}

// NewCodec creates a Codec bound to the given key pair and issuer.
func NewCodec(keys KeyPair, issuer string) *Codec {
	return &Codec{keys: keys, issuer: issuer}
}

// IssueUserToken signs a token whose identity claim is the user id.
func (c *Codec) IssueUserToken(userID int64, subject string, ttl time.Duration) (string, error) {
	return c.issue(Claims{UserID: &userID}, subject, ttl)
}

// IssueApplicationToken signs a token whose identity claim is the client id.
func (c *Codec) IssueApplicationToken(clientID, subject string, ttl time.Duration) (string, error) {
	return c.issue(Claims{ClientID: clientID}, subject, ttl)
}

func (c *Codec) issue(claims Claims, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := tok.SignedString(c.keys.Private)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the signature and expiry of a token using the public key
// only. Tokens signed with anything other than RS256 are rejected outright.
func (c *Codec) Verify(raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.keys.Public, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
