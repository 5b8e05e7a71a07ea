package application

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// Credentials is a freshly generated client id/secret pair.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// NewCredentials generates an opaque client id and a 32-byte hex secret.
func NewCredentials() (Credentials, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return Credentials{}, fmt.Errorf("generating client secret: %w", err)
	}

	return Credentials{
		ClientID:     uuid.New().String(),
		ClientSecret: hex.EncodeToString(b),
	}, nil
}
