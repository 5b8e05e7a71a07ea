package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/auth"
	"github.com/portcullis-auth/portcullis/internal/token"
	"github.com/portcullis-auth/portcullis/internal/user"
)

type fixture struct {
	service *auth.Service
	users   *user.MemoryRepository
	apps    *application.MemoryRepository
	codec   *token.Codec
	keys    token.KeyPair
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	keys, err := token.GenerateKeyPair(2048)
	require.NoError(t, err)

	users := user.NewMemoryRepository()
	apps := application.NewMemoryRepository()
	codec := token.NewCodec(keys, "portcullis-test")

	// bcrypt cost 4 keeps the suite fast; production cost comes from config.
	service := auth.NewService(users, apps, codec, time.Hour, 4)

	return &fixture{service: service, users: users, apps: apps, codec: codec, keys: keys}
}

func TestSignUp(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, raw, err := f.service.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	assert.Equal(t, user.RoleSuperAdmin, u.Role)
	assert.Equal(t, user.StatusActive, u.Status)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	identity, err := f.service.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.True(t, identity.IsUser())
	assert.Equal(t, u.ID, identity.User.ID)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, _, err := f.service.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	_, _, err = f.service.SignUp(ctx, "Imposter", "ada@example.com", "battery staple")
	assert.ErrorIs(t, err, user.ErrDuplicateEmail)
}

func TestSignIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, _, err := f.service.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	u, raw, err := f.service.SignIn(ctx, "ada@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)
	require.NotEmpty(t, raw)

	_, _, err = f.service.SignIn(ctx, "ada@example.com", "wrong password")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, _, err = f.service.SignIn(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Authenticate(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestAuthenticate_UserStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, raw, err := f.service.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	for _, status := range []user.Status{user.StatusInactive, user.StatusBanned} {
		require.NoError(t, f.users.UpdateStatus(ctx, u.ID, status))

		_, err := f.service.Authenticate(ctx, raw)
		assert.ErrorIs(t, err, auth.ErrUnauthenticated, "status %s", status)
	}

	require.NoError(t, f.users.UpdateStatus(ctx, u.ID, user.StatusActive))
	_, err = f.service.Authenticate(ctx, raw)
	assert.NoError(t, err)
}

func TestAuthenticate_DeletedUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, raw, err := f.service.SignUp(ctx, "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, u.ID))

	_, err = f.service.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestAuthenticate_Application(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a := &application.Application{
		Name:         "Billing Service",
		ClientID:     "client-abc",
		ClientSecret: "secret",
		Status:       application.StatusActive,
	}
	require.NoError(t, f.apps.Create(ctx, a))

	raw, err := f.codec.IssueApplicationToken(a.ClientID, a.Name, time.Hour)
	require.NoError(t, err)

	identity, err := f.service.Authenticate(ctx, raw)
	require.NoError(t, err)
	require.True(t, identity.IsApplication())
	assert.Equal(t, a.ClientID, identity.Application.ClientID)

	require.NoError(t, f.apps.UpdateStatus(ctx, a.ID, application.StatusBanned))
	_, err = f.service.Authenticate(ctx, raw)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestAuthenticate_NoIdentityClaim(t *testing.T) {
	f := newFixture(t)

	// Properly signed but carries neither userId nor clientId.
	anonymous := jwt.NewWithClaims(jwt.SigningMethodRS256, token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "anonymous",
			Issuer:    "portcullis-test",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := anonymous.SignedString(f.keys.Private)
	require.NoError(t, err)

	_, err = f.service.Authenticate(context.Background(), raw)
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}
