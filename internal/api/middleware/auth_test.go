package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portcullis-auth/portcullis/internal/api/middleware"
	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/auth"
	"github.com/portcullis-auth/portcullis/internal/token"
	"github.com/portcullis-auth/portcullis/internal/user"
)

const failBody = `{"status":"fail"}` + "\n"

func newGate(t *testing.T) (func(http.Handler) http.Handler, *auth.Service, *user.MemoryRepository) {
	t.Helper()

	keys, err := token.GenerateKeyPair(2048)
	require.NoError(t, err)

	users := user.NewMemoryRepository()
	apps := application.NewMemoryRepository()
	service := auth.NewService(users, apps, token.NewCodec(keys, "portcullis-test"), time.Hour, 4)

	return middleware.RequireAuth(service), service, users
}

func protectedHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NotNil(t, middleware.GetIdentity(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_Rejections(t *testing.T) {
	gate, service, users := newGate(t)
	handler := gate(protectedHandler(t))

	u, raw, err := service.SignUp(context.Background(), "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	// A structurally valid token whose subject was later deactivated.
	require.NoError(t, users.UpdateStatus(context.Background(), u.ID, user.StatusInactive))

	cases := map[string]string{
		"missing header":      "",
		"wrong scheme":        "Basic dXNlcjpwYXNz",
		"scheme only":         "Bearer",
		"extra fragment":      "Bearer " + raw + " trailing",
		"garbage token":       "Bearer not.a.token",
		"deactivated subject": "Bearer " + raw,
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		// Every rejection stage returns the identical body.
		assert.Equal(t, failBody, rec.Body.String(), name)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	gate, service, _ := newGate(t)
	handler := gate(protectedHandler(t))

	_, raw, err := service.SignUp(context.Background(), "Ada", "ada@example.com", "correct horse")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetIdentity_Absent(t *testing.T) {
	assert.Nil(t, middleware.GetIdentity(context.Background()))
}
