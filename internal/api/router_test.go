package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portcullis-auth/portcullis/internal/api"
	"github.com/portcullis-auth/portcullis/internal/api/handler"
	"github.com/portcullis-auth/portcullis/internal/api/middleware"
	"github.com/portcullis-auth/portcullis/internal/application"
	"github.com/portcullis-auth/portcullis/internal/auth"
	"github.com/portcullis-auth/portcullis/internal/oauth"
	"github.com/portcullis-auth/portcullis/internal/token"
	"github.com/portcullis-auth/portcullis/internal/user"
)

type env struct {
	router http.Handler
	users  *user.MemoryRepository
	apps   *application.MemoryRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()

	keys, err := token.GenerateKeyPair(2048)
	require.NoError(t, err)

	users := user.NewMemoryRepository()
	apps := application.NewMemoryRepository()
	codec := token.NewCodec(keys, "portcullis-test")
	authService := auth.NewService(users, apps, codec, time.Hour, 4)
	oauthService := oauth.NewService(apps, codec, time.Hour)

	router := api.NewRouter(api.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(users, authService),
		Application: handler.NewApplicationHandler(apps),
		OAuth:       handler.NewOAuthHandler(oauthService),
		Health:      handler.NewHealthHandler("test", func(context.Context) error { return nil }),
	}, authService, middleware.NewRateLimiter(10000))

	return &env{router: router, users: users, apps: apps}
}

func (e *env) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (e *env) signUp(t *testing.T) (map[string]any, string) {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/v1/auth/sign-up", "", map[string]string{
		"name":         "Ada",
		"emailAddress": "ada@example.com",
		"password":     "correct horse",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	data := body["data"].(map[string]any)
	return data["user"].(map[string]any), data["accessToken"].(string)
}

func TestSignUpAndSignIn(t *testing.T) {
	e := newEnv(t)

	u, tok := e.signUp(t)
	require.NotEmpty(t, tok)
	assert.Equal(t, "Ada", u["name"])
	assert.Equal(t, "SuperAdmin", u["role"])
	assert.Equal(t, "Active", u["status"])
	// The hash must never appear in any serialization.
	assert.NotContains(t, u, "passwordHash")
	assert.NotContains(t, u, "password")

	rec := e.do(t, http.MethodPost, "/v1/auth/sign-up", "", map[string]string{
		"name":         "Imposter",
		"emailAddress": "ada@example.com",
		"password":     "battery staple",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "fail", body["status"])
	errs := body["errors"].(map[string]any)
	assert.Equal(t, "This email address is not available. Please enter a different email address.", errs["emailAddress"])

	rec = e.do(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"emailAddress": "ada@example.com",
		"password":     "correct horse",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"emailAddress": "ada@example.com",
		"password":     "wrong password",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	errs = body["errors"].(map[string]any)
	assert.Equal(t, "Sorry, we could not find this account.", errs["emailAddress"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/v1/users", "/v1/applications"} {
		rec := e.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"status":"fail"}`, rec.Body.String(), path)
	}
}

func TestUserCRUD(t *testing.T) {
	e := newEnv(t)
	_, tok := e.signUp(t)

	rec := e.do(t, http.MethodPost, "/v1/users", tok, map[string]string{
		"name":         "Grace",
		"emailAddress": "grace@example.com",
		"password":     "battery staple",
		"role":         "StaffAdmin",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)["data"].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, float64(2), created["id"])
	assert.Equal(t, "StaffAdmin", created["role"])

	rec = e.do(t, http.MethodGet, "/v1/users/2", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/users?role=StaffAdmin&orderBy=asc", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decodeBody(t, rec)["data"].(map[string]any)["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "grace@example.com", users[0].(map[string]any)["emailAddress"])

	rec = e.do(t, http.MethodGet, "/v1/users?role=Root", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPut, "/v1/users/2", tok, map[string]string{
		"name":         "Grace Hopper",
		"emailAddress": "grace@example.com",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPut, "/v1/users/2/password", tok, map[string]string{
		"newPassword": "new battery staple",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Old password stops working, new one signs in.
	rec = e.do(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"emailAddress": "grace@example.com",
		"password":     "battery staple",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = e.do(t, http.MethodPost, "/v1/auth/sign-in", "", map[string]string{
		"emailAddress": "grace@example.com",
		"password":     "new battery staple",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = e.do(t, http.MethodPut, "/v1/users/2/role", tok, map[string]string{"role": "ManagerAdmin"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPut, "/v1/users/2/status", tok, map[string]string{"status": "Banned"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodDelete, "/v1/users/2", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/users/2", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"fail"}`, rec.Body.String())
}

func TestApplicationCRUD(t *testing.T) {
	e := newEnv(t)
	_, tok := e.signUp(t)

	rec := e.do(t, http.MethodPost, "/v1/applications", tok, map[string]string{
		"name":        "Billing Service",
		"homepage":    "https://billing.example.com",
		"description": "Internal billing",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)["data"].(map[string]any)["application"].(map[string]any)

	clientID := created["clientId"].(string)
	clientSecret := created["clientSecret"].(string)
	require.NotEmpty(t, clientID)
	require.NotEmpty(t, clientSecret)

	// Reads never disclose the secret again.
	rec = e.do(t, http.MethodGet, "/v1/applications/1", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	fetched := decodeBody(t, rec)["data"].(map[string]any)["application"].(map[string]any)
	assert.NotContains(t, fetched, "clientSecret")
	assert.Equal(t, clientID, fetched["clientId"])

	rec = e.do(t, http.MethodGet, "/v1/applications", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	apps := decodeBody(t, rec)["data"].(map[string]any)["applications"].([]any)
	require.Len(t, apps, 1)
	assert.NotContains(t, apps[0].(map[string]any), "clientSecret")

	rec = e.do(t, http.MethodPut, "/v1/applications/1", tok, map[string]string{
		"name": "Billing Service v2",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPut, "/v1/applications/1/credentials", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	creds := decodeBody(t, rec)["data"].(map[string]any)["credentials"].(map[string]any)
	assert.NotEqual(t, clientID, creds["clientId"])
	assert.NotEqual(t, clientSecret, creds["clientSecret"])

	rec = e.do(t, http.MethodPut, "/v1/applications/1/status", tok, map[string]string{"status": "Inactive"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodDelete, "/v1/applications/1", tok, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/v1/applications/1", tok, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAccessTokenEndpoint(t *testing.T) {
	e := newEnv(t)
	_, tok := e.signUp(t)

	rec := e.do(t, http.MethodPost, "/v1/applications", tok, map[string]string{
		"name": "Billing Service",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody(t, rec)["data"].(map[string]any)["application"].(map[string]any)

	rec = e.do(t, http.MethodPost, "/oauth/access_token", "", map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     created["clientId"].(string),
		"client_secret": created["clientSecret"].(string),
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))

	body := decodeBody(t, rec)
	assert.Equal(t, "Bearer", body["token_type"])
	assert.NotEmpty(t, body["access_token"])

	// The freshly minted application token passes the gate.
	rec = e.do(t, http.MethodGet, "/v1/users", body["access_token"].(string), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/oauth/access_token", "", map[string]string{
		"grant_type":    "authorization_code",
		"client_id":     created["clientId"].(string),
		"client_secret": created["clientSecret"].(string),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "unsupported_grant_type", body["error"])

	rec = e.do(t, http.MethodPost, "/oauth/access_token", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body = decodeBody(t, rec)
	assert.Equal(t, "invalid_request", body["error"])
}

func TestUnmatchedRoute(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":"fail"}`, rec.Body.String())
}

func TestHealthEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := e.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "test", body["data"].(map[string]any)["version"])

	rec = e.do(t, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
