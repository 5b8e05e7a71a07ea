package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/portcullis-auth/portcullis/internal/api/response"
	"github.com/portcullis-auth/portcullis/internal/api/validation"
	"github.com/portcullis-auth/portcullis/internal/auth"
	"github.com/portcullis-auth/portcullis/internal/user"
)

const (
	msgEmailTaken      = "This email address is not available. Please enter a different email address."
	msgAccountNotFound = "Sorry, we could not find this account."
)

// AuthHandler serves the sign-up and sign-in endpoints.
type AuthHandler struct {
	auth *auth.Service
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{auth: authService}
}

type signUpBody struct {
	Name         string `json:"name"`
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type signInBody struct {
	EmailAddress string `json:"emailAddress"`
	Password     string `json:"password"`
}

type sessionData struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
}

// SignUp handles POST /v1/auth/sign-up.
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var body signUpBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateSignUp(validation.SignUpRequest{
		Name:         body.Name,
		EmailAddress: body.EmailAddress,
		Password:     body.Password,
	}); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	u, accessToken, err := h.auth.SignUp(r.Context(), body.Name, body.EmailAddress, body.Password)
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			response.Fail(w, http.StatusBadRequest, map[string]string{
				"emailAddress": msgEmailTaken,
			})
			return
		}
		slog.Error("sign-up failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	response.Success(w, http.StatusCreated, sessionData{
		User:        newUserResponse(u),
		AccessToken: accessToken,
	})
}

// SignIn handles POST /v1/auth/sign-in.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var body signInBody
	if !decodeJSON(w, r, &body) {
		return
	}

	if errs := validation.ValidateSignIn(validation.SignInRequest{
		EmailAddress: body.EmailAddress,
		Password:     body.Password,
	}); errs != nil {
		response.Fail(w, http.StatusBadRequest, errs)
		return
	}

	u, accessToken, err := h.auth.SignIn(r.Context(), body.EmailAddress, body.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// One message for unknown email and wrong password alike.
			response.Fail(w, http.StatusBadRequest, map[string]string{
				"emailAddress": msgAccountNotFound,
			})
			return
		}
		slog.Error("sign-in failed", "error", err)
		response.FailEmpty(w, http.StatusInternalServerError)
		return
	}

	response.Success(w, http.StatusCreated, sessionData{
		User:        newUserResponse(u),
		AccessToken: accessToken,
	})
}
