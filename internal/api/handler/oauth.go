package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/portcullis-auth/portcullis/internal/api/response"
	"github.com/portcullis-auth/portcullis/internal/oauth"
)

// OAuthHandler serves the token endpoint. Unlike the rest of the API it
// speaks the OAuth2 wire shapes, not the status envelope.
type OAuthHandler struct {
	oauth *oauth.Service
}

// NewOAuthHandler creates an OAuthHandler.
func NewOAuthHandler(oauthService *oauth.Service) *OAuthHandler {
	return &OAuthHandler{oauth: oauthService}
}

// AccessToken handles POST /oauth/access_token.
func (h *OAuthHandler) AccessToken(w http.ResponseWriter, r *http.Request) {
	var req oauth.TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.JSON(w, http.StatusBadRequest, &oauth.Error{
			Code:        oauth.ErrCodeInvalidRequest,
			Description: "Invalid credentials provided. Please provide grant_type, client_id and client_secret",
		})
		return
	}

	res, err := h.oauth.Exchange(r.Context(), req)
	if err != nil {
		var oauthErr *oauth.Error
		if errors.As(err, &oauthErr) {
			response.JSON(w, http.StatusBadRequest, oauthErr)
			return
		}
		slog.Error("token exchange failed", "error", err)
		response.JSON(w, http.StatusBadRequest, &oauth.Error{
			Code:        oauth.ErrCodeServerError,
			Description: "Something went wrong.",
		})
		return
	}

	// Token responses must not be cached by intermediaries.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
	response.JSON(w, http.StatusOK, res)
}
