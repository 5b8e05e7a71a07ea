// Package handler implements the HTTP endpoints. Handlers decode and validate
// input, delegate to the services and repositories, and write the shared
// response envelope. Internal errors are logged and never surfaced in bodies.
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/portcullis-auth/portcullis/internal/api/response"
)

// decodeJSON decodes the request body into v. On failure it writes a 400 and
// reports false; the caller must return immediately.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		response.Fail(w, http.StatusBadRequest, map[string]string{
			"body": "Please provide a valid JSON body.",
		})
		return false
	}
	return true
}

// pathID parses the named chi URL parameter as an int64 id. On failure it
// writes a 400 and reports false.
func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(w, http.StatusBadRequest, map[string]string{
			param: "must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// queryInt parses an optional integer query parameter, returning 0 when the
// parameter is absent or malformed. The pagination helpers clamp zeros to
// their defaults.
func queryInt(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return n
}
