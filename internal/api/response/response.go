// Package response writes the JSON envelopes shared by every endpoint:
// {"status":"success","data":...} on success, {"status":"fail","errors":...}
// on failure, and the bare {"status":"fail"} used for authentication
// rejections and unmatched routes.
package response

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

// Envelope is the standard response wrapper.
type Envelope struct {
	Status string            `json:"status"`
	Data   any               `json:"data,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

// JSON writes an arbitrary value with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Success writes a successful envelope carrying data.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, Envelope{Status: statusSuccess, Data: data})
}

// SuccessEmpty writes a successful envelope with no data, used by mutations.
func SuccessEmpty(w http.ResponseWriter, status int) {
	JSON(w, status, Envelope{Status: statusSuccess})
}

// Fail writes a failure envelope with field-level errors.
func Fail(w http.ResponseWriter, status int, errors map[string]string) {
	JSON(w, status, Envelope{Status: statusFail, Errors: errors})
}

// FailEmpty writes the minimal failure envelope. Authentication rejections
// always use this body regardless of which check failed.
func FailEmpty(w http.ResponseWriter, status int) {
	JSON(w, status, Envelope{Status: statusFail})
}
