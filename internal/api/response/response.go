// Package response renders the API's JSON responses. Every handler goes
// through these helpers so success and error payloads keep one shape.
package response

import (
	"encoding/json"
	"log"
	"net/http"
)

// ErrorResponse is the wire shape of every error the API returns. Details
// carries optional extra context, such as a per-field validation map.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON writes data as JSON with the given status code. A nil data
// writes only the status, which suits 204 No Content. Encoding failures are
// logged rather than surfaced: the status line is already on the wire.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("failed to encode JSON response: %v", err)
		}
	}
}

// RespondError writes a structured error with the given status code. The
// message is the user-facing description; details may be an error string,
// a field map, or nil.
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	RespondJSON(w, status, ErrorResponse{
		Error:   message,
		Details: details,
	})
}
