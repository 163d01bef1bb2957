package server

import (
	"encoding/json"
	"net/http"

	"github.com/joshp123/gridgate/internal/fault"
)

// WriteJSON writes v as a JSON response body.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a classified error into the dashboard error shape.
// The body carries only the classification; detail stays in the server log.
func WriteError(w http.ResponseWriter, err error) {
	message := "internal error"
	if kind := fault.KindOf(err); kind != "" {
		message = string(kind)
	}
	WriteJSON(w, fault.HTTPStatus(err), map[string]string{"error": message})
}
