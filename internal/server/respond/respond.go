// Package respond writes JSON response bodies.
package respond

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status. Encoding errors are dropped; the header is already sent.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}, the body shape of the deploy namespace.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Error writes {"error": msg}, the body shape of the admin namespace.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}
