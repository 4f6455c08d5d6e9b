package httpx

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Error string `json:"error"`
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, APIError{Error: msg})
}

// WriteOK ends a request whose operation returns nothing.
func WriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
}
