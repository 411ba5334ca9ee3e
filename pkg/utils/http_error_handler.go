package utils

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

func WriteError(w http.ResponseWriter, message string, statusCode int) {
	writeErrorResponse(w, statusCode, errorResponse{
		Status:  "error",
		Message: message,
	})
}

// WriteValidationError writes a 400 with per-field reasons.
func WriteValidationError(w http.ResponseWriter, details map[string]string) {
	writeErrorResponse(w, http.StatusBadRequest, errorResponse{
		Status:  "error",
		Message: "validation failed",
		Details: details,
	})
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, body errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}
