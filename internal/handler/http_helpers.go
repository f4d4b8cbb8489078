package handler

import (
	"encoding/json"
	"net/http"

	apperrors "batch-scanner/pkg/errors"
)

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// writeAppError maps a service error onto an HTTP status and body.
func writeAppError(w http.ResponseWriter, err error) {
	status := apperrors.GetStatusCode(err)
	message := "internal server error"
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
		if appErr.Details != "" {
			message += ": " + appErr.Details
		}
	}
	writeError(w, status, message)
}
