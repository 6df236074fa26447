package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"steamtrends/internal/apperrors"
	"steamtrends/internal/storage"
)

// GetContentType returns the content type served for filePath. HTML is
// always sent as UTF-8.
func GetContentType(filePath string) string {
	ct := storage.GetContentType(filePath)
	if ct == "text/html" {
		return "text/html; charset=utf-8"
	}
	return ct
}

// errorResponse is the JSON body of a failed API call
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: err.Error(),
		Code:    status,
	})
}

// statusFor maps known errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrUnknownChart), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
