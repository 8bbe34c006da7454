package rest

import (
	"encoding/json"
	"net/http"

	"github.com/simaogato/minibank-backend/internal/domain"
)

// APIResponse is the envelope every endpoint answers with
type APIResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes a success envelope
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status: "success",
		Data:   data,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// Error writes an error envelope
func Error(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := APIResponse{
		Status:  "error",
		Message: msg,
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// statusFor maps an error kind to its HTTP status
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindAccountNotFound, domain.KindEntryNotFound:
		return http.StatusNotFound
	case domain.KindInvalidAmount, domain.KindInvalidTransfer:
		return http.StatusBadRequest
	case domain.KindInsufficientBalance:
		return http.StatusConflict
	case domain.KindUnauthorized:
		return http.StatusForbidden
	case domain.KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes the envelope for a use case error
// Internal errors are not echoed back to the client.
func DomainError(w http.ResponseWriter, err error) {
	status := statusFor(domain.KindOf(err))
	msg := err.Error()
	switch status {
	case http.StatusInternalServerError:
		msg = "internal server error"
	case http.StatusServiceUnavailable:
		msg = "service temporarily unavailable"
	}
	Error(w, status, msg)
}
