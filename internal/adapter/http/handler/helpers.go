package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/payrail/payrail/internal/adapter/http/dto"
	"github.com/payrail/payrail/internal/domain"
)

// Error codes returned in the structured error body.
const (
	codeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	codeTransferNotFound    = "TRANSFER_NOT_FOUND"
	codeInsufficientBalance = "INSUFFICIENT_BALANCE"
	codeInvalidAmount       = "INVALID_AMOUNT"
	codeInvalidRequest      = "INVALID_REQUEST"
	codeInvalidBatchSize    = "INVALID_BATCH_SIZE"
	codeMissingHeader       = "MISSING_HEADER"
	codeTransferConflict    = "TRANSFER_CONFLICT"
	codeServiceError        = "SERVICE_ERROR"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeDomainError maps a domain error to its HTTP status and code.
func writeDomainError(w http.ResponseWriter, err error) {
	status, code := mapDomainError(err)
	writeError(w, status, code, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes and error codes.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, codeAccountNotFound
	case errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound, codeTransferNotFound
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, codeInsufficientBalance
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest, codeInvalidAmount
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, codeInvalidRequest
	case errors.Is(err, domain.ErrInvalidBatchSize):
		return http.StatusBadRequest, codeInvalidBatchSize
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict, codeTransferConflict
	default:
		return http.StatusInternalServerError, codeServiceError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
