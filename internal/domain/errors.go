package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound     = errors.New("account not found")
	ErrInsufficientBalance = errors.New("insufficient account balance")

	// Validation errors
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrInvalidBatchSize = errors.New("invalid batch size")

	// Transfer errors
	ErrTransferNotFound = errors.New("transfer not found")

	// Concurrency errors
	ErrConcurrentModification = errors.New("account modified concurrently")

	// Remote ledger errors
	ErrLedgerUnavailable = errors.New("ledger service unavailable")
	ErrCircuitOpen       = errors.New("ledger circuit breaker open")
)

// LedgerError is a structured rejection from the ledger boundary,
// carrying the remote HTTP status and error code. It is distinct from
// transport-level failures, which map to ErrLedgerUnavailable.
type LedgerError struct {
	Errors  map[string]string
	Code    string
	Message string
	Status  int
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger rejected request: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

// Retriable reports whether a retry could change the outcome. Client
// errors (4xx) are terminal; server errors may be transient.
func (e *LedgerError) Retriable() bool {
	return e.Status >= 500
}
