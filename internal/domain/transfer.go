package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer request.
type TransferStatus string

const (
	TransferStatusProcessing TransferStatus = "PROCESSING"
	TransferStatusCompleted  TransferStatus = "COMPLETED"
	TransferStatusFailed     TransferStatus = "FAILED"
)

// Transfer is a money-movement request. It is created PROCESSING and
// transitions exactly once to COMPLETED or FAILED when the outbox
// dispatcher reconciles the ledger outcome.
type Transfer struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	FromAccountID string
	ToAccountID   string
	Status        TransferStatus
	Amount        decimal.Decimal
}

// NewTransfer creates a transfer in the PROCESSING state.
func NewTransfer(id, fromAccountID, toAccountID string, amount decimal.Decimal, now time.Time) *Transfer {
	return &Transfer{
		ID:            id,
		FromAccountID: fromAccountID,
		ToAccountID:   toAccountID,
		Amount:        amount,
		Status:        TransferStatusProcessing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the transfer request.
func (t *Transfer) Validate() error {
	if t.FromAccountID == "" || t.ToAccountID == "" {
		return ErrInvalidRequest
	}

	return ValidateAmount(t.Amount)
}

// Terminal reports whether the transfer has reached a final state.
func (t *Transfer) Terminal() bool {
	return t.Status == TransferStatusCompleted || t.Status == TransferStatusFailed
}
