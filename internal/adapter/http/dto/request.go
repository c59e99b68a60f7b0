package dto

import (
	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// InitiateTransferRequest represents a request to initiate a transfer.
type InitiateTransferRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *InitiateTransferRequest) ToUseCaseInput() usecase.InitiateTransferInput {
	return usecase.InitiateTransferInput{
		FromAccountID: r.FromAccountID,
		ToAccountID:   r.ToAccountID,
		Amount:        r.Amount,
	}
}

// BatchTransferRequest represents a request to initiate multiple transfers.
type BatchTransferRequest struct {
	Transfers []InitiateTransferRequest `json:"transfers"`
}

// ToUseCaseInput converts to use case input.
func (r *BatchTransferRequest) ToUseCaseInput() []usecase.InitiateTransferInput {
	inputs := make([]usecase.InitiateTransferInput, len(r.Transfers))
	for i, t := range r.Transfers {
		inputs[i] = t.ToUseCaseInput()
	}

	return inputs
}
