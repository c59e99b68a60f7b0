package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerApplyRequest is the wire payload asking the ledger to apply a
// transfer. It is both the outbox event payload and the body of the
// remote apply call.
type LedgerApplyRequest struct {
	TransferID    string          `json:"transfer_id"`
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// LedgerEntryLeg is one leg of an applied transfer on the wire.
type LedgerEntryLeg struct {
	AccountID string          `json:"account_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      EntryType       `json:"type"`
}

// LedgerApplyResult is the ledger's response to an apply request.
type LedgerApplyResult struct {
	CreatedAt   time.Time      `json:"created_at"`
	TransferID  string         `json:"transfer_id"`
	DebitEntry  LedgerEntryLeg `json:"debit_entry"`
	CreditEntry LedgerEntryLeg `json:"credit_entry"`
}
