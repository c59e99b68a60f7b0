package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType distinguishes the two legs of a double-entry transfer.
type EntryType string

const (
	EntryTypeDebit  EntryType = "DEBIT"
	EntryTypeCredit EntryType = "CREDIT"
)

// Entry is one leg of an applied transfer. At most one DEBIT and one
// CREDIT entry exist per transfer ID; amount is immutable once written.
type Entry struct {
	CreatedAt  time.Time
	ID         string
	TransferID string
	AccountID  string
	Type       EntryType
	Amount     decimal.Decimal
}

// NewDebitEntry creates the debit leg of a transfer.
func NewDebitEntry(id, transferID, accountID string, amount decimal.Decimal, now time.Time) *Entry {
	return newEntry(id, transferID, accountID, amount, EntryTypeDebit, now)
}

// NewCreditEntry creates the credit leg of a transfer.
func NewCreditEntry(id, transferID, accountID string, amount decimal.Decimal, now time.Time) *Entry {
	return newEntry(id, transferID, accountID, amount, EntryTypeCredit, now)
}

func newEntry(id, transferID, accountID string, amount decimal.Decimal, t EntryType, now time.Time) *Entry {
	return &Entry{
		ID:         id,
		TransferID: transferID,
		AccountID:  accountID,
		Amount:     amount,
		Type:       t,
		CreatedAt:  now,
	}
}

// IsDebit reports whether the entry is the debit leg.
func (e *Entry) IsDebit() bool {
	return e.Type == EntryTypeDebit
}

// IsCredit reports whether the entry is the credit leg.
func (e *Entry) IsCredit() bool {
	return e.Type == EntryTypeCredit
}
