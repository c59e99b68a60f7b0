package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

// Account holds a balance and an optimistic concurrency version.
// The version is the compare-and-swap token: every balance mutation
// carries the version it read and increments it on success.
type Account struct {
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ID            string
	AccountNumber string
	Balance       decimal.Decimal
	Version       int64
}

// NewAccount creates an account with the given opening balance.
func NewAccount(id string, balance decimal.Decimal, now time.Time) (*Account, error) {
	if balance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	return &Account{
		ID:            id,
		AccountNumber: NewAccountNumber(),
		Balance:       balance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Debit subtracts amount from the balance. Balance never goes negative.
func (a *Account) Debit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	if a.Balance.LessThan(amount) {
		return ErrInsufficientBalance
	}

	a.Balance = a.Balance.Sub(amount)

	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}

	a.Balance = a.Balance.Add(amount)

	return nil
}

// ValidateAmount rejects zero and negative monetary amounts.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// NewAccountNumber generates a unique human-readable account number.
func NewAccountNumber() string {
	return fmt.Sprintf("ACC%013d%04d", time.Now().UnixMilli(), rand.Intn(10000))
}
