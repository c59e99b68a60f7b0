package domain_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
)

func TestNewAccount(t *testing.T) {
	now := time.Now()

	acc, err := domain.NewAccount("acc-1", decimal.NewFromInt(100), now)
	if err != nil {
		t.Fatalf("NewAccount failed: %v", err)
	}

	if acc.ID != "acc-1" {
		t.Errorf("expected id acc-1, got %s", acc.ID)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected balance 100, got %s", acc.Balance)
	}
	if acc.Version != 0 {
		t.Errorf("expected version 0, got %d", acc.Version)
	}
	if !strings.HasPrefix(acc.AccountNumber, "ACC") {
		t.Errorf("expected ACC-prefixed account number, got %s", acc.AccountNumber)
	}
}

func TestNewAccountRejectsNegativeBalance(t *testing.T) {
	_, err := domain.NewAccount("acc-1", decimal.NewFromInt(-1), time.Now())
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestAccountDebit(t *testing.T) {
	tests := []struct {
		name        string
		balance     int64
		amount      int64
		expectedErr error
		remaining   int64
	}{
		{
			name:      "debits available balance",
			balance:   100,
			amount:    30,
			remaining: 70,
		},
		{
			name:      "debits entire balance",
			balance:   100,
			amount:    100,
			remaining: 0,
		},
		{
			name:        "rejects overdraft",
			balance:     50,
			amount:      51,
			expectedErr: domain.ErrInsufficientBalance,
			remaining:   50,
		},
		{
			name:        "rejects zero amount",
			balance:     50,
			amount:      0,
			expectedErr: domain.ErrInvalidAmount,
			remaining:   50,
		},
		{
			name:        "rejects negative amount",
			balance:     50,
			amount:      -10,
			expectedErr: domain.ErrInvalidAmount,
			remaining:   50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := &domain.Account{Balance: decimal.NewFromInt(tt.balance)}

			err := acc.Debit(decimal.NewFromInt(tt.amount))
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
			if !acc.Balance.Equal(decimal.NewFromInt(tt.remaining)) {
				t.Errorf("expected balance %d, got %s", tt.remaining, acc.Balance)
			}
		})
	}
}

func TestAccountCredit(t *testing.T) {
	acc := &domain.Account{Balance: decimal.NewFromInt(10)}

	if err := acc.Credit(decimal.NewFromInt(15)); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if !acc.Balance.Equal(decimal.NewFromInt(25)) {
		t.Errorf("expected balance 25, got %s", acc.Balance)
	}

	if err := acc.Credit(decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero credit, got %v", err)
	}
}

func TestValidateAmount(t *testing.T) {
	if err := domain.ValidateAmount(decimal.NewFromFloat(0.01)); err != nil {
		t.Errorf("expected 0.01 to be valid, got %v", err)
	}
	if err := domain.ValidateAmount(decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected zero to be invalid, got %v", err)
	}
	if err := domain.ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Errorf("expected negative to be invalid, got %v", err)
	}
}
