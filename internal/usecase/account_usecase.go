package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
)

// AccountUseCase handles account opening and lookup.
type AccountUseCase struct {
	accountRepo AccountRepository
	idGen       IDGenerator
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, idGen IDGenerator) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		idGen:       idGen,
	}
}

// CreateAccount opens an account with the given initial balance.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, initialBalance decimal.Decimal) (*domain.Account, error) {
	account, err := domain.NewAccount(uc.idGen.Generate(), initialBalance, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}
