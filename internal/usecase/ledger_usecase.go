package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
)

// LedgerUseCase applies transfers to accounts as paired debit/credit
// entries. Application is idempotent on transfer ID and safe under
// concurrent writers via optimistic version checks with bounded retry.
type LedgerUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	entryRepo   EntryRepository
	idGen       IDGenerator
	retrier     Retrier
	logger      zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	entryRepo EntryRepository,
	idGen IDGenerator,
	retrier Retrier,
	logger zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		retrier:     retrier,
		logger:      logger,
	}
}

// ApplyTransferInput represents input for applying a transfer.
type ApplyTransferInput struct {
	TransferID    string
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// ApplyTransfer records a transfer as a debit and a credit entry and
// mutates both account balances in one atomic unit. A transfer ID that
// was already applied returns the originally recorded entries without
// touching any account. Version conflicts re-run the whole operation,
// including the idempotency check, until the retrier gives up.
func (uc *LedgerUseCase) ApplyTransfer(ctx context.Context, input ApplyTransferInput) (*domain.LedgerApplyResult, error) {
	var result *domain.LedgerApplyResult

	err := uc.retrier.Retry(ctx, func() error {
		var err error

		result, err = uc.applyOnce(ctx, input)

		return err
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *LedgerUseCase) applyOnce(ctx context.Context, input ApplyTransferInput) (*domain.LedgerApplyResult, error) {
	// Idempotency check first: an already-applied transfer wins over
	// whatever the retried request carries.
	existing, err := uc.entryRepo.GetByTransfer(ctx, input.TransferID)
	if err != nil {
		return nil, err
	}

	if len(existing) > 0 {
		return uc.replayExisting(input, existing)
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	fromAccount, err := uc.accountRepo.GetByID(ctx, input.FromAccountID)
	if err != nil {
		return nil, err
	}

	toAccount, err := uc.accountRepo.GetByID(ctx, input.ToAccountID)
	if err != nil {
		return nil, err
	}

	fromVersion := fromAccount.Version
	toVersion := toAccount.Version

	if err := fromAccount.Debit(input.Amount); err != nil {
		return nil, err
	}

	if err := toAccount.Credit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	debitEntry := domain.NewDebitEntry(uc.idGen.Generate(), input.TransferID, fromAccount.ID, input.Amount, now)
	creditEntry := domain.NewCreditEntry(uc.idGen.Generate(), input.TransferID, toAccount.ID, input.Amount, now)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.accountRepo.UpdateBalance(ctx, tx, fromAccount.ID, fromAccount.Balance, fromVersion, now); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, toAccount.ID, toAccount.Balance, toVersion, now); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, debitEntry); err != nil {
		return nil, err
	}

	if err := uc.entryRepo.Create(ctx, tx, creditEntry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("transfer_id", input.TransferID).
		Str("amount", input.Amount.String()).
		Msg("ledger entries recorded")

	return resultFromEntries(input.TransferID, debitEntry, creditEntry), nil
}

// replayExisting rebuilds the original result from recorded entries.
// A replay whose arguments diverge from the recorded legs is an
// anomaly worth surfacing in the logs, but the original entries win.
func (uc *LedgerUseCase) replayExisting(input ApplyTransferInput, entries []*domain.Entry) (*domain.LedgerApplyResult, error) {
	var debit, credit *domain.Entry

	for _, e := range entries {
		switch {
		case e.IsDebit():
			debit = e
		case e.IsCredit():
			credit = e
		}
	}

	if debit == nil || credit == nil {
		return nil, domain.ErrConcurrentModification
	}

	if !debit.Amount.Equal(input.Amount) || debit.AccountID != input.FromAccountID || credit.AccountID != input.ToAccountID {
		uc.logger.Warn().
			Str("transfer_id", input.TransferID).
			Str("recorded_amount", debit.Amount.String()).
			Str("requested_amount", input.Amount.String()).
			Msg("divergent replay of applied transfer, returning original entries")
	} else {
		uc.logger.Info().
			Str("transfer_id", input.TransferID).
			Msg("transfer already applied, returning existing entries")
	}

	return resultFromEntries(input.TransferID, debit, credit), nil
}

func resultFromEntries(transferID string, debit, credit *domain.Entry) *domain.LedgerApplyResult {
	return &domain.LedgerApplyResult{
		TransferID: transferID,
		DebitEntry: domain.LedgerEntryLeg{
			AccountID: debit.AccountID,
			Amount:    debit.Amount,
			Type:      debit.Type,
		},
		CreditEntry: domain.LedgerEntryLeg{
			AccountID: credit.AccountID,
			Amount:    credit.Amount,
			Type:      credit.Type,
		},
		CreatedAt: debit.CreatedAt,
	}
}

// GetTransferEntries retrieves the recorded entries for a transfer.
func (uc *LedgerUseCase) GetTransferEntries(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByTransfer(ctx, transferID)
}

// GetAccountEntries retrieves entries for an account with pagination.
func (uc *LedgerUseCase) GetAccountEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	return uc.entryRepo.GetByAccount(ctx, accountID, limit, offset)
}
