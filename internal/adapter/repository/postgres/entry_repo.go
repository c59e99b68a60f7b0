package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/infrastructure/postgres/generated"
	"github.com/payrail/payrail/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a new ledger entry within a transaction.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:         entry.ID,
		TransferID: entry.TransferID,
		AccountID:  entry.AccountID,
		Amount:     decimalToNumeric(entry.Amount),
		Type:       string(entry.Type),
		CreatedAt:  timeToPgTimestamptz(entry.CreatedAt),
	})

	return err
}

// GetByTransfer retrieves the entries recorded for a transfer.
func (r *EntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	rows, err := r.queries.GetLedgerEntriesByTransfer(ctx, transferID)
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// GetByAccount retrieves entries for an account with pagination.
func (r *EntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	rows, err := r.queries.GetLedgerEntriesByAccount(ctx, generated.GetLedgerEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

func rowToEntry(row generated.LedgerEntry) *domain.Entry {
	return &domain.Entry{
		ID:         row.ID,
		TransferID: row.TransferID,
		AccountID:  row.AccountID,
		Amount:     numericToDecimal(row.Amount),
		Type:       domain.EntryType(row.Type),
		CreatedAt:  row.CreatedAt.Time,
	}
}
