package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createLedgerEntry = `-- name: CreateLedgerEntry :one
INSERT INTO ledger_entries (id, transfer_id, account_id, amount, type, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, transfer_id, account_id, amount, type, created_at
`

type CreateLedgerEntryParams struct {
	ID         string             `json:"id"`
	TransferID string             `json:"transfer_id"`
	AccountID  string             `json:"account_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	Type       string             `json:"type"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) (LedgerEntry, error) {
	row := q.db.QueryRow(ctx, createLedgerEntry,
		arg.ID,
		arg.TransferID,
		arg.AccountID,
		arg.Amount,
		arg.Type,
		arg.CreatedAt,
	)
	var i LedgerEntry
	err := row.Scan(
		&i.ID,
		&i.TransferID,
		&i.AccountID,
		&i.Amount,
		&i.Type,
		&i.CreatedAt,
	)
	return i, err
}

const getLedgerEntriesByTransfer = `-- name: GetLedgerEntriesByTransfer :many
SELECT id, transfer_id, account_id, amount, type, created_at FROM ledger_entries
WHERE transfer_id = $1
ORDER BY type
`

func (q *Queries) GetLedgerEntriesByTransfer(ctx context.Context, transferID string) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, getLedgerEntriesByTransfer, transferID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerEntry{}
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.TransferID,
			&i.AccountID,
			&i.Amount,
			&i.Type,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getLedgerEntriesByAccount = `-- name: GetLedgerEntriesByAccount :many
SELECT id, transfer_id, account_id, amount, type, created_at FROM ledger_entries
WHERE account_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3
`

type GetLedgerEntriesByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) GetLedgerEntriesByAccount(ctx context.Context, arg GetLedgerEntriesByAccountParams) ([]LedgerEntry, error) {
	rows, err := q.db.Query(ctx, getLedgerEntriesByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LedgerEntry{}
	for rows.Next() {
		var i LedgerEntry
		if err := rows.Scan(
			&i.ID,
			&i.TransferID,
			&i.AccountID,
			&i.Amount,
			&i.Type,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
