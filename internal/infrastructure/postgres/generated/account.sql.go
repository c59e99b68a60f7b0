package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createAccount = `-- name: CreateAccount :one
INSERT INTO accounts (id, account_number, balance, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, account_number, balance, version, created_at, updated_at
`

type CreateAccountParams struct {
	ID            string             `json:"id"`
	AccountNumber string             `json:"account_number"`
	Balance       pgtype.Numeric     `json:"balance"`
	Version       int64              `json:"version"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateAccount(ctx context.Context, arg CreateAccountParams) (Account, error) {
	row := q.db.QueryRow(ctx, createAccount,
		arg.ID,
		arg.AccountNumber,
		arg.Balance,
		arg.Version,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountNumber,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, account_number, balance, version, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.AccountNumber,
		&i.Balance,
		&i.Version,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateAccountBalanceVersioned = `-- name: UpdateAccountBalanceVersioned :execrows
UPDATE accounts
SET balance = $2, version = version + 1, updated_at = $3
WHERE id = $1 AND version = $4
`

type UpdateAccountBalanceVersionedParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
	Version   int64              `json:"version"`
}

func (q *Queries) UpdateAccountBalanceVersioned(ctx context.Context, arg UpdateAccountBalanceVersionedParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateAccountBalanceVersioned,
		arg.ID,
		arg.Balance,
		arg.UpdatedAt,
		arg.Version,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
