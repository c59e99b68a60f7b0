package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID            string             `json:"id"`
	AccountNumber string             `json:"account_number"`
	Balance       pgtype.Numeric     `json:"balance"`
	Version       int64              `json:"version"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type LedgerEntry struct {
	ID         string             `json:"id"`
	TransferID string             `json:"transfer_id"`
	AccountID  string             `json:"account_id"`
	Amount     pgtype.Numeric     `json:"amount"`
	Type       string             `json:"type"`
	CreatedAt  pgtype.Timestamptz `json:"created_at"`
}

type Transfer struct {
	ID            string             `json:"id"`
	FromAccountID string             `json:"from_account_id"`
	ToAccountID   string             `json:"to_account_id"`
	Amount        pgtype.Numeric     `json:"amount"`
	Status        string             `json:"status"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

type OutboxEvent struct {
	ID               string             `json:"id"`
	TransferID       string             `json:"transfer_id"`
	Payload          []byte             `json:"payload"`
	Status           string             `json:"status"`
	NumberOfAttempts int32              `json:"number_of_attempts"`
	NextAttemptAt    pgtype.Timestamptz `json:"next_attempt_at"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
}
