package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createOutboxEvent = `-- name: CreateOutboxEvent :one
INSERT INTO outbox_events (id, transfer_id, payload, status, number_of_attempts, next_attempt_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, transfer_id, payload, status, number_of_attempts, next_attempt_at, created_at, updated_at
`

type CreateOutboxEventParams struct {
	ID               string             `json:"id"`
	TransferID       string             `json:"transfer_id"`
	Payload          []byte             `json:"payload"`
	Status           string             `json:"status"`
	NumberOfAttempts int32              `json:"number_of_attempts"`
	NextAttemptAt    pgtype.Timestamptz `json:"next_attempt_at"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateOutboxEvent(ctx context.Context, arg CreateOutboxEventParams) (OutboxEvent, error) {
	row := q.db.QueryRow(ctx, createOutboxEvent,
		arg.ID,
		arg.TransferID,
		arg.Payload,
		arg.Status,
		arg.NumberOfAttempts,
		arg.NextAttemptAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var i OutboxEvent
	err := row.Scan(
		&i.ID,
		&i.TransferID,
		&i.Payload,
		&i.Status,
		&i.NumberOfAttempts,
		&i.NextAttemptAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const claimDueOutboxEvents = `-- name: ClaimDueOutboxEvents :many
UPDATE outbox_events
SET number_of_attempts = number_of_attempts + 1, next_attempt_at = $2, updated_at = $1
WHERE id IN (
    SELECT id FROM outbox_events
    WHERE status = 'PENDING' AND next_attempt_at <= $1
    ORDER BY created_at ASC
    LIMIT $3
    FOR UPDATE SKIP LOCKED
)
RETURNING id, transfer_id, payload, status, number_of_attempts, next_attempt_at, created_at, updated_at
`

type ClaimDueOutboxEventsParams struct {
	Now        pgtype.Timestamptz `json:"now"`
	LeaseUntil pgtype.Timestamptz `json:"lease_until"`
	Limit      int32              `json:"limit"`
}

func (q *Queries) ClaimDueOutboxEvents(ctx context.Context, arg ClaimDueOutboxEventsParams) ([]OutboxEvent, error) {
	rows, err := q.db.Query(ctx, claimDueOutboxEvents, arg.Now, arg.LeaseUntil, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []OutboxEvent{}
	for rows.Next() {
		var i OutboxEvent
		if err := rows.Scan(
			&i.ID,
			&i.TransferID,
			&i.Payload,
			&i.Status,
			&i.NumberOfAttempts,
			&i.NextAttemptAt,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const rescheduleOutboxEvent = `-- name: RescheduleOutboxEvent :exec
UPDATE outbox_events SET next_attempt_at = $2, updated_at = $3 WHERE id = $1 AND status = 'PENDING'
`

type RescheduleOutboxEventParams struct {
	ID            string             `json:"id"`
	NextAttemptAt pgtype.Timestamptz `json:"next_attempt_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) RescheduleOutboxEvent(ctx context.Context, arg RescheduleOutboxEventParams) error {
	_, err := q.db.Exec(ctx, rescheduleOutboxEvent, arg.ID, arg.NextAttemptAt, arg.UpdatedAt)
	return err
}

const updateOutboxEventStatus = `-- name: UpdateOutboxEventStatus :exec
UPDATE outbox_events SET status = $2, updated_at = $3 WHERE id = $1
`

type UpdateOutboxEventStatusParams struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateOutboxEventStatus(ctx context.Context, arg UpdateOutboxEventStatusParams) error {
	_, err := q.db.Exec(ctx, updateOutboxEventStatus, arg.ID, arg.Status, arg.UpdatedAt)
	return err
}

const getOutboxEventByTransferID = `-- name: GetOutboxEventByTransferID :one
SELECT id, transfer_id, payload, status, number_of_attempts, next_attempt_at, created_at, updated_at FROM outbox_events WHERE transfer_id = $1
`

func (q *Queries) GetOutboxEventByTransferID(ctx context.Context, transferID string) (OutboxEvent, error) {
	row := q.db.QueryRow(ctx, getOutboxEventByTransferID, transferID)
	var i OutboxEvent
	err := row.Scan(
		&i.ID,
		&i.TransferID,
		&i.Payload,
		&i.Status,
		&i.NumberOfAttempts,
		&i.NextAttemptAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
