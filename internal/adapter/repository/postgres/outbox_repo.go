package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/infrastructure/postgres/generated"
	"github.com/payrail/payrail/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create creates a new outbox event within a transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	_, err := queries.CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:               event.ID,
		TransferID:       event.TransferID,
		Payload:          event.Payload,
		Status:           string(event.Status),
		NumberOfAttempts: int32(event.NumberOfAttempts),
		NextAttemptAt:    timeToPgTimestamptz(event.NextAttemptAt),
		CreatedAt:        timeToPgTimestamptz(event.CreatedAt),
		UpdatedAt:        timeToPgTimestamptz(event.UpdatedAt),
	})

	return err
}

// ClaimDue claims due pending events for delivery. Claimed rows get
// their attempt counter bumped and next_attempt_at pushed past the
// lease, so a concurrent poller skips them.
func (r *OutboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.queries.ClaimDueOutboxEvents(ctx, generated.ClaimDueOutboxEventsParams{
		Now:        timeToPgTimestamptz(now),
		LeaseUntil: timeToPgTimestamptz(now.Add(lease)),
		Limit:      int32(limit),
	})
	if err != nil {
		return nil, err
	}

	events := make([]*domain.OutboxEvent, 0, len(rows))
	for _, row := range rows {
		events = append(events, rowToOutboxEvent(row))
	}

	return events, nil
}

// Reschedule moves a pending event's next attempt time.
func (r *OutboxRepository) Reschedule(ctx context.Context, id string, nextAttemptAt time.Time) error {
	return r.queries.RescheduleOutboxEvent(ctx, generated.RescheduleOutboxEventParams{
		ID:            id,
		NextAttemptAt: timeToPgTimestamptz(nextAttemptAt),
		UpdatedAt:     timeToPgTimestamptz(time.Now()),
	})
}

// MarkProcessed marks an event as processed within a transaction.
func (r *OutboxRepository) MarkProcessed(ctx context.Context, tx usecase.Transaction, id string, processedAt time.Time) error {
	return r.updateStatus(ctx, tx, id, domain.OutboxStatusProcessed, processedAt)
}

// MarkFailed marks an event as failed within a transaction.
func (r *OutboxRepository) MarkFailed(ctx context.Context, tx usecase.Transaction, id string, failedAt time.Time) error {
	return r.updateStatus(ctx, tx, id, domain.OutboxStatusFailed, failedAt)
}

func (r *OutboxRepository) updateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.OutboxStatus, at time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	return queries.UpdateOutboxEventStatus(ctx, generated.UpdateOutboxEventStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timeToPgTimestamptz(at),
	})
}

// GetByTransferID retrieves the outbox event recorded for a transfer.
func (r *OutboxRepository) GetByTransferID(ctx context.Context, transferID string) (*domain.OutboxEvent, error) {
	row, err := r.queries.GetOutboxEventByTransferID(ctx, transferID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransferNotFound
		}

		return nil, err
	}

	return rowToOutboxEvent(row), nil
}

func rowToOutboxEvent(row generated.OutboxEvent) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:               row.ID,
		TransferID:       row.TransferID,
		Payload:          row.Payload,
		Status:           domain.OutboxStatus(row.Status),
		NumberOfAttempts: int(row.NumberOfAttempts),
		NextAttemptAt:    row.NextAttemptAt.Time,
		CreatedAt:        row.CreatedAt.Time,
		UpdatedAt:        row.UpdatedAt.Time,
	}
}
