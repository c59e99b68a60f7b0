package domain

import "time"

// OutboxStatus is the delivery state of an outbox event.
type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// OutboxEvent is a durable work item guaranteeing that a transfer is
// eventually applied to the ledger. Exactly one event exists per
// transfer, created in the same transaction. Status is monotonic:
// PENDING may be rescheduled, PROCESSED and FAILED are terminal.
type OutboxEvent struct {
	CreatedAt        time.Time
	UpdatedAt        time.Time
	NextAttemptAt    time.Time
	ID               string
	TransferID       string
	Status           OutboxStatus
	Payload          []byte
	NumberOfAttempts int
}

// NewOutboxEvent creates a pending event due immediately.
func NewOutboxEvent(id, transferID string, payload []byte, now time.Time) *OutboxEvent {
	return &OutboxEvent{
		ID:            id,
		TransferID:    transferID,
		Payload:       payload,
		Status:        OutboxStatusPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanRetry reports whether another attempt is allowed under maxAttempts.
func (e *OutboxEvent) CanRetry(maxAttempts int) bool {
	return e.NumberOfAttempts < maxAttempts
}
