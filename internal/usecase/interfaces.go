package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	// UpdateBalance performs a compare-and-swap on the account version.
	// It returns domain.ErrConcurrentModification when expectedVersion
	// no longer matches the stored row.
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
}

// EntryRepository defines data access for ledger entries.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.Entry) error
	GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error)
	GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

// TransferRepository defines data access for transfer requests.
type TransferRepository interface {
	Create(ctx context.Context, tx Transaction, transfer *domain.Transfer) error
	GetByID(ctx context.Context, id string) (*domain.Transfer, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.TransferStatus, updatedAt time.Time) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	// ClaimDue atomically claims up to limit due PENDING events, oldest
	// created first: each claim increments the attempt counter and moves
	// next_attempt_at forward by lease so an overlapping poll cycle
	// cannot pick the same event up again.
	ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.OutboxEvent, error)
	Reschedule(ctx context.Context, id string, nextAttemptAt time.Time) error
	MarkProcessed(ctx context.Context, tx Transaction, id string, processedAt time.Time) error
	MarkFailed(ctx context.Context, tx Transaction, id string, failedAt time.Time) error
	GetByTransferID(ctx context.Context, transferID string) (*domain.OutboxEvent, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on retryable failures with backoff.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IdempotencyStore maps a client-supplied idempotency key to a
// previously computed response. Absence means "not yet processed".
type IdempotencyStore interface {
	// Get returns (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
