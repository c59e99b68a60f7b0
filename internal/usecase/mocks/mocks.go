package mocks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc        func(ctx context.Context, account *domain.Account) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.Account, error)
	UpdateBalanceFunc func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, expectedVersion int64, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, expectedVersion, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if acc.Version != expectedVersion {
		return domain.ErrConcurrentModification
	}
	acc.Balance = balance
	acc.Version++
	acc.UpdatedAt = updatedAt
	return nil
}

// Seed stores an account directly, bypassing Create.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.Entry

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error
	GetByTransferFunc func(ctx context.Context, transferID string) ([]*domain.Entry, error)
	GetByAccountFunc  func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.Entry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) GetByTransfer(ctx context.Context, transferID string) ([]*domain.Entry, error) {
	if m.GetByTransferFunc != nil {
		return m.GetByTransferFunc(ctx, transferID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.TransferID == transferID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) GetByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Entry, error) {
	if m.GetByAccountFunc != nil {
		return m.GetByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.Entry
	for _, e := range m.entries {
		if e.AccountID == accountID {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// MockTransferRepository is a mock implementation of TransferRepository.
type MockTransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]*domain.Transfer

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.Transfer, error)
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, updatedAt time.Time) error
}

func NewMockTransferRepository() *MockTransferRepository {
	return &MockTransferRepository{
		transfers: make(map[string]*domain.Transfer),
	}
}

func (m *MockTransferRepository) Create(ctx context.Context, tx usecase.Transaction, transfer *domain.Transfer) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transfer)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transfers[transfer.ID] = transfer
	return nil
}

func (m *MockTransferRepository) GetByID(ctx context.Context, id string) (*domain.Transfer, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if tr, ok := m.transfers[id]; ok {
		return tr, nil
	}
	return nil, domain.ErrTransferNotFound
}

func (m *MockTransferRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.TransferStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tr, ok := m.transfers[id]
	if !ok {
		return domain.ErrTransferNotFound
	}
	tr.Status = status
	tr.UpdatedAt = updatedAt
	return nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events map[string]*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	ClaimDueFunc        func(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.OutboxEvent, error)
	RescheduleFunc      func(ctx context.Context, id string, nextAttemptAt time.Time) error
	MarkProcessedFunc   func(ctx context.Context, tx usecase.Transaction, id string, processedAt time.Time) error
	MarkFailedFunc      func(ctx context.Context, tx usecase.Transaction, id string, failedAt time.Time) error
	GetByTransferIDFunc func(ctx context.Context, transferID string) (*domain.OutboxEvent, error)
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{
		events: make(map[string]*domain.OutboxEvent),
	}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = event
	return nil
}

func (m *MockOutboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*domain.OutboxEvent, error) {
	if m.ClaimDueFunc != nil {
		return m.ClaimDueFunc(ctx, now, lease, limit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var claimed []*domain.OutboxEvent
	for _, e := range m.events {
		if len(claimed) >= limit {
			break
		}
		if e.Status == domain.OutboxStatusPending && !e.NextAttemptAt.After(now) {
			e.NumberOfAttempts++
			e.NextAttemptAt = now.Add(lease)
			claimed = append(claimed, e)
		}
	}
	return claimed, nil
}

func (m *MockOutboxRepository) Reschedule(ctx context.Context, id string, nextAttemptAt time.Time) error {
	if m.RescheduleFunc != nil {
		return m.RescheduleFunc(ctx, id, nextAttemptAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.NextAttemptAt = nextAttemptAt
	}
	return nil
}

func (m *MockOutboxRepository) MarkProcessed(ctx context.Context, tx usecase.Transaction, id string, processedAt time.Time) error {
	if m.MarkProcessedFunc != nil {
		return m.MarkProcessedFunc(ctx, tx, id, processedAt)
	}
	return m.setStatus(id, domain.OutboxStatusProcessed, processedAt)
}

func (m *MockOutboxRepository) MarkFailed(ctx context.Context, tx usecase.Transaction, id string, failedAt time.Time) error {
	if m.MarkFailedFunc != nil {
		return m.MarkFailedFunc(ctx, tx, id, failedAt)
	}
	return m.setStatus(id, domain.OutboxStatusFailed, failedAt)
}

func (m *MockOutboxRepository) setStatus(id string, status domain.OutboxStatus, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.events[id]; ok {
		e.Status = status
		e.UpdatedAt = at
	}
	return nil
}

func (m *MockOutboxRepository) GetByTransferID(ctx context.Context, transferID string) (*domain.OutboxEvent, error) {
	if m.GetByTransferIDFunc != nil {
		return m.GetByTransferIDFunc(ctx, transferID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.events {
		if e.TransferID == transferID {
			return e, nil
		}
	}
	return nil, domain.ErrTransferNotFound
}

// Events returns the stored events keyed by ID.
func (m *MockOutboxRepository) Events() map[string]*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*domain.OutboxEvent, len(m.events))
	for k, v := range m.events {
		out[k] = v
	}
	return out
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	mu           sync.Mutex
	counter      int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRetrier re-runs the operation on version conflicts up to
// MaxAttempts, without any backoff delay.
type MockRetrier struct {
	MaxAttempts int
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{MaxAttempts: 4}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	var err error
	for i := 0; i < m.MaxAttempts; i++ {
		err = operation()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrConcurrentModification) {
			return err
		}
	}
	return err
}

// MockIdempotencyStore is an in-memory mock of IdempotencyStore.
type MockIdempotencyStore struct {
	mu     sync.RWMutex
	values map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	PutFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		values: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key], nil
}

func (m *MockIdempotencyStore) Put(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.PutFunc != nil {
		return m.PutFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = response
	return nil
}
