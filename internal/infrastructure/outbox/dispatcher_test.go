package outbox

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/payrail/payrail/internal/domain"
	outboxmocks "github.com/payrail/payrail/internal/infrastructure/outbox/mocks"
	"github.com/payrail/payrail/internal/usecase/mocks"
)

type dispatcherFixture struct {
	dispatcher   *Dispatcher
	outboxRepo   *mocks.MockOutboxRepository
	transferRepo *mocks.MockTransferRepository
	client       *outboxmocks.MockLedgerClient
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	client := outboxmocks.NewMockLedgerClient(ctrl)
	outboxRepo := mocks.NewMockOutboxRepository()
	transferRepo := mocks.NewMockTransferRepository()

	d := NewDispatcher(Config{
		OutboxRepo:   outboxRepo,
		TransferRepo: transferRepo,
		TxManager:    mocks.NewMockTransactionManager(),
		Client:       client,
		Logger:       zerolog.Nop(),
		Interval:     10 * time.Millisecond,
		BatchSize:    10,
		Workers:      2,
		MaxAttempts:  3,
		BaseBackoff:  5 * time.Second,
	})

	return &dispatcherFixture{
		dispatcher:   d,
		outboxRepo:   outboxRepo,
		transferRepo: transferRepo,
		client:       client,
	}
}

func seedEvent(t *testing.T, f *dispatcherFixture, attempts int) *domain.OutboxEvent {
	t.Helper()

	ctx := context.Background()
	now := time.Now().UTC()

	transfer := domain.NewTransfer("tr-1", "acc-1", "acc-2", decimal.NewFromInt(100), now)
	if err := f.transferRepo.Create(ctx, nil, transfer); err != nil {
		t.Fatalf("seed transfer: %v", err)
	}

	payload := []byte(`{"transfer_id":"tr-1","from_account_id":"acc-1","to_account_id":"acc-2","amount":"100"}`)
	event := domain.NewOutboxEvent("ev-1", "tr-1", payload, now)
	event.NumberOfAttempts = attempts
	if err := f.outboxRepo.Create(ctx, nil, event); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	return event
}

func TestDispatcherProcessEventSuccess(t *testing.T) {
	f := newDispatcherFixture(t)
	event := seedEvent(t, f, 1)

	f.client.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(&domain.LedgerApplyResult{TransferID: "tr-1"}, nil)

	f.dispatcher.processEvent(context.Background(), event)

	stored, _ := f.outboxRepo.GetByTransferID(context.Background(), "tr-1")
	if stored.Status != domain.OutboxStatusProcessed {
		t.Errorf("expected PROCESSED event, got %s", stored.Status)
	}

	transfer, _ := f.transferRepo.GetByID(context.Background(), "tr-1")
	if transfer.Status != domain.TransferStatusCompleted {
		t.Errorf("expected COMPLETED transfer, got %s", transfer.Status)
	}
}

func TestDispatcherReschedulesRetriableFailure(t *testing.T) {
	f := newDispatcherFixture(t)
	event := seedEvent(t, f, 1)

	f.client.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil, domain.ErrLedgerUnavailable)

	var rescheduledAt time.Time
	f.outboxRepo.RescheduleFunc = func(ctx context.Context, id string, nextAttemptAt time.Time) error {
		rescheduledAt = nextAttemptAt
		return nil
	}

	before := time.Now().UTC()
	f.dispatcher.processEvent(context.Background(), event)

	// First attempt: next = now + base * 2^0.
	want := before.Add(5 * time.Second)
	if rescheduledAt.Before(want) || rescheduledAt.After(want.Add(time.Second)) {
		t.Errorf("expected reschedule near %v, got %v", want, rescheduledAt)
	}

	transfer, _ := f.transferRepo.GetByID(context.Background(), "tr-1")
	if transfer.Status != domain.TransferStatusProcessing {
		t.Errorf("transfer must stay PROCESSING while retries remain, got %s", transfer.Status)
	}
}

func TestDispatcherBackoffDoublesPerAttempt(t *testing.T) {
	f := newDispatcherFixture(t)
	event := seedEvent(t, f, 2)

	f.client.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil, domain.ErrLedgerUnavailable)

	var rescheduledAt time.Time
	f.outboxRepo.RescheduleFunc = func(ctx context.Context, id string, nextAttemptAt time.Time) error {
		rescheduledAt = nextAttemptAt
		return nil
	}

	before := time.Now().UTC()
	f.dispatcher.processEvent(context.Background(), event)

	// Second attempt: next = now + base * 2^1.
	want := before.Add(10 * time.Second)
	if rescheduledAt.Before(want) || rescheduledAt.After(want.Add(time.Second)) {
		t.Errorf("expected reschedule near %v, got %v", want, rescheduledAt)
	}
}

func TestDispatcherFailsPermanentRejection(t *testing.T) {
	f := newDispatcherFixture(t)
	event := seedEvent(t, f, 1)

	f.client.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil, &domain.LedgerError{
		Status:  422,
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient balance",
	})

	f.dispatcher.processEvent(context.Background(), event)

	stored, _ := f.outboxRepo.GetByTransferID(context.Background(), "tr-1")
	if stored.Status != domain.OutboxStatusFailed {
		t.Errorf("expected FAILED event after permanent rejection, got %s", stored.Status)
	}

	transfer, _ := f.transferRepo.GetByID(context.Background(), "tr-1")
	if transfer.Status != domain.TransferStatusFailed {
		t.Errorf("expected FAILED transfer, got %s", transfer.Status)
	}
}

func TestDispatcherFailsAfterMaxAttempts(t *testing.T) {
	f := newDispatcherFixture(t)
	event := seedEvent(t, f, 3) // MaxAttempts is 3

	f.client.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	f.dispatcher.processEvent(context.Background(), event)

	stored, _ := f.outboxRepo.GetByTransferID(context.Background(), "tr-1")
	if stored.Status != domain.OutboxStatusFailed {
		t.Errorf("expected FAILED event after exhausted retries, got %s", stored.Status)
	}
}

func TestDispatcherFailsPoisonPayload(t *testing.T) {
	f := newDispatcherFixture(t)
	event := seedEvent(t, f, 1)
	event.Payload = []byte("{not json")

	// The client must never be called for an undecodable payload.
	f.dispatcher.processEvent(context.Background(), event)

	stored, _ := f.outboxRepo.GetByTransferID(context.Background(), "tr-1")
	if stored.Status != domain.OutboxStatusFailed {
		t.Errorf("expected FAILED event for poison payload, got %s", stored.Status)
	}
}

func TestDispatcherStartDeliversPendingEvents(t *testing.T) {
	f := newDispatcherFixture(t)
	seedEvent(t, f, 0)

	f.client.EXPECT().Apply(gomock.Any(), gomock.Any()).Return(&domain.LedgerApplyResult{TransferID: "tr-1"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go f.dispatcher.Start(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		stored, _ := f.outboxRepo.GetByTransferID(context.Background(), "tr-1")
		if stored.Status == domain.OutboxStatusProcessed {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("event was not processed before deadline")
}

func TestIsPermanent(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"client error is permanent", &domain.LedgerError{Status: 404, Code: "ACCOUNT_NOT_FOUND"}, true},
		{"server error is retriable", &domain.LedgerError{Status: 503, Code: "SERVICE_ERROR"}, false},
		{"transport error is retriable", domain.ErrLedgerUnavailable, false},
		{"breaker open is retriable", domain.ErrCircuitOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isPermanent(tt.err); got != tt.want {
				t.Errorf("isPermanent(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
