package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/infrastructure/metrics"
)

// TransferUseCase accepts transfer requests: it records the Transfer
// and its outbox event in one atomic unit and deduplicates repeated
// client requests through the idempotency store. Delivery to the
// ledger is owned by the outbox dispatcher, never by this path.
type TransferUseCase struct {
	txManager    TransactionManager
	transferRepo TransferRepository
	outboxRepo   OutboxRepository
	idempotency  IdempotencyStore
	idGen        IDGenerator
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	ttl          time.Duration
	maxBatchSize int
	batchWorkers int
}

// TransferUseCaseConfig holds construction parameters.
type TransferUseCaseConfig struct {
	TxManager    TransactionManager
	TransferRepo TransferRepository
	OutboxRepo   OutboxRepository
	Idempotency  IdempotencyStore
	IDGen        IDGenerator
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics // may be nil
	TTL          time.Duration
	MaxBatchSize int
	BatchWorkers int
}

// NewTransferUseCase creates a new TransferUseCase.
func NewTransferUseCase(cfg TransferUseCaseConfig) *TransferUseCase {
	if cfg.TTL == 0 {
		cfg.TTL = DefaultIdempotencyTTL
	}

	if cfg.MaxBatchSize == 0 {
		cfg.MaxBatchSize = DefaultMaxBatchSize
	}

	if cfg.BatchWorkers == 0 {
		cfg.BatchWorkers = DefaultBatchWorkers
	}

	return &TransferUseCase{
		txManager:    cfg.TxManager,
		transferRepo: cfg.TransferRepo,
		outboxRepo:   cfg.OutboxRepo,
		idempotency:  cfg.Idempotency,
		idGen:        cfg.IDGen,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		ttl:          cfg.TTL,
		maxBatchSize: cfg.MaxBatchSize,
		batchWorkers: cfg.BatchWorkers,
	}
}

// InitiateTransferInput represents input for initiating a transfer.
type InitiateTransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
}

// InitiateTransfer records a transfer request and its outbox event.
// A repeated request under the same idempotency key returns the cached
// transfer verbatim without creating any new state.
func (uc *TransferUseCase) InitiateTransfer(ctx context.Context, input InitiateTransferInput, idempotencyKey string) (*domain.Transfer, error) {
	if idempotencyKey != "" {
		var cached domain.Transfer

		hit, err := uc.lookupCached(ctx, idempotencyKey, &cached)
		if err != nil {
			return nil, err
		}

		if hit {
			uc.countReplay()
			uc.logger.Info().
				Str("idempotency_key", idempotencyKey).
				Str("transfer_id", cached.ID).
				Msg("idempotency key found in cache, replaying response")

			return &cached, nil
		}
	}

	transfer, err := uc.initiateOne(ctx, input)
	if err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		uc.cacheResponse(ctx, idempotencyKey, transfer)
	}

	return transfer, nil
}

func (uc *TransferUseCase) initiateOne(ctx context.Context, input InitiateTransferInput) (*domain.Transfer, error) {
	now := time.Now().UTC()
	transfer := domain.NewTransfer(uc.idGen.Generate(), input.FromAccountID, input.ToAccountID, input.Amount, now)

	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(domain.LedgerApplyRequest{
		TransferID:    transfer.ID,
		FromAccountID: transfer.FromAccountID,
		ToAccountID:   transfer.ToAccountID,
		Amount:        transfer.Amount,
	})
	if err != nil {
		return nil, err
	}

	event := domain.NewOutboxEvent(uc.idGen.Generate(), transfer.ID, payload, now)

	// The transfer and its outbox event are one atomic unit: either
	// both exist and delivery is guaranteed, or neither does.
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.transferRepo.Create(ctx, tx, transfer); err != nil {
		return nil, err
	}

	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.TransfersInitiated.Inc()
		uc.metrics.TransferAmount.Observe(transfer.Amount.InexactFloat64())
	}

	uc.logger.Info().
		Str("transfer_id", transfer.ID).
		Str("from_account_id", transfer.FromAccountID).
		Str("to_account_id", transfer.ToAccountID).
		Str("amount", transfer.Amount.String()).
		Msg("transfer accepted for processing")

	return transfer, nil
}

// InitiateBatch validates the batch size, fans the items out across a
// bounded worker pool and joins all results. Any item failure fails
// the whole call; no partial result is returned or cached.
func (uc *TransferUseCase) InitiateBatch(ctx context.Context, inputs []InitiateTransferInput, idempotencyKey string) ([]*domain.Transfer, error) {
	// Size validation fails fast, before any cache or state access.
	if len(inputs) == 0 || len(inputs) > uc.maxBatchSize {
		return nil, domain.ErrInvalidBatchSize
	}

	if idempotencyKey != "" {
		var cached []*domain.Transfer

		hit, err := uc.lookupCached(ctx, idempotencyKey, &cached)
		if err != nil {
			return nil, err
		}

		if hit {
			uc.countReplay()
			uc.logger.Info().
				Str("idempotency_key", idempotencyKey).
				Msg("idempotency key found in cache, replaying batch response")

			return cached, nil
		}
	}

	transfers := make([]*domain.Transfer, len(inputs))
	errs := make([]error, len(inputs))
	sem := make(chan struct{}, uc.batchWorkers)

	var wg sync.WaitGroup

	for i, input := range inputs {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int, input InitiateTransferInput) {
			defer wg.Done()
			defer func() { <-sem }()

			transfers[i], errs[i] = uc.initiateOne(ctx, input)
		}(i, input)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	if idempotencyKey != "" {
		uc.cacheResponse(ctx, idempotencyKey, transfers)
	}

	return transfers, nil
}

// GetTransfer retrieves a transfer by ID.
func (uc *TransferUseCase) GetTransfer(ctx context.Context, id string) (*domain.Transfer, error) {
	return uc.transferRepo.GetByID(ctx, id)
}

func (uc *TransferUseCase) lookupCached(ctx context.Context, key string, out any) (bool, error) {
	data, err := uc.idempotency.Get(ctx, key)
	if err != nil {
		return false, err
	}

	if data == nil {
		return false, nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		// An unreadable cached value behaves like a miss.
		uc.logger.Warn().Err(err).Str("idempotency_key", key).Msg("discarding unreadable cached response")

		return false, nil
	}

	return true, nil
}

// cacheResponse stores the response after the durable commit. A cache
// write failure must not fail a request whose state already exists.
func (uc *TransferUseCase) cacheResponse(ctx context.Context, key string, response any) {
	data, err := json.Marshal(response)
	if err != nil {
		uc.logger.Error().Err(err).Str("idempotency_key", key).Msg("unable to serialize response for idempotency cache")

		return
	}

	if err := uc.idempotency.Put(ctx, key, data, uc.ttl); err != nil {
		uc.logger.Error().Err(err).Str("idempotency_key", key).Msg("unable to store idempotency cache entry")
	}
}

func (uc *TransferUseCase) countReplay() {
	if uc.metrics != nil {
		uc.metrics.IdempotentReplays.Inc()
	}
}
