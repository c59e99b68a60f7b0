package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/infrastructure/metrics"
	"github.com/payrail/payrail/internal/usecase"
)

// LedgerClient applies a transfer to the remote ledger. It is a
// single-shot call; retry policy lives here, in the dispatcher.
type LedgerClient interface {
	Apply(ctx context.Context, req domain.LedgerApplyRequest) (*domain.LedgerApplyResult, error)
}

// Dispatcher delivers pending outbox events to the ledger. Each poll
// cycle claims due events and feeds them to a bounded worker pool;
// every outcome (processed, rescheduled, failed) is written durably
// before the event is considered resolved. The dispatcher holds no
// mutable state of its own between cycles.
type Dispatcher struct {
	outboxRepo   usecase.OutboxRepository
	transferRepo usecase.TransferRepository
	txManager    usecase.TransactionManager
	client       LedgerClient
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	interval     time.Duration
	batchSize    int
	workers      int
	maxAttempts  int
	baseBackoff  time.Duration
	claimLease   time.Duration
}

// Config for Dispatcher.
type Config struct {
	OutboxRepo   usecase.OutboxRepository
	TransferRepo usecase.TransferRepository
	TxManager    usecase.TransactionManager
	Client       LedgerClient
	Logger       zerolog.Logger
	Metrics      *metrics.Metrics
	Interval     time.Duration // polling interval
	BatchSize    int           // events fetched per poll
	Workers      int           // concurrent dispatch workers
	MaxAttempts  int           // attempts before an event goes FAILED
	BaseBackoff  time.Duration // first retry delay, doubled per attempt
	ClaimLease   time.Duration // how long a claim hides an event from other cycles
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.Interval == 0 {
		cfg.Interval = 30 * time.Second
	}

	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}

	if cfg.Workers == 0 {
		cfg.Workers = 8
	}

	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}

	if cfg.BaseBackoff == 0 {
		cfg.BaseBackoff = 5 * time.Second
	}

	if cfg.ClaimLease == 0 {
		// A claim must outlive a full remote call plus queueing, so an
		// overlapping poll cycle never sees an in-flight event as due.
		cfg.ClaimLease = 2 * cfg.Interval
	}

	return &Dispatcher{
		outboxRepo:   cfg.OutboxRepo,
		transferRepo: cfg.TransferRepo,
		txManager:    cfg.TxManager,
		client:       cfg.Client,
		logger:       cfg.Logger,
		metrics:      cfg.Metrics,
		interval:     cfg.Interval,
		batchSize:    cfg.BatchSize,
		workers:      cfg.Workers,
		maxAttempts:  cfg.MaxAttempts,
		baseBackoff:  cfg.BaseBackoff,
		claimLease:   cfg.ClaimLease,
	}
}

// Start runs the dispatcher until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().
		Dur("interval", d.interval).
		Int("batch_size", d.batchSize).
		Int("workers", d.workers).
		Int("max_attempts", d.maxAttempts).
		Msg("outbox dispatcher started")

	jobs := make(chan *domain.OutboxEvent, d.workers)

	for i := 0; i < d.workers; i++ {
		go d.runWorker(ctx, jobs)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	// Process immediately on start.
	if err := d.pollOnce(ctx, jobs); err != nil {
		d.logger.Error().Err(err).Msg("outbox poll failed")
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("outbox dispatcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := d.pollOnce(ctx, jobs); err != nil {
				d.logger.Error().Err(err).Msg("outbox poll failed")
			}
		}
	}
}

// pollOnce claims due events and hands them to the workers. Submission
// blocks when the pool is saturated; backpressure, not dropped work.
func (d *Dispatcher) pollOnce(ctx context.Context, jobs chan<- *domain.OutboxEvent) error {
	events, err := d.outboxRepo.ClaimDue(ctx, time.Now().UTC(), d.claimLease, d.batchSize)
	if err != nil {
		return fmt.Errorf("claim due outbox events: %w", err)
	}

	if len(events) == 0 {
		return nil
	}

	d.logger.Debug().Int("count", len(events)).Msg("claimed outbox events")

	if d.metrics != nil {
		d.metrics.OutboxClaimed.Add(float64(len(events)))
	}

	for _, event := range events {
		select {
		case jobs <- event:
			if d.metrics != nil {
				d.metrics.OutboxQueueDepth.Inc()
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

func (d *Dispatcher) runWorker(ctx context.Context, jobs <-chan *domain.OutboxEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-jobs:
			if d.metrics != nil {
				d.metrics.OutboxQueueDepth.Dec()
			}

			d.processEvent(ctx, event)
		}
	}
}

// processEvent makes one delivery attempt. The attempt counter was
// already incremented by the claim.
func (d *Dispatcher) processEvent(ctx context.Context, event *domain.OutboxEvent) {
	logger := d.logger.With().
		Str("event_id", event.ID).
		Str("transfer_id", event.TransferID).
		Int("attempt", event.NumberOfAttempts).
		Logger()

	logger.Info().Msg("processing outbox event")

	var req domain.LedgerApplyRequest
	if err := json.Unmarshal(event.Payload, &req); err != nil {
		// Poison payload: no retry can make it decodable.
		logger.Error().Err(err).Msg("undecodable outbox payload, failing event")
		d.finalize(ctx, event, false)

		return
	}

	_, err := d.client.Apply(ctx, req)
	if err == nil {
		d.finalize(ctx, event, true)

		return
	}

	if isPermanent(err) {
		logger.Warn().Err(err).Msg("ledger rejected transfer permanently")
		d.finalize(ctx, event, false)

		return
	}

	if !event.CanRetry(d.maxAttempts) {
		logger.Warn().Err(err).Msg("retries exhausted, failing transfer")
		d.finalize(ctx, event, false)

		return
	}

	d.reschedule(ctx, event, err)
}

// reschedule pushes the next attempt out exponentially:
// next = now + base * 2^(attempts-1).
func (d *Dispatcher) reschedule(ctx context.Context, event *domain.OutboxEvent, cause error) {
	backoff := time.Duration(float64(d.baseBackoff) * math.Pow(2, float64(event.NumberOfAttempts-1)))
	nextAttemptAt := time.Now().UTC().Add(backoff)

	if err := d.outboxRepo.Reschedule(ctx, event.ID, nextAttemptAt); err != nil {
		d.logger.Error().Err(err).Str("event_id", event.ID).Msg("unable to reschedule outbox event")

		return
	}

	if d.metrics != nil {
		d.metrics.OutboxOutcomes.WithLabelValues("rescheduled").Inc()
	}

	d.logger.Warn().
		Str("transfer_id", event.TransferID).
		Time("next_attempt_at", nextAttemptAt).
		Err(cause).
		Msg("transfer retry scheduled")
}

// finalize writes the terminal outcome for the event and its transfer
// in one durable unit.
func (d *Dispatcher) finalize(ctx context.Context, event *domain.OutboxEvent, succeeded bool) {
	now := time.Now().UTC()

	tx, err := d.txManager.Begin(ctx)
	if err != nil {
		d.logger.Error().Err(err).Str("event_id", event.ID).Msg("unable to begin finalize transaction")

		return
	}
	defer tx.Rollback(ctx)

	if succeeded {
		err = d.outboxRepo.MarkProcessed(ctx, tx, event.ID, now)
	} else {
		err = d.outboxRepo.MarkFailed(ctx, tx, event.ID, now)
	}

	if err != nil {
		d.logger.Error().Err(err).Str("event_id", event.ID).Msg("unable to update outbox event status")

		return
	}

	status := domain.TransferStatusCompleted
	if !succeeded {
		status = domain.TransferStatusFailed
	}

	if err := d.transferRepo.UpdateStatus(ctx, tx, event.TransferID, status, now); err != nil {
		d.logger.Error().Err(err).Str("transfer_id", event.TransferID).Msg("unable to update transfer status")

		return
	}

	if err := tx.Commit(ctx); err != nil {
		d.logger.Error().Err(err).Str("event_id", event.ID).Msg("unable to commit finalize transaction")

		return
	}

	if d.metrics != nil {
		outcome := "processed"
		if !succeeded {
			outcome = "failed"
		}

		d.metrics.OutboxOutcomes.WithLabelValues(outcome).Inc()
		d.metrics.OutboxAttempts.Observe(float64(event.NumberOfAttempts))
	}

	d.logger.Info().
		Str("transfer_id", event.TransferID).
		Str("status", string(status)).
		Msg("outbox event finalized")
}

// isPermanent reports whether retrying cannot change the outcome:
// structured 4xx rejections from the ledger. Transport failures,
// breaker rejections and 5xx responses stay retriable.
func isPermanent(err error) bool {
	var lerr *domain.LedgerError
	if errors.As(err, &lerr) {
		return !lerr.Retriable()
	}

	return false
}
