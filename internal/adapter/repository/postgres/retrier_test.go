package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/infrastructure/metrics"
)

func TestRetrierRetriesOnRetryableError(t *testing.T) {
	r := NewRetrier(nil)
	r.maxRetries = 2
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 10 * time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return &pgconn.PgError{Code: pgErrDeadlock}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierRetriesOnVersionConflict(t *testing.T) {
	r := NewRetrier(nil)
	r.maxRetries = 3
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 50 * time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return domain.ErrConcurrentModification
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after conflict retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierStopsOnPermanentError(t *testing.T) {
	r := NewRetrier(nil)
	attempts := 0
	permanentErr := errors.New("permanent")

	err := r.Retry(context.Background(), func() error {
		attempts++
		return permanentErr
	})

	if !errors.Is(err, permanentErr) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierGivesUpAfterMaxRetries(t *testing.T) {
	r := NewRetrier(nil)
	r.maxRetries = 2
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 100 * time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return domain.ErrConcurrentModification
	})

	if !errors.Is(err, domain.ErrConcurrentModification) {
		t.Fatalf("expected conflict error after giving up, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", attempts)
	}
}

func TestRetrierBackoffDoubles(t *testing.T) {
	r := NewRetrier(nil)
	b := r.newBackOff()

	if b.Multiplier != 2 {
		t.Fatalf("expected backoff multiplier 2, got %v", b.Multiplier)
	}
	if b.InitialInterval != 50*time.Millisecond {
		t.Fatalf("expected 50ms initial interval, got %v", b.InitialInterval)
	}
}

func TestRetrierCountsVersionConflicts(t *testing.T) {
	m := &metrics.Metrics{
		VersionConflicts: prometheus.NewCounter(prometheus.CounterOpts{Name: "test_version_conflicts_total"}),
	}

	r := NewRetrier(m)
	r.initialInterval = 1 * time.Millisecond
	r.maxInterval = 2 * time.Millisecond
	r.maxElapsedTime = 50 * time.Millisecond

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return domain.ErrConcurrentModification
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after conflict retries, got %v", err)
	}
	if got := testutil.ToFloat64(m.VersionConflicts); got != 2 {
		t.Fatalf("expected 2 conflicts counted, got %v", got)
	}
}

func TestIsRetryableError(t *testing.T) {
	if !isRetryableError(&pgconn.PgError{Code: pgErrDeadlock}) {
		t.Fatalf("expected deadlock error to be retryable")
	}

	if !isRetryableError(&pgconn.PgError{Code: pgErrSerializationFailure}) {
		t.Fatalf("expected serialization failure to be retryable")
	}

	if !isRetryableError(domain.ErrConcurrentModification) {
		t.Fatalf("expected version conflict to be retryable")
	}

	if isRetryableError(errors.New("other")) {
		t.Fatalf("expected generic error to be non-retryable")
	}
}
