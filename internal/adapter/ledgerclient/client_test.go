package ledgerclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/payrail/payrail/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		BaseURL: server.URL,
		Timeout: time.Second,
		Breaker: BreakerConfig{
			WindowSize:    10,
			RateThreshold: 1.0,
			MinCalls:      3,
			OpenFor:       time.Minute,
		},
		Logger: zerolog.Nop(),
	})
}

func applyRequest() domain.LedgerApplyRequest {
	return domain.LedgerApplyRequest{
		TransferID:    "tr-1",
		FromAccountID: "acc-1",
		ToAccountID:   "acc-2",
		Amount:        decimal.NewFromInt(100),
	}
}

func TestClientApplySuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != applyPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"transfer_id": "tr-1",
			"debit_entry": {"account_id": "acc-1", "amount": "100", "type": "DEBIT"},
			"credit_entry": {"account_id": "acc-2", "amount": "100", "type": "CREDIT"},
			"created_at": "2026-01-02T15:04:05Z"
		}`))
	})

	result, err := client.Apply(context.Background(), applyRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.TransferID != "tr-1" {
		t.Errorf("expected tr-1, got %s", result.TransferID)
	}
	if result.DebitEntry.AccountID != "acc-1" || !result.DebitEntry.Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("unexpected debit entry: %+v", result.DebitEntry)
	}
}

func TestClientApplyStructuredRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"status": 422, "code": "INSUFFICIENT_BALANCE", "message": "insufficient balance"}`))
	})

	_, err := client.Apply(context.Background(), applyRequest())

	var lerr *domain.LedgerError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LedgerError, got %v", err)
	}

	if lerr.Code != "INSUFFICIENT_BALANCE" || lerr.Status != 422 {
		t.Errorf("unexpected error details: %+v", lerr)
	}
	if lerr.Retriable() {
		t.Errorf("a 4xx rejection must not be retriable")
	}
}

func TestClientApplyServerErrorIsRetriable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status": 503, "code": "SERVICE_ERROR", "message": "down for maintenance"}`))
	})

	_, err := client.Apply(context.Background(), applyRequest())

	var lerr *domain.LedgerError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LedgerError, got %v", err)
	}
	if !lerr.Retriable() {
		t.Errorf("a 5xx rejection must be retriable")
	}
}

func TestClientApplyUndecodableErrorBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>oops</html>"))
	})

	_, err := client.Apply(context.Background(), applyRequest())

	var lerr *domain.LedgerError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected LedgerError, got %v", err)
	}
	if lerr.Code != "SERVICE_ERROR" || lerr.Status != http.StatusInternalServerError {
		t.Errorf("unexpected fallback error: %+v", lerr)
	}
}

func TestClientApplyTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused from here on

	client := NewClient(Config{
		BaseURL: server.URL,
		Timeout: time.Second,
		Logger:  zerolog.Nop(),
	})

	_, err := client.Apply(context.Background(), applyRequest())
	if !errors.Is(err, domain.ErrLedgerUnavailable) {
		t.Fatalf("expected ErrLedgerUnavailable, got %v", err)
	}
}

func TestClientBreakerOpensOnRepeatedServerErrors(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"status": 503, "code": "SERVICE_ERROR", "message": "down"}`))
	})

	for i := 0; i < 3; i++ {
		if _, err := client.Apply(context.Background(), applyRequest()); err == nil {
			t.Fatalf("expected error on call %d", i)
		}
	}

	// Window at 100% failures: the next call fails fast without a request.
	_, err := client.Apply(context.Background(), applyRequest())
	if !errors.Is(err, domain.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 requests before the breaker opened, got %d", calls)
	}
}

func TestClientRejectionDoesNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status": 404, "code": "ACCOUNT_NOT_FOUND", "message": "no such account"}`))
	})

	for i := 0; i < 10; i++ {
		var lerr *domain.LedgerError
		if _, err := client.Apply(context.Background(), applyRequest()); !errors.As(err, &lerr) {
			t.Fatalf("expected LedgerError on call %d, got %v", i, err)
		}
	}
}
