package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/payrail/payrail/internal/domain"
	"github.com/payrail/payrail/internal/infrastructure/metrics"
)

const applyPath = "/api/v1/ledger/transfer"

// Client is the breaker-guarded HTTP client for the ledger service.
// It makes exactly one call per Apply and classifies the outcome;
// retry policy belongs to the outbox dispatcher.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *Breaker
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// Config for Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
	Logger  zerolog.Logger
	Metrics *metrics.Metrics
}

// NewClient creates a new ledger client.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		breaker: NewBreaker(cfg.Breaker),
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// errorResponse is the ledger's structured error shape.
type errorResponse struct {
	Errors  map[string]string `json:"errors,omitempty"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Status  int               `json:"status"`
}

// Apply posts the transfer to the ledger. An open breaker fails fast
// with domain.ErrCircuitOpen before any network round trip. Structured
// rejections come back as *domain.LedgerError; transport failures wrap
// domain.ErrLedgerUnavailable. Only transport failures and 5xx count
// against the breaker.
func (c *Client) Apply(ctx context.Context, req domain.LedgerApplyRequest) (*domain.LedgerApplyResult, error) {
	if !c.breaker.TryAcquire() {
		if c.metrics != nil {
			c.metrics.BreakerRejections.Inc()
		}

		c.logger.Warn().Str("transfer_id", req.TransferID).Msg("circuit breaker open, rejecting ledger call")

		return nil, domain.ErrCircuitOpen
	}

	start := time.Now()

	result, err := c.post(ctx, req)

	if c.metrics != nil {
		c.metrics.LedgerCallDuration.Observe(time.Since(start).Seconds())
	}

	return result, err
}

func (c *Client) post(ctx context.Context, req domain.LedgerApplyRequest) (*domain.LedgerApplyResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		// Local failure, not an outcome the breaker should record.
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+applyPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.breaker.OnFailure()
		c.countApply("unavailable")

		return nil, fmt.Errorf("%w: %v", domain.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 == 2 {
		var result domain.LedgerApplyResult
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			c.breaker.OnFailure()
			c.countApply("unavailable")

			return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrLedgerUnavailable, err)
		}

		c.breaker.OnSuccess()
		c.countApply("success")

		return &result, nil
	}

	lerr := c.decodeError(resp)

	if lerr.Retriable() {
		c.breaker.OnFailure()
	} else {
		// A structured 4xx means the ledger is healthy and said no.
		c.breaker.OnSuccess()
	}

	c.countApply("rejected")

	if c.metrics != nil {
		c.metrics.LedgerApplyErrors.WithLabelValues(lerr.Code).Inc()
	}

	c.logger.Warn().
		Str("transfer_id", req.TransferID).
		Int("status", lerr.Status).
		Str("code", lerr.Code).
		Msg("ledger rejected apply request")

	return nil, lerr
}

func (c *Client) decodeError(resp *http.Response) *domain.LedgerError {
	var body errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return &domain.LedgerError{
			Status:  resp.StatusCode,
			Code:    "SERVICE_ERROR",
			Message: "unable to decode ledger error response",
		}
	}

	status := body.Status
	if status == 0 {
		status = resp.StatusCode
	}

	return &domain.LedgerError{
		Status:  status,
		Code:    body.Code,
		Message: body.Message,
		Errors:  body.Errors,
	}
}

func (c *Client) countApply(result string) {
	if c.metrics != nil {
		c.metrics.LedgerApplies.WithLabelValues(result).Inc()
	}
}
