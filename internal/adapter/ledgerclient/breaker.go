package ledgerclient

import (
	"sync"
	"time"
)

type state int

const (
	closed state = iota
	open
	halfOpen
)

// BreakerConfig holds breaker thresholds.
type BreakerConfig struct {
	WindowSize    int           // call outcomes kept in the rolling window
	RateThreshold float64       // failure rate (0..1) that opens the breaker
	MinCalls      int           // outcomes required before the rate is evaluated
	OpenFor       time.Duration // how long an open breaker rejects calls
}

// Breaker is a failure-rate circuit breaker. Outcomes of the last
// WindowSize calls are kept in a rolling window; once MinCalls outcomes
// are recorded and the failure rate reaches RateThreshold the breaker
// opens for OpenFor. The first caller after the open window becomes the
// half-open probe, and its outcome decides whether the breaker closes
// again or re-opens. Closing clears the window.
type Breaker struct {
	mu            sync.Mutex
	st            state
	outcomes      []bool // rolling window, true = failure
	next          int
	recorded      int
	failures      int
	rateThreshold float64
	minCalls      int
	openFor       time.Duration
	nextTryAt     time.Time
	probeInFlight bool
}

// NewBreaker creates a breaker with the given thresholds. Zero values
// fall back to a 10-call window, a 0.5 failure rate, MinCalls equal to
// the window size and a 30s open window.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.WindowSize == 0 {
		cfg.WindowSize = 10
	}

	if cfg.RateThreshold == 0 {
		cfg.RateThreshold = 0.5
	}

	if cfg.MinCalls == 0 {
		cfg.MinCalls = cfg.WindowSize
	}

	if cfg.OpenFor == 0 {
		cfg.OpenFor = 30 * time.Second
	}

	return &Breaker{
		outcomes:      make([]bool, cfg.WindowSize),
		rateThreshold: cfg.RateThreshold,
		minCalls:      cfg.MinCalls,
		openFor:       cfg.OpenFor,
	}
}

// TryAcquire reports whether a call may proceed, claiming the probe
// slot when the breaker is open or half-open.
func (b *Breaker) TryAcquire() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	switch b.st {
	case closed:
		return true
	case open:
		if now.After(b.nextTryAt) && !b.probeInFlight {
			b.st = halfOpen
			b.probeInFlight = true

			return true
		}

		return false
	case halfOpen:
		if !b.probeInFlight {
			b.probeInFlight = true

			return true
		}

		return false
	default:
		return true
	}
}

// OnSuccess records a successful call. A successful half-open probe
// closes the breaker with a clean window.
func (b *Breaker) OnSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.st == halfOpen {
		b.st = closed
		b.probeInFlight = false
		b.resetWindow()

		return
	}

	if b.st == closed {
		b.record(false)
	}
}

// OnFailure records a failed call, opening the breaker when the window
// failure rate reaches the threshold or when a half-open probe fails.
func (b *Breaker) OnFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.st == halfOpen {
		b.trip()
		b.probeInFlight = false

		return
	}

	if b.st != closed {
		return
	}

	b.record(true)

	if b.recorded >= b.minCalls && float64(b.failures)/float64(b.recorded) >= b.rateThreshold {
		b.trip()
	}
}

func (b *Breaker) trip() {
	b.st = open
	b.nextTryAt = time.Now().Add(b.openFor)
	b.resetWindow()
}

// record pushes an outcome into the rolling window, evicting the
// oldest one once the window is full.
func (b *Breaker) record(failure bool) {
	if b.recorded == len(b.outcomes) {
		if b.outcomes[b.next] {
			b.failures--
		}
	} else {
		b.recorded++
	}

	b.outcomes[b.next] = failure
	if failure {
		b.failures++
	}

	b.next = (b.next + 1) % len(b.outcomes)
}

func (b *Breaker) resetWindow() {
	for i := range b.outcomes {
		b.outcomes[i] = false
	}

	b.next = 0
	b.recorded = 0
	b.failures = 0
}
