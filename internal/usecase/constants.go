package usecase

import "time"

const (
	// DefaultIdempotencyTTL bounds how long cached responses are replayed.
	DefaultIdempotencyTTL = 24 * time.Hour

	// DefaultMaxBatchSize caps the number of transfers per batch request.
	DefaultMaxBatchSize = 10

	// DefaultBatchWorkers bounds concurrent fan-out of a batch initiation.
	DefaultBatchWorkers = 4
)
