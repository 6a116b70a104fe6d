package sync

import (
	"context"
	"time"

	"github.com/palatelog/palatelog-backend/internal/pkg/httpx"
	"github.com/palatelog/palatelog-backend/internal/pkg/logger"
)

// UploadClient pushes one batch to the server. Implemented by the remote
// HTTP client.
type UploadClient interface {
	UploadBatch(ctx context.Context, batch []RemoteRestaurant) error
}

const (
	// DefaultBatchSize bounds payload size and keeps the blast radius of a
	// failed request small.
	DefaultBatchSize = 15

	// DefaultMaxRetries is the number of extra attempts after the first.
	DefaultMaxRetries = 2

	DefaultAttemptTimeout  = 60 * time.Second
	DefaultServerErrDelay  = 2 * time.Second
	DefaultNetworkErrDelay = 3 * time.Second
)

// BatchResult is the outcome for one batch.
type BatchResult struct {
	Success  bool
	Count    int
	Attempts int
	Err      error
}

// UploadResult aggregates per-batch outcomes into restaurant counts.
type UploadResult struct {
	SuccessCount int
	FailedCount  int
	Batches      []BatchResult
}

// BatchUploader chunks an export set into fixed-size batches and drives
// them through the client strictly one at a time. Sequential processing
// is deliberate: it avoids hammering the endpoint and keeps progress
// reporting linear.
type BatchUploader struct {
	client UploadClient
	log    *logger.Logger

	batchSize       int
	maxRetries      int
	attemptTimeout  time.Duration
	serverErrDelay  time.Duration
	networkErrDelay time.Duration

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

func NewBatchUploader(client UploadClient, baseLog *logger.Logger) *BatchUploader {
	return &BatchUploader{
		client:          client,
		log:             baseLog.With("component", "BatchUploader"),
		batchSize:       DefaultBatchSize,
		maxRetries:      DefaultMaxRetries,
		attemptTimeout:  DefaultAttemptTimeout,
		serverErrDelay:  DefaultServerErrDelay,
		networkErrDelay: DefaultNetworkErrDelay,
		sleep:           sleepCtx,
	}
}

// WithBatchSize overrides the default chunk size; values below 1 are
// ignored.
func (u *BatchUploader) WithBatchSize(n int) *BatchUploader {
	if n >= 1 {
		u.batchSize = n
	}
	return u
}

// WithTimings overrides attempt timeout and backoff base delays; zero
// values keep the defaults.
func (u *BatchUploader) WithTimings(attemptTimeout, serverErrDelay, networkErrDelay time.Duration) *BatchUploader {
	if attemptTimeout > 0 {
		u.attemptTimeout = attemptTimeout
	}
	if serverErrDelay > 0 {
		u.serverErrDelay = serverErrDelay
	}
	if networkErrDelay > 0 {
		u.networkErrDelay = networkErrDelay
	}
	return u
}

// Upload pushes all restaurants in ceil(len/batchSize) sequential batches
// and reports cumulative progress after each one.
func (u *BatchUploader) Upload(ctx context.Context, restaurants []RemoteRestaurant) UploadResult {
	result := UploadResult{}
	if len(restaurants) == 0 {
		return result
	}

	batches := partition(restaurants, u.batchSize)
	total := len(batches)

	for i, batch := range batches {
		u.log.Info("Uploading batch", "batch", i+1, "total", total, "size", len(batch))

		br := u.uploadBatch(ctx, batch)
		result.Batches = append(result.Batches, br)
		if br.Success {
			result.SuccessCount += br.Count
		} else {
			result.FailedCount += br.Count
		}

		u.log.Info("Batch finished",
			"batch", i+1,
			"total", total,
			"success", br.Success,
			"attempts", br.Attempts,
			"uploaded_so_far", result.SuccessCount,
			"failed_so_far", result.FailedCount,
		)
	}
	return result
}

// uploadBatch attempts one batch up to 1+maxRetries times. Server errors
// (5xx) and network-level failures back off exponentially and retry;
// client errors (4xx) and anything unclassified fail the batch outright.
func (u *BatchUploader) uploadBatch(ctx context.Context, batch []RemoteRestaurant) BatchResult {
	br := BatchResult{Count: len(batch)}

	for attempt := 0; attempt <= u.maxRetries; attempt++ {
		br.Attempts = attempt + 1

		attemptCtx, cancel := context.WithTimeout(ctx, u.attemptTimeout)
		err := u.client.UploadBatch(attemptCtx, batch)
		cancel()

		if err == nil {
			br.Success = true
			return br
		}
		br.Err = err

		var baseDelay time.Duration
		switch {
		case httpx.IsServerError(err):
			baseDelay = u.serverErrDelay
		case httpx.IsClientError(err):
			u.log.Warn("Batch rejected by server, not retrying", "error", err)
			return br
		case httpx.IsNetworkError(err):
			baseDelay = u.networkErrDelay
		default:
			u.log.Warn("Batch failed with non-retryable error", "error", err)
			return br
		}

		if attempt == u.maxRetries {
			u.log.Warn("Batch failed after final attempt", "attempts", br.Attempts, "error", err)
			return br
		}

		delay := baseDelay << attempt
		u.log.Warn("Batch attempt failed, backing off", "attempt", br.Attempts, "delay", delay, "error", err)
		if err := u.sleep(ctx, delay); err != nil {
			br.Err = err
			return br
		}
	}
	return br
}

func partition(restaurants []RemoteRestaurant, size int) [][]RemoteRestaurant {
	var batches [][]RemoteRestaurant
	for start := 0; start < len(restaurants); start += size {
		end := start + size
		if end > len(restaurants) {
			end = len(restaurants)
		}
		batches = append(batches, restaurants[start:end])
	}
	return batches
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
