package mock

import (
	"context"
	"time"

	"github.com/fwojciec/recall"
)

var _ recall.QueueService = (*QueueService)(nil)

// QueueService is a mock implementation of recall.QueueService.
type QueueService struct {
	EnqueueIfNeededFn       func(ctx context.Context, canonicalURL, savedFrom string, now time.Time) (bool, error)
	NextReadyJobFn          func(ctx context.Context, now time.Time) (*recall.IngestJob, error)
	MarkSuccessFn           func(ctx context.Context, jobID string) error
	MarkRetryOrDeadLetterFn func(ctx context.Context, jobID string, jobErr string, now time.Time, maxAttempts int) (*recall.RetryDecision, error)
	SecondsUntilNextReadyFn func(ctx context.Context, now time.Time) (*int64, error)
	MetricsFn               func(ctx context.Context, now time.Time) (*recall.QueueMetrics, error)
	ReviveDeadLettersFn     func(ctx context.Context, now time.Time) (int, error)
	ForceRetryPendingNowFn  func(ctx context.Context, now time.Time) (int, error)
}

func (s *QueueService) EnqueueIfNeeded(ctx context.Context, canonicalURL, savedFrom string, now time.Time) (bool, error) {
	return s.EnqueueIfNeededFn(ctx, canonicalURL, savedFrom, now)
}

func (s *QueueService) NextReadyJob(ctx context.Context, now time.Time) (*recall.IngestJob, error) {
	return s.NextReadyJobFn(ctx, now)
}

func (s *QueueService) MarkSuccess(ctx context.Context, jobID string) error {
	return s.MarkSuccessFn(ctx, jobID)
}

func (s *QueueService) MarkRetryOrDeadLetter(ctx context.Context, jobID string, jobErr string, now time.Time, maxAttempts int) (*recall.RetryDecision, error) {
	return s.MarkRetryOrDeadLetterFn(ctx, jobID, jobErr, now, maxAttempts)
}

func (s *QueueService) SecondsUntilNextReady(ctx context.Context, now time.Time) (*int64, error) {
	return s.SecondsUntilNextReadyFn(ctx, now)
}

func (s *QueueService) Metrics(ctx context.Context, now time.Time) (*recall.QueueMetrics, error) {
	return s.MetricsFn(ctx, now)
}

func (s *QueueService) ReviveDeadLetters(ctx context.Context, now time.Time) (int, error) {
	return s.ReviveDeadLettersFn(ctx, now)
}

func (s *QueueService) ForceRetryPendingNow(ctx context.Context, now time.Time) (int, error) {
	return s.ForceRetryPendingNowFn(ctx, now)
}
