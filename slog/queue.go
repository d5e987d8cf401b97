package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/recall"
)

// Ensure LoggingQueueService implements recall.QueueService.
var _ recall.QueueService = (*LoggingQueueService)(nil)

// LoggingQueueService wraps a QueueService with debug logging of queue
// mutations. Read-only calls are delegated silently; they run on every
// worker wakeup and would drown the log.
type LoggingQueueService struct {
	next   recall.QueueService
	logger *slog.Logger
}

// NewLoggingQueueService creates a new LoggingQueueService.
func NewLoggingQueueService(next recall.QueueService, logger *slog.Logger) *LoggingQueueService {
	return &LoggingQueueService{next: next, logger: logger}
}

// EnqueueIfNeeded delegates and logs whether a new job was created.
func (s *LoggingQueueService) EnqueueIfNeeded(ctx context.Context, canonicalURL, savedFrom string, now time.Time) (created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("enqueue",
			"url", canonicalURL,
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EnqueueIfNeeded(ctx, canonicalURL, savedFrom, now)
}

// NextReadyJob delegates to the wrapped service.
func (s *LoggingQueueService) NextReadyJob(ctx context.Context, now time.Time) (*recall.IngestJob, error) {
	return s.next.NextReadyJob(ctx, now)
}

// MarkSuccess delegates and logs the completed job.
func (s *LoggingQueueService) MarkSuccess(ctx context.Context, jobID string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("job done",
			"job", jobID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.MarkSuccess(ctx, jobID)
}

// MarkRetryOrDeadLetter delegates and logs the retry decision.
func (s *LoggingQueueService) MarkRetryOrDeadLetter(ctx context.Context, jobID string, jobErr string, now time.Time, maxAttempts int) (decision *recall.RetryDecision, err error) {
	defer func(begin time.Time) {
		willRetry := false
		if decision != nil {
			willRetry = decision.WillRetry
		}
		s.logger.Info("job failed",
			"job", jobID,
			"jobErr", jobErr,
			"willRetry", willRetry,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.MarkRetryOrDeadLetter(ctx, jobID, jobErr, now, maxAttempts)
}

// SecondsUntilNextReady delegates to the wrapped service.
func (s *LoggingQueueService) SecondsUntilNextReady(ctx context.Context, now time.Time) (*int64, error) {
	return s.next.SecondsUntilNextReady(ctx, now)
}

// Metrics delegates to the wrapped service.
func (s *LoggingQueueService) Metrics(ctx context.Context, now time.Time) (*recall.QueueMetrics, error) {
	return s.next.Metrics(ctx, now)
}

// ReviveDeadLetters delegates and logs the number of revived jobs.
func (s *LoggingQueueService) ReviveDeadLetters(ctx context.Context, now time.Time) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("revive dead letters",
			"revived", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReviveDeadLetters(ctx, now)
}

// ForceRetryPendingNow delegates and logs the number of rescheduled jobs.
func (s *LoggingQueueService) ForceRetryPendingNow(ctx context.Context, now time.Time) (n int, err error) {
	defer func(begin time.Time) {
		s.logger.Info("force retry pending",
			"rescheduled", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ForceRetryPendingNow(ctx, now)
}
