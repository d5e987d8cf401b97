package recall

import (
	"context"
	"time"
)

// IngestJob represents a pending request to save a URL into the cache.
// Lifecycle: pending -> pending (retryable failure, rescheduled) ->
// dead-letter (terminal, after max attempts) -> pending (manual revive),
// or pending -> removed (on success).
type IngestJob struct {
	ID            string    `json:"id"`
	CanonicalURL  string    `json:"canonicalUrl"`
	SavedFrom     string    `json:"savedFrom"`
	Attempts      int       `json:"attempts"`
	NextAttemptAt time.Time `json:"nextAttemptAt"`
	LastError     string    `json:"lastError,omitempty"`
	DeadLetter    bool      `json:"deadLetter"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate returns an error if the job contains invalid fields.
func (j *IngestJob) Validate() error {
	if j.CanonicalURL == "" {
		return Errorf(EINVALID, "job canonical URL required")
	}
	return nil
}

// RetryDecision is the outcome of recording a job failure.
type RetryDecision struct {
	// WillRetry is false once the job has been dead-lettered.
	WillRetry bool `json:"willRetry"`

	// NextAttemptAt is when the job becomes eligible again.
	// Meaningless when WillRetry is false.
	NextAttemptAt time.Time `json:"nextAttemptAt"`
}

// QueueMetrics summarizes queue state for observability.
type QueueMetrics struct {
	Pending    int `json:"pending"`
	DeadLetter int `json:"deadLetter"`

	// NextInSeconds is the time until the earliest pending job becomes
	// ready, nil when the queue has no pending jobs. Zero means a job is
	// ready now.
	NextInSeconds *int64 `json:"nextInSeconds"`
}

// QueueService represents a durable, idempotent ingestion job queue.
// Implementations must apply every mutation atomically so concurrent
// enqueue/dequeue never lose updates.
type QueueService interface {
	// EnqueueIfNeeded inserts a new pending job unless a non-dead-letter
	// job with the same canonical URL already exists. Returns whether a
	// new job was created.
	EnqueueIfNeeded(ctx context.Context, canonicalURL, savedFrom string, now time.Time) (bool, error)

	// NextReadyJob returns the non-dead-letter job with the smallest
	// next_attempt_at that is <= now, ties broken by earliest created_at.
	// Returns (nil, nil) when no job is ready; absence is a normal outcome.
	NextReadyJob(ctx context.Context, now time.Time) (*IngestJob, error)

	// MarkSuccess removes the job.
	// Returns ENOTFOUND if the job does not exist.
	MarkSuccess(ctx context.Context, jobID string) error

	// MarkRetryOrDeadLetter increments the job's attempt count and records
	// the error. If the attempt count reaches maxAttempts the job becomes
	// dead-letter; otherwise it is rescheduled per the backoff policy.
	MarkRetryOrDeadLetter(ctx context.Context, jobID string, jobErr string, now time.Time, maxAttempts int) (*RetryDecision, error)

	// SecondsUntilNextReady returns the time until the earliest pending
	// job becomes ready, nil when the queue has no pending jobs.
	SecondsUntilNextReady(ctx context.Context, now time.Time) (*int64, error)

	// Metrics returns queue counts for observability.
	Metrics(ctx context.Context, now time.Time) (*QueueMetrics, error)

	// ReviveDeadLetters resets every dead-letter job to pending with
	// cleared counters, eligible immediately. Returns the number revived.
	ReviveDeadLetters(ctx context.Context, now time.Time) (int, error)

	// ForceRetryPendingNow collapses every pending job's schedule to now.
	// Returns the number of jobs rescheduled.
	ForceRetryPendingNow(ctx context.Context, now time.Time) (int, error)
}

// Backoff returns the retry delay after the given number of failed
// attempts: base doubled per attempt, capped. With the defaults (15s base,
// 1h cap) the sequence is 15s, 30s, 60s, 120s, 240s, ...
func Backoff(attempts int, base, cap time.Duration) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= cap {
			return cap
		}
	}
	if d > cap {
		return cap
	}
	return d
}
