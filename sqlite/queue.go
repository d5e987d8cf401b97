package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/fwojciec/recall"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ recall.QueueService = (*QueueService)(nil)

// QueueService implements recall.QueueService using SQLite. Every mutation
// is a single statement or a row-level transaction, so concurrent
// enqueue/dequeue never lose updates.
type QueueService struct {
	db      *DB
	backoff recall.Config
}

// NewQueueService creates a new QueueService. The config supplies the
// backoff base and cap.
func NewQueueService(db *DB, cfg recall.Config) *QueueService {
	return &QueueService{db: db, backoff: cfg}
}

const jobColumns = "id, canonical_url, saved_from, attempts, next_attempt_at, last_error, dead_letter, created_at, updated_at"

// EnqueueIfNeeded inserts a new pending job unless a non-dead-letter job
// with the same canonical URL already exists. Idempotent by construction:
// the existence check and the insert are one statement.
func (s *QueueService) EnqueueIfNeeded(ctx context.Context, canonicalURL, savedFrom string, now time.Time) (bool, error) {
	if canonicalURL == "" {
		return false, recall.Errorf(recall.EINVALID, "canonical URL required")
	}

	ts := now.UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, canonical_url, saved_from, attempts, next_attempt_at, last_error, dead_letter, created_at, updated_at)
		SELECT ?, ?, ?, 0, ?, '', 0, ?, ?
		WHERE NOT EXISTS (
			SELECT 1 FROM jobs WHERE canonical_url = ? AND dead_letter = 0
		)
	`, uuid.New().String(), canonicalURL, savedFrom, ts, ts, ts, canonicalURL)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// NextReadyJob returns the non-dead-letter job with the smallest
// next_attempt_at that is <= now, ties broken by earliest created_at.
// Returns (nil, nil) when no job is ready.
func (s *QueueService) NextReadyJob(ctx context.Context, now time.Time) (*recall.IngestJob, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE dead_letter = 0 AND next_attempt_at <= ?
		ORDER BY next_attempt_at ASC, created_at ASC
		LIMIT 1
	`, now.UTC().Format(time.RFC3339))

	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return job, nil
}

// MarkSuccess removes the job.
func (s *QueueService) MarkSuccess(ctx context.Context, jobID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM jobs WHERE id = ?", jobID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return recall.Errorf(recall.ENOTFOUND, "job %q not found", jobID)
	}
	return nil
}

// MarkRetryOrDeadLetter increments the job's attempt count and records the
// error. At maxAttempts the job becomes dead-letter (terminal); otherwise
// it is rescheduled with exponentially increasing delay.
func (s *QueueService) MarkRetryOrDeadLetter(ctx context.Context, jobID string, jobErr string, now time.Time, maxAttempts int) (*recall.RetryDecision, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var attempts int
	err = tx.QueryRowContext(ctx, "SELECT attempts FROM jobs WHERE id = ?", jobID).Scan(&attempts)
	if err == sql.ErrNoRows {
		return nil, recall.Errorf(recall.ENOTFOUND, "job %q not found", jobID)
	}
	if err != nil {
		return nil, err
	}

	attempts++
	ts := now.UTC().Format(time.RFC3339)

	if attempts >= maxAttempts {
		if _, err := tx.ExecContext(ctx, `
			UPDATE jobs SET attempts = ?, last_error = ?, dead_letter = 1, updated_at = ? WHERE id = ?
		`, attempts, jobErr, ts, jobID); err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		return &recall.RetryDecision{WillRetry: false}, nil
	}

	next := now.UTC().Add(recall.Backoff(attempts, s.backoff.BackoffBase, s.backoff.BackoffCap))
	if _, err := tx.ExecContext(ctx, `
		UPDATE jobs SET attempts = ?, last_error = ?, next_attempt_at = ?, updated_at = ? WHERE id = ?
	`, attempts, jobErr, next.Format(time.RFC3339), ts, jobID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &recall.RetryDecision{WillRetry: true, NextAttemptAt: next}, nil
}

// SecondsUntilNextReady returns the time until the earliest pending job
// becomes ready, nil when the queue has no pending jobs.
func (s *QueueService) SecondsUntilNextReady(ctx context.Context, now time.Time) (*int64, error) {
	var next sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT MIN(next_attempt_at) FROM jobs WHERE dead_letter = 0").Scan(&next)
	if err != nil {
		return nil, err
	}
	if !next.Valid {
		return nil, nil
	}

	at, err := parseRFC3339(next.String, "next_attempt_at")
	if err != nil {
		return nil, err
	}

	secs := int64(at.Sub(now.UTC()) / time.Second)
	if secs < 0 {
		secs = 0
	}
	return &secs, nil
}

// Metrics returns queue counts for observability.
func (s *QueueService) Metrics(ctx context.Context, now time.Time) (*recall.QueueMetrics, error) {
	var m recall.QueueMetrics

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN dead_letter = 0 THEN 1 END),
			COUNT(CASE WHEN dead_letter = 1 THEN 1 END)
		FROM jobs
	`).Scan(&m.Pending, &m.DeadLetter)
	if err != nil {
		return nil, err
	}

	if m.NextInSeconds, err = s.SecondsUntilNextReady(ctx, now); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReviveDeadLetters resets every dead-letter job to pending with cleared
// counters, eligible immediately.
func (s *QueueService) ReviveDeadLetters(ctx context.Context, now time.Time) (int, error) {
	ts := now.UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET dead_letter = 0, attempts = 0, last_error = '', next_attempt_at = ?, updated_at = ?
		WHERE dead_letter = 1
	`, ts, ts)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}

// ForceRetryPendingNow collapses every pending job's schedule to now.
func (s *QueueService) ForceRetryPendingNow(ctx context.Context, now time.Time) (int, error) {
	ts := now.UTC().Format(time.RFC3339)
	result, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET next_attempt_at = ?, updated_at = ?
		WHERE dead_letter = 0 AND next_attempt_at > ?
	`, ts, ts, ts)
	if err != nil {
		return 0, err
	}

	rows, err := result.RowsAffected()
	return int(rows), err
}

func scanJob(row scanner) (*recall.IngestJob, error) {
	var job recall.IngestJob
	var deadLetter int
	var nextAttemptAt, createdAt, updatedAt string

	if err := row.Scan(&job.ID, &job.CanonicalURL, &job.SavedFrom, &job.Attempts,
		&nextAttemptAt, &job.LastError, &deadLetter, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	job.DeadLetter = deadLetter != 0

	var err error
	if job.NextAttemptAt, err = parseRFC3339(nextAttemptAt, "next_attempt_at"); err != nil {
		return nil, err
	}
	if job.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if job.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &job, nil
}
