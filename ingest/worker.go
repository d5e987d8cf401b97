package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/fwojciec/recall"
)

// Worker drains the ingestion queue. It is single-flight: Run refuses to
// start while another Run is active, so two processes pointed at the same
// database cannot double-ingest through one Worker value.
type Worker struct {
	queue    recall.QueueService
	ingester recall.Ingester
	config   recall.Config
	logger   *slog.Logger

	running atomic.Bool
	wake    chan struct{}
}

// NewWorker creates a new queue Worker.
func NewWorker(queue recall.QueueService, ingester recall.Ingester, config recall.Config, logger *slog.Logger) *Worker {
	return &Worker{
		queue:    queue,
		ingester: ingester,
		config:   config,
		logger:   logger,
		wake:     make(chan struct{}, 1),
	}
}

// Wake nudges a sleeping worker to re-check the queue immediately. It
// never blocks; a wake signal while one is already pending is a no-op.
func (w *Worker) Wake() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Run processes ready jobs until the context is canceled, sleeping between
// queue checks when nothing is ready. Returns ECONFLICT when another Run
// is already active.
func (w *Worker) Run(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		return recall.Errorf(recall.ECONFLICT, "worker already running")
	}
	defer w.running.Store(false)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		processed, err := w.processOne(ctx)
		if err != nil {
			return err
		}
		if processed {
			continue
		}

		if err := w.sleep(ctx); err != nil {
			return err
		}
	}
}

// RunOnce processes at most one ready job and reports whether one was
// processed.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	return w.processOne(ctx)
}

// processOne dequeues and ingests a single ready job. Ingestion failures
// are recorded against the job, never returned: only queue storage errors
// stop the worker.
func (w *Worker) processOne(ctx context.Context) (bool, error) {
	job, err := w.queue.NextReadyJob(ctx, time.Now().UTC())
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	item, ingErr := w.ingester.IngestURL(ctx, job.CanonicalURL, job.SavedFrom)
	if ingErr == nil {
		w.logger.Info("ingested", "url", job.CanonicalURL, "item", item.ID, "title", item.Title)
		return true, w.queue.MarkSuccess(ctx, job.ID)
	}
	if ctx.Err() != nil {
		// The failure is the shutdown, not the job. Leave its schedule
		// untouched so the next run retries it immediately.
		return false, ctx.Err()
	}

	maxAttempts := w.config.MaxAttempts
	if recall.ErrorCode(ingErr) == recall.EINVALID {
		// Invalid input never gets better with retries.
		maxAttempts = 1
	}

	decision, err := w.queue.MarkRetryOrDeadLetter(ctx, job.ID, ingErr.Error(), time.Now().UTC(), maxAttempts)
	if err != nil {
		return false, err
	}
	if decision.WillRetry {
		w.logger.Warn("ingest failed, will retry",
			"url", job.CanonicalURL,
			"attempts", job.Attempts+1,
			"nextAttemptAt", decision.NextAttemptAt,
			"err", ingErr,
		)
	} else {
		w.logger.Error("ingest dead-lettered",
			"url", job.CanonicalURL,
			"attempts", job.Attempts+1,
			"err", ingErr,
		)
	}
	return true, nil
}

// sleep waits until the next job could be ready, the worker is woken, or
// the context is canceled. The wait is capped so schedule drift never
// strands a ready job.
func (w *Worker) sleep(ctx context.Context) error {
	d := w.config.WorkerMaxSleep
	secs, err := w.queue.SecondsUntilNextReady(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	if secs != nil {
		if next := time.Duration(*secs) * time.Second; next < d {
			d = next
		}
	}
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.wake:
		return nil
	case <-timer.C:
		return nil
	}
}
