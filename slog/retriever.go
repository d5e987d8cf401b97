package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/recall"
)

// Ensure LoggingRetriever implements recall.Retriever.
var _ recall.Retriever = (*LoggingRetriever)(nil)

// LoggingRetriever wraps a Retriever with debug logging.
type LoggingRetriever struct {
	next   recall.Retriever
	logger *slog.Logger
}

// NewLoggingRetriever creates a new LoggingRetriever.
func NewLoggingRetriever(next recall.Retriever, logger *slog.Logger) *LoggingRetriever {
	return &LoggingRetriever{next: next, logger: logger}
}

// Search delegates to the wrapped retriever and logs the outcome.
func (r *LoggingRetriever) Search(ctx context.Context, query string, topK int) (retrieval *recall.Retrieval, err error) {
	defer func(begin time.Time) {
		results := 0
		reindex := false
		if retrieval != nil {
			results = len(retrieval.Results)
			reindex = retrieval.ReindexRequired
		}
		r.logger.Info("search",
			"query", query,
			"topK", topK,
			"results", results,
			"reindexRequired", reindex,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Search(ctx, query, topK)
}
