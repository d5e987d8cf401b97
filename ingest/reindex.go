package ingest

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/fwojciec/recall"
	"golang.org/x/sync/errgroup"
)

// Reindexer re-embeds every stored chunk with the current embedding model.
// Work is committed per item, so an interrupted run resumes where it
// stopped; the store-wide embedding state advances only after every chunk
// has been re-embedded.
type Reindexer struct {
	items       recall.ItemService
	chunks      recall.ChunkService
	embedder    recall.Embedder
	logger      *slog.Logger
	Concurrency int

	inProgress atomic.Bool
}

// NewReindexer creates a new Reindexer.
func NewReindexer(items recall.ItemService, chunks recall.ChunkService, embedder recall.Embedder, logger *slog.Logger) *Reindexer {
	return &Reindexer{items: items, chunks: chunks, embedder: embedder, logger: logger}
}

// Reindex re-embeds all chunks. Returns ECONFLICT when a reindex is
// already running, EUNAVAILABLE when the embedder cannot serve requests.
// The progress callback, if non-nil, receives monotonically increasing
// (done, total) chunk counts.
func (r *Reindexer) Reindex(ctx context.Context, progress recall.EmbedProgressFunc) error {
	if !r.inProgress.CompareAndSwap(false, true) {
		return recall.Errorf(recall.ECONFLICT, "reindex already in progress")
	}
	defer r.inProgress.Store(false)

	if !r.embedder.Available() {
		return recall.Errorf(recall.EUNAVAILABLE, "embedding model unavailable")
	}

	total, err := r.chunks.CountChunks(ctx)
	if err != nil {
		return err
	}
	if total == 0 {
		return r.recordState(ctx)
	}

	var done atomic.Int64
	report := func(n int) {
		if progress != nil {
			progress(int(done.Add(int64(n))), total)
		}
	}

	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	const pageSize = 100
	for offset := 0; ; offset += pageSize {
		items, err := r.items.FindItems(ctx, recall.ItemFilter{Offset: offset, Limit: pageSize})
		if err != nil {
			return err
		}
		for _, item := range items {
			item := item
			g.Go(func() error {
				n, err := r.reindexItem(gctx, item.ID)
				if err != nil {
					return err
				}
				report(n)
				return nil
			})
		}
		if len(items) < pageSize {
			break
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return r.recordState(ctx)
}

// reindexItem re-embeds one item's chunks as a single batch and returns
// the number of chunks updated.
func (r *Reindexer) reindexItem(ctx context.Context, itemID string) (int, error) {
	chunks, err := r.chunks.FindChunksByItem(ctx, itemID)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := r.embedder.Embed(ctx, texts, nil)
	if err != nil {
		return 0, err
	}
	if len(vectors) != len(chunks) {
		return 0, recall.Errorf(recall.EINTERNAL, "embedder returned %d vectors for %d chunks of item %s", len(vectors), len(chunks), itemID)
	}

	for i, c := range chunks {
		if err := r.chunks.UpdateChunkEmbedding(ctx, c.ID, vectors[i], r.embedder.ModelID(), r.embedder.Dimension()); err != nil {
			return 0, err
		}
	}

	r.logger.Debug("reindexed item", "item", itemID, "chunks", len(chunks))
	return len(chunks), nil
}

func (r *Reindexer) recordState(ctx context.Context) error {
	return r.chunks.SetEmbeddingState(ctx, recall.EmbeddingState{
		ModelID:   r.embedder.ModelID(),
		Dimension: r.embedder.Dimension(),
	})
}
