package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/recall"
	main "github.com/fwojciec/recall/cmd/recall"
	"github.com/fwojciec/recall/ingest"
	"github.com/fwojciec/recall/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReindexCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("re-embeds chunks and reports progress", func(t *testing.T) {
		t.Parallel()

		items := &mock.ItemService{
			FindItemsFn: func(_ context.Context, filter recall.ItemFilter) ([]*recall.Item, error) {
				if filter.Offset > 0 {
					return nil, nil
				}
				return []*recall.Item{{ID: "item-1"}}, nil
			},
		}
		chunks := &mock.ChunkService{
			CountChunksFn: func(_ context.Context) (int, error) { return 1, nil },
			FindChunksByItemFn: func(_ context.Context, itemID string) ([]*recall.Chunk, error) {
				return []*recall.Chunk{{ID: 1, ItemID: itemID, Content: "chunk text"}}, nil
			},
			UpdateChunkEmbeddingFn: func(_ context.Context, _ int64, _ []float32, _ string, _ int) error {
				return nil
			},
			SetEmbeddingStateFn: func(_ context.Context, _ recall.EmbeddingState) error {
				return nil
			},
		}
		embedder := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string, _ recall.EmbedProgressFunc) ([][]float32, error) {
				return [][]float32{{0.1, 0.2}}, nil
			},
			ModelIDFn:   func() string { return "embed-v2" },
			DimensionFn: func() int { return 2 },
			AvailableFn: func() bool { return true },
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    stdout,
			Stderr:    &bytes.Buffer{},
			Reindexer: ingest.NewReindexer(items, chunks, embedder, discardLogger()),
		}

		cmd := &main.ReindexCmd{}
		err := cmd.Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "embedded 1/1 chunks")
		assert.Contains(t, stdout.String(), "Reindex complete.")
	})

	t.Run("hints at the api key when embeddings are unavailable", func(t *testing.T) {
		t.Parallel()

		embedder := &mock.Embedder{
			AvailableFn: func() bool { return false },
		}

		stderr := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:       testContext(),
			Stdout:    &bytes.Buffer{},
			Stderr:    stderr,
			Reindexer: ingest.NewReindexer(nil, nil, embedder, discardLogger()),
		}

		cmd := &main.ReindexCmd{}
		err := cmd.Run(deps)

		require.Error(t, err)
		assert.Equal(t, recall.EUNAVAILABLE, recall.ErrorCode(err))
		assert.Contains(t, stderr.String(), "GEMINI_API_KEY")
	})
}
