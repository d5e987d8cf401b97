package mock

import (
	"context"

	"github.com/fwojciec/recall"
)

var _ recall.ChunkService = (*ChunkService)(nil)

// ChunkService is a mock implementation of recall.ChunkService.
type ChunkService struct {
	FindChunksByItemFn     func(ctx context.Context, itemID string) ([]*recall.Chunk, error)
	AllChunksFn            func(ctx context.Context) ([]*recall.Chunk, error)
	CountChunksFn          func(ctx context.Context) (int, error)
	UpdateChunkEmbeddingFn func(ctx context.Context, chunkID int64, embedding []float32, modelID string, dim int) error
	SearchLexicalFn        func(ctx context.Context, query string, limit int) ([]recall.LexicalMatch, error)
	EmbeddingStateFn       func(ctx context.Context) (*recall.EmbeddingState, error)
	SetEmbeddingStateFn    func(ctx context.Context, state recall.EmbeddingState) error
}

func (s *ChunkService) FindChunksByItem(ctx context.Context, itemID string) ([]*recall.Chunk, error) {
	return s.FindChunksByItemFn(ctx, itemID)
}

func (s *ChunkService) AllChunks(ctx context.Context) ([]*recall.Chunk, error) {
	return s.AllChunksFn(ctx)
}

func (s *ChunkService) CountChunks(ctx context.Context) (int, error) {
	return s.CountChunksFn(ctx)
}

func (s *ChunkService) UpdateChunkEmbedding(ctx context.Context, chunkID int64, embedding []float32, modelID string, dim int) error {
	return s.UpdateChunkEmbeddingFn(ctx, chunkID, embedding, modelID, dim)
}

func (s *ChunkService) SearchLexical(ctx context.Context, query string, limit int) ([]recall.LexicalMatch, error) {
	return s.SearchLexicalFn(ctx, query, limit)
}

func (s *ChunkService) EmbeddingState(ctx context.Context) (*recall.EmbeddingState, error) {
	return s.EmbeddingStateFn(ctx)
}

func (s *ChunkService) SetEmbeddingState(ctx context.Context, state recall.EmbeddingState) error {
	return s.SetEmbeddingStateFn(ctx, state)
}
