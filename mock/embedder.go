package mock

import (
	"context"

	"github.com/fwojciec/recall"
)

var _ recall.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of recall.Embedder.
type Embedder struct {
	EmbedFn     func(ctx context.Context, texts []string, progress recall.EmbedProgressFunc) ([][]float32, error)
	EmbedOneFn  func(ctx context.Context, text string) ([]float32, error)
	ModelIDFn   func() string
	DimensionFn func() int
	AvailableFn func() bool
}

func (e *Embedder) Embed(ctx context.Context, texts []string, progress recall.EmbedProgressFunc) ([][]float32, error) {
	return e.EmbedFn(ctx, texts, progress)
}

func (e *Embedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	return e.EmbedOneFn(ctx, text)
}

func (e *Embedder) ModelID() string {
	return e.ModelIDFn()
}

func (e *Embedder) Dimension() int {
	return e.DimensionFn()
}

func (e *Embedder) Available() bool {
	return e.AvailableFn()
}
