package recall

import "context"

// EmbedProgressFunc reports batch embedding progress as a monotonically
// increasing (done, total) pair.
type EmbedProgressFunc func(done, total int)

// Embedder computes fixed-dimension embedding vectors for text.
// It is consumed as a black-box port; the model implementation is external.
type Embedder interface {
	// Embed computes embeddings for a batch of texts, in order. The
	// progress callback, if non-nil, is invoked as texts complete.
	Embed(ctx context.Context, texts []string, progress EmbedProgressFunc) ([][]float32, error)

	// EmbedOne computes the embedding for a single text.
	EmbedOne(ctx context.Context, text string) ([]float32, error)

	// ModelID identifies the embedding model.
	ModelID() string

	// Dimension is the length of vectors the model produces.
	Dimension() int

	// Available reports whether the model can currently serve requests.
	Available() bool
}
