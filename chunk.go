package recall

import "context"

// Chunk represents a bounded span of an item's text, the unit of embedding
// and retrieval. Chunk text is immutable after creation; only the embedding
// fields may change (via reindexing).
type Chunk struct {
	ID             int64     `json:"id"`
	ItemID         string    `json:"itemId"`
	Position       int       `json:"position"`
	Content        string    `json:"content"`
	Embedding      []float32 `json:"embedding,omitempty"`
	EmbeddingModel string    `json:"embeddingModel"`
	EmbeddingDim   int       `json:"embeddingDim"`
}

// Validate returns an error if the chunk contains invalid fields. A chunk
// may carry no embedding at all (saved while the embedding backend was
// down; reindexing fills it in later), but a declared dimension must
// always match the vector.
func (c *Chunk) Validate() error {
	if c.Content == "" {
		return Errorf(EINVALID, "chunk content required")
	}
	if c.EmbeddingDim != len(c.Embedding) {
		return Errorf(EINVALID, "chunk embedding dimension mismatch: declared %d, got %d", c.EmbeddingDim, len(c.Embedding))
	}
	return nil
}

// LexicalMatch is a single hit from the lexical full-text index.
type LexicalMatch struct {
	ChunkID int64   `json:"chunkId"`
	Rank    float64 `json:"rank"`
}

// EmbeddingState describes the embedding model the store's chunks were
// written under. A mismatch with the active Embedder means retrieval must
// signal that reindexing is required.
type EmbeddingState struct {
	ModelID   string `json:"modelId"`
	Dimension int    `json:"dimension"`
}

// ChunkService represents a service for reading and re-embedding chunks.
// Chunks are created through ItemService.CreateItemWithChunks and deleted
// through ItemService.DeleteItem; nothing mutates chunk text after creation.
type ChunkService interface {
	// FindChunksByItem retrieves an item's chunks ordered by position.
	FindChunksByItem(ctx context.Context, itemID string) ([]*Chunk, error)

	// AllChunks retrieves every stored chunk ordered by ID.
	AllChunks(ctx context.Context) ([]*Chunk, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// UpdateChunkEmbedding overwrites a chunk's embedding vector, model id
	// and dimension. Only the reindex controller calls this.
	UpdateChunkEmbedding(ctx context.Context, chunkID int64, embedding []float32, modelID string, dim int) error

	// SearchLexical runs a ranked full-text match against the lexical
	// index and returns the best matches first.
	SearchLexical(ctx context.Context, query string, limit int) ([]LexicalMatch, error)

	// EmbeddingState returns the recorded embedding model and dimension
	// for the store. Returns ENOTFOUND if nothing has been embedded yet.
	EmbeddingState(ctx context.Context) (*EmbeddingState, error)

	// SetEmbeddingState records the active embedding model and dimension.
	SetEmbeddingState(ctx context.Context, state EmbeddingState) error
}
